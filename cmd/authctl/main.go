package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/anjing/storeauth/api"
	"github.com/anjing/storeauth/auth"
	"github.com/anjing/storeauth/binding"
	"github.com/anjing/storeauth/internal/config"
	"github.com/anjing/storeauth/kv"
	"github.com/anjing/storeauth/otp"
	"github.com/anjing/storeauth/session"
	"github.com/anjing/storeauth/users"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() error {
	_ = godotenv.Load()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	storage, err := newStorage(c)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	tokens := session.NewStore(session.WithStorage(storage, c.GetSessionStorageKey()))

	timeout, err := time.ParseDuration(c.GetHTTPTimeout())
	if err != nil {
		return fmt.Errorf("parse HTTP_TIMEOUT: %w", err)
	}

	client := api.NewHTTPClient(c.GetAPIBaseURL(),
		api.WithTokenSource(tokens.Authorization),
		api.WithTimeout(timeout),
		api.WithLogger(logger),
	)

	challenge := otp.NewChallenge(client, c)
	service, err := auth.NewService(client, tokens, challenge, users.NewService(client))
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	stores := binding.NewManager(client, tokens)

	ctx := context.Background()
	if err := tokens.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not restore persisted session")
	}

	reader := bufio.NewReader(os.Stdin)

	if !tokens.IsAuthenticated() {
		if err := login(ctx, service, reader); err != nil {
			return err
		}
	}

	return showSession(ctx, service, stores, reader)
}

func login(ctx context.Context, service *auth.Service, reader *bufio.Reader) error {
	username := prompt(reader, "Username: ")
	password := prompt(reader, "Password: ")

	outcome, err := service.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	switch result := outcome.(type) {
	case auth.Authenticated:
		fmt.Printf("Logged in as %s\n", result.User.Nickname)
		return nil
	case auth.TwoFactorRequired:
		if result.Phone != nil {
			fmt.Printf("A verification code was sent to %s\n", *result.Phone)
		}
		return completeTwoFactor(ctx, service, reader)
	default:
		return fmt.Errorf("unexpected login outcome %T", outcome)
	}
}

func completeTwoFactor(ctx context.Context, service *auth.Service, reader *bufio.Reader) error {
	for {
		code := prompt(reader, "Code (or 'r' to resend): ")
		if strings.EqualFold(code, "r") {
			if err := service.ResendOtp(ctx); err != nil {
				fmt.Printf("Resend failed: %s\n", err)
			}
			continue
		}

		if _, err := service.VerifyTwoFactor(ctx, code, true); err != nil {
			fmt.Printf("Verification failed: %s\n", err)
			continue
		}
		fmt.Println("Two-factor verification complete")
		return nil
	}
}

func showSession(ctx context.Context, service *auth.Service, stores *binding.Manager, reader *bufio.Reader) error {
	claims, err := service.Claims()
	if err != nil {
		return fmt.Errorf("decode claims: %w", err)
	}
	fmt.Printf("Account %s (user %s, tenant %s), token expires %s\n",
		claims.Account, claims.SubjectID, claims.TenantID, claims.ExpiresAt.Format(time.RFC3339))

	liveness, err := service.VerifyToken(ctx)
	if err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	if !liveness.IsLogin {
		fmt.Println("Server reports the session is no longer live")
		return nil
	}

	if storeNo := prompt(reader, "Store to bind (empty to skip): "); storeNo != "" {
		if _, err := stores.Bind(ctx, storeNo); err != nil {
			return fmt.Errorf("bind store: %w", err)
		}
		fmt.Printf("Bound to store %s\n", storeNo)
	}

	info, err := service.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("current user: %w", err)
	}
	fmt.Printf("User %s <%s>, roles %s\n", info.UserName, info.Email, strings.Join(info.Roles, ", "))
	return nil
}

func newStorage(c config.Config) (kv.Store, error) {
	if addr := c.GetRedisAddr(); addr != "" {
		return kv.NewRedis(addr, config.GetEnv("REDIS_PASSWORD", ""), 0)
	}
	return kv.NewMemory(), nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
