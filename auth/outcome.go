package auth

import (
	"github.com/anjing/storeauth/authmodel"
	"github.com/anjing/storeauth/session"
)

// Outcome is the result of a primary login: either a completed session
// or a pending two-factor challenge. The two cases are distinct types
// rather than optional fields on one struct, so callers switch on the
// concrete type and the compiler keeps them honest.
type Outcome interface {
	loginOutcome()
}

// Authenticated is a completed login: the token is already installed
// in the session store.
type Authenticated struct {
	Token *session.Token
	User  authmodel.UserSummary
}

// TwoFactorRequired is a login that passed password verification but
// needs a one-time code. No session token exists yet; the pre-auth
// token seeds the challenge.
type TwoFactorRequired struct {
	PreAuthToken string
	Phone        *string
}

func (Authenticated) loginOutcome()     {}
func (TwoFactorRequired) loginOutcome() {}
