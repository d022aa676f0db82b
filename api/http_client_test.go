package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anjing/storeauth/api"
)

type echoPayload struct {
	Name string `json:"name"`
}

func envelopeBody(code, message string, data any) []byte {
	body, _ := json.Marshal(map[string]any{
		"code":      code,
		"message":   message,
		"data":      data,
		"timestamp": 1740000000000,
	})
	return body
}

func TestHTTPClientDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/current-user", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write(envelopeBody("0", "ok", echoPayload{Name: "alice"}))
	}))
	defer server.Close()

	client := api.NewHTTPClient(server.URL)

	var out echoPayload
	require.NoError(t, client.Get(context.Background(), "/auth/current-user", &out))
	require.Equal(t, "alice", out.Name)
}

func TestHTTPClientBusinessErrorBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(envelopeBody("2101", "username or password error", nil))
	}))
	defer server.Close()

	client := api.NewHTTPClient(server.URL)

	err := client.Post(context.Background(), "/auth/login", map[string]string{"username": "a"}, nil)
	require.True(t, api.IsCode(err, api.CodeBadCredentials))

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "username or password error", apiErr.Message)
}

func TestHTTPClientNonEnvelopeBodyIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := api.NewHTTPClient(server.URL)

	err := client.Get(context.Background(), "/auth/verify", nil)
	require.True(t, api.IsTransport(err))
}

func TestHTTPClientConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := api.NewHTTPClient(server.URL)

	err := client.Get(context.Background(), "/auth/verify", nil)
	require.True(t, api.IsTransport(err))
}

func TestHTTPClientSendsAuthorizationFromTokenSource(t *testing.T) {
	var seenAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuthorization = r.Header.Get("Authorization")
		_, _ = w.Write(envelopeBody("0", "ok", nil))
	}))
	defer server.Close()

	authorization := ""
	client := api.NewHTTPClient(server.URL, api.WithTokenSource(func() string { return authorization }))
	ctx := context.Background()

	require.NoError(t, client.Get(ctx, "/auth/verify", nil))
	require.Empty(t, seenAuthorization)

	authorization = "Bearer access-1"
	require.NoError(t, client.Get(ctx, "/auth/verify", nil))
	require.Equal(t, "Bearer access-1", seenAuthorization)
}

func TestHTTPClientNullDataWithOutIsNoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(envelopeBody("0", "ok", nil))
	}))
	defer server.Close()

	client := api.NewHTTPClient(server.URL)

	out := echoPayload{Name: "unchanged"}
	require.NoError(t, client.Delete(context.Background(), "/auth/binding", &out))
	require.Equal(t, "unchanged", out.Name)
}
