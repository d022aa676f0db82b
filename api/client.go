package api

import "context"

// Client is the transport capability the authentication core calls
// through. Every call is a single bounded attempt: no retries, no
// interceptors - those belong to the transport implementation, not to
// the callers. A nil `out` discards the response payload.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// TokenSource supplies the current Authorization header value for
// outgoing requests. An empty return means the request goes out
// unauthenticated.
type TokenSource func() string
