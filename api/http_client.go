package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// envelope is the backend's uniform response wrapper. Code "0" means
// success; anything else is a business rejection with a message.
type envelope struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// HTTPClient implements Client over net/http with JSON bodies and the
// backend's envelope contract.
type HTTPClient struct {
	baseURL     string
	client      *http.Client
	tokenSource TokenSource
	logger      zerolog.Logger
}

type HTTPClientOption func(*HTTPClient)

// WithTokenSource injects the Authorization header supplier, typically
// bound to the session token store.
func WithTokenSource(source TokenSource) HTTPClientOption {
	return func(c *HTTPClient) {
		c.tokenSource = source
	}
}

func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client rooted at baseURL.
func NewHTTPClient(baseURL string, options ...HTTPClientOption) *HTTPClient {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	client := &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  zerolog.Nop(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	op := method + " " + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	c.addHeaders(req, body != nil)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Str("op", op).Err(err).Msg("request failed")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	return decodeEnvelope(op, resp, out)
}

func (c *HTTPClient) addHeaders(req *http.Request, hasBody bool) {
	if c.tokenSource != nil {
		if authorization := c.tokenSource(); authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
}

func decodeEnvelope(op string, resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// 5xx bodies are frequently not envelopes at all (proxies,
		// panics). Treat any undecodable body as a transport failure.
		return &TransportError{Op: op, Err: err}
	}

	if env.Code != CodeSuccess {
		return &APIError{Code: env.Code, Message: env.Message, HTTPStatus: resp.StatusCode}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}
