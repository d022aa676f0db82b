package apifakes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anjing/storeauth/api"
)

var _ api.Client = (*FakeClient)(nil)

// Handler produces the response payload (or error) for a stubbed route.
// The returned payload is round-tripped through JSON into the caller's
// out parameter, so plain structs and maps both work.
type Handler func(body any) (any, error)

// Call records a single invocation against the fake.
type Call struct {
	Method string
	Path   string
	Body   any
}

// FakeClient is a scriptable api.Client for tests. Routes are keyed
// "METHOD /path"; unstubbed routes fail loudly.
type FakeClient struct {
	lock     sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		handlers: make(map[string]Handler),
	}
}

// Stub registers a handler for a method/path pair, replacing any
// previous stub for the same route.
func (f *FakeClient) Stub(method, path string, handler Handler) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.handlers[method+" "+path] = handler
}

// StubPayload registers a handler that always succeeds with payload.
func (f *FakeClient) StubPayload(method, path string, payload any) {
	f.Stub(method, path, func(any) (any, error) {
		return payload, nil
	})
}

// StubError registers a handler that always fails with err.
func (f *FakeClient) StubError(method, path string, err error) {
	f.Stub(method, path, func(any) (any, error) {
		return nil, err
	})
}

// Calls returns a copy of every recorded invocation, in order.
func (f *FakeClient) Calls() []Call {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of invocations against a route.
func (f *FakeClient) CallCount(method, path string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	count := 0
	for _, call := range f.calls {
		if call.Method == method && call.Path == path {
			count++
		}
	}
	return count
}

func (f *FakeClient) Get(_ context.Context, path string, out any) error {
	return f.dispatch("GET", path, nil, out)
}

func (f *FakeClient) Post(_ context.Context, path string, body any, out any) error {
	return f.dispatch("POST", path, body, out)
}

func (f *FakeClient) Put(_ context.Context, path string, body any, out any) error {
	return f.dispatch("PUT", path, body, out)
}

func (f *FakeClient) Delete(_ context.Context, path string, out any) error {
	return f.dispatch("DELETE", path, nil, out)
}

func (f *FakeClient) dispatch(method, path string, body any, out any) error {
	f.lock.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	handler, ok := f.handlers[method+" "+path]
	f.lock.Unlock()

	if !ok {
		return fmt.Errorf("no stub registered for %s %s", method, path)
	}

	payload, err := handler(body)
	if err != nil {
		return err
	}
	if out == nil || payload == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal stubbed payload for %s %s: %w", method, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal stubbed payload for %s %s: %w", method, path, err)
	}
	return nil
}
