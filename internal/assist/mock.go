package assist

import (
	"context"
	"sync"
)

// MockClient is a deterministic Client for tests. It returns its canned
// response (or error) and records every request it sees.
type MockClient struct {
	Response string
	Err      error

	mu    sync.Mutex
	Calls []Request
}

var _ Client = (*MockClient)(nil)

// Ask records the request and returns the canned response.
func (m *MockClient) Ask(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount returns the number of Ask calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
