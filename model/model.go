package model

import (
	"context"
	"strings"
	"sync"
)

// Info contains metadata about a client implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Client is the minimal interface required by the orchestrator to obtain a
// narrative insight for a unit's findings. Generate issues one synchronous
// request; an empty return with nil error means the model produced no usable
// narrative and is not treated as a failure.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the client implementation.
	Info() Info
}

// MockClient is a lightweight in-memory Client useful for tests & examples.
// Responses can be registered per prompt substring; unmatched prompts fall
// back to a deterministic generated reply. The zero value is not usable; use
// NewMockClient.
type MockClient struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	err       error
	prompts   []string
}

// NewMockClient constructs a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion returned for any prompt
// containing the given substring.
func (m *MockClient) AddResponse(substr, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[substr] = response
}

// FailWith makes every subsequent Generate call return err.
func (m *MockClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Prompts returns a copy of every prompt received so far, in call order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// CallCount returns how many Generate calls have been made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Generate implements Client.
func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	for substr, response := range m.responses {
		if strings.Contains(prompt, substr) {
			return response, nil
		}
	}
	return "Mock insight for: " + firstLine(prompt), nil
}

// Info implements Client.
func (m *MockClient) Info() Info { return m.info }

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
