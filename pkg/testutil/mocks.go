package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/FrenchMajesty/zeroshot-classifier/types"
)

// MockZeroShotClient is a mock implementation of ZeroShotClient for testing
type MockZeroShotClient struct {
	ZeroShotFunc func(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error)

	mu         sync.Mutex
	CallCount  int
	Calls      []string
	LastLabels []string
}

func (m *MockZeroShotClient) ZeroShot(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error) {
	m.mu.Lock()
	m.CallCount++
	m.Calls = append(m.Calls, text)
	m.LastLabels = append([]string(nil), labels...)
	m.mu.Unlock()

	if m.ZeroShotFunc != nil {
		return m.ZeroShotFunc(ctx, text, labels)
	}

	// Default: echo the labels in order with descending scores that sum to 1
	return UniformResult(text, labels), nil
}

// Snapshot returns the texts sent so far, in call order
func (m *MockZeroShotClient) Snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// UniformResult builds a well-formed result whose scores decrease with label position
func UniformResult(text string, labels []string) *types.ClassificationResult {
	n := len(labels)
	total := n * (n + 1) / 2
	scores := make([]float64, n)
	for i := range labels {
		scores[i] = float64(n-i) / float64(total)
	}
	return &types.ClassificationResult{
		Sequence: text,
		Labels:   append([]string(nil), labels...),
		Scores:   scores,
	}
}

// MockSessionStore is a mock implementation of SessionStore for testing
type MockSessionStore struct {
	GetFunc  func(ctx context.Context, id string) (*types.Session, error)
	SaveFunc func(ctx context.Context, session *types.Session) error

	mu        sync.Mutex
	GetCount  int
	SaveCount int
	Sessions  map[string]types.Session
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Sessions: make(map[string]types.Session),
	}
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	m.mu.Lock()
	m.GetCount++
	session, ok := m.Sessions[id]
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}

	if !ok {
		return nil, types.ErrSessionNotFound
	}
	return &session, nil
}

func (m *MockSessionStore) Save(ctx context.Context, session *types.Session) error {
	m.mu.Lock()
	m.SaveCount++
	session.UpdatedAt = time.Now()
	m.Sessions[session.ID] = *session
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}

	return nil
}
