package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// MockNarrator is a mock implementation of Narrator for testing
type MockNarrator struct {
	NarrateFunc func(ctx context.Context, gs *state.GameState, playerInput, rulesResult string) (string, error)
	SuggestFunc func(ctx context.Context, gs *state.GameState) (string, error)

	// Track calls for testing
	NarrateCalls []NarrateCall
	SuggestCalls int

	mu sync.Mutex // protects all fields above
}

type NarrateCall struct {
	PlayerInput string
	RulesResult string
}

var _ Narrator = (*MockNarrator)(nil)

// NewMockNarrator creates a new mock narrator
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{
		NarrateCalls: make([]NarrateCall, 0),
	}
}

func (m *MockNarrator) Narrate(ctx context.Context, gs *state.GameState, playerInput, rulesResult string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NarrateCalls = append(m.NarrateCalls, NarrateCall{PlayerInput: playerInput, RulesResult: rulesResult})

	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, gs, playerInput, rulesResult)
	}
	return "Mock narration", nil
}

func (m *MockNarrator) Suggest(ctx context.Context, gs *state.GameState) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SuggestCalls++

	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, gs)
	}
	return "Mock suggestion", nil
}

// Reset clears all call tracking
func (m *MockNarrator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NarrateCalls = make([]NarrateCall, 0)
	m.SuggestCalls = 0
}
