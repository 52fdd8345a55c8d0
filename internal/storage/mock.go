package storage

import (
	"context"
	"sync"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	SaveGameStateFunc   func(ctx context.Context, gs *state.GameState) error
	LoadGameStateFunc   func(ctx context.Context) (*state.GameState, error)
	DeleteGameStateFunc func(ctx context.Context) error
	SaveCharacterFunc   func(ctx context.Context, record *CharacterRecord) error
	LoadCharacterFunc   func(ctx context.Context, name, campaignID string) (*CharacterRecord, error)
	ListCharactersFunc  func(ctx context.Context) ([]string, error)

	// Track calls for testing
	SaveGameStateCalls int
	LoadGameStateCalls int
	SaveCharacterCalls int

	mu sync.Mutex // protects all fields above
}

var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }
func (m *MockStorage) Close() error                   { return nil }

func (m *MockStorage) SaveGameState(ctx context.Context, gs *state.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveGameStateCalls++
	if m.SaveGameStateFunc != nil {
		return m.SaveGameStateFunc(ctx, gs)
	}
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context) (*state.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadGameStateCalls++
	if m.LoadGameStateFunc != nil {
		return m.LoadGameStateFunc(ctx)
	}
	return nil, ErrNotFound
}

func (m *MockStorage) DeleteGameState(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteGameStateFunc != nil {
		return m.DeleteGameStateFunc(ctx)
	}
	return nil
}

func (m *MockStorage) SaveCharacter(ctx context.Context, record *CharacterRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCharacterCalls++
	if m.SaveCharacterFunc != nil {
		return m.SaveCharacterFunc(ctx, record)
	}
	return nil
}

func (m *MockStorage) LoadCharacter(ctx context.Context, name, campaignID string) (*CharacterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadCharacterFunc != nil {
		return m.LoadCharacterFunc(ctx, name, campaignID)
	}
	return nil, ErrNotFound
}

func (m *MockStorage) ListCharacters(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListCharactersFunc != nil {
		return m.ListCharactersFunc(ctx)
	}
	return []string{}, nil
}
