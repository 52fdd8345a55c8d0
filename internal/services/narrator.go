// Package services holds the narration collaborator: the interface the
// game loop talks to, an OpenAI-backed implementation, a canned stub for
// offline play, and a mock for tests. Narration is flavor over resolved
// rules results; nothing the narrator says is parsed back into game state.
package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// Narrator embellishes resolved turns and voices the companion's advice.
// Implementations must not mutate the game state.
type Narrator interface {
	// Narrate turns a resolved rules result into game-master prose.
	Narrate(ctx context.Context, gs *state.GameState, playerInput, rulesResult string) (string, error)

	// Suggest returns the active companion's one-line suggestion for the
	// player's next action.
	Suggest(ctx context.Context, gs *state.GameState) (string, error)
}

var stubNarrations = []string{
	"The ruin creaks with old stone. What do you do?",
	"You take a breath as the air shifts. What's your move?",
	"The way ahead waits, silent and watchful. What do you do next?",
}

var stubSuggestions = []string{
	"%s whispers, 'Keep your distance and watch for traps.'",
	"%s says, 'Let me cover you while you act.'",
	"%s mutters, 'Slow and steady. No sudden moves.'",
}

// StubNarrator returns canned lines. Used when no API key is configured
// and as the fallback when the OpenAI backend fails persistently.
type StubNarrator struct{}

func (StubNarrator) Narrate(_ context.Context, _ *state.GameState, _, _ string) (string, error) {
	return stubNarrations[rand.IntN(len(stubNarrations))], nil
}

func (StubNarrator) Suggest(_ context.Context, gs *state.GameState) (string, error) {
	name := "Your companion"
	if c := gs.ActiveCompanion(); c != nil {
		name = c.Name
	}
	return fmt.Sprintf(stubSuggestions[rand.IntN(len(stubSuggestions))], name), nil
}
