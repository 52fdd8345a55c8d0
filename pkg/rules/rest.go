package rules

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// applyRest performs count consecutive rests. Each rest regenerates 1 mana
// for the player and companions, and every second consecutive rest heals
// 1 HP to the player and each companion below max. Pending level-up
// decisions are surfaced on the Result for the caller to resolve with
// ResolveDecision; the engine never blocks on the choice.
func (e *Engine) applyRest(gs *state.GameState, count int) Result {
	var lines []string
	for i := 0; i < count; i++ {
		lines = append(lines, e.restOnce(gs))
	}
	// Each rest is its own turn; Apply adds the final increment.
	gs.Turn += count - 1

	pending := append([]state.PendingDecision(nil), gs.PendingDecisions...)
	return Result{Lines: lines, TurnConsumed: true, Pending: pending}
}

// restOnce applies a single rest tick.
func (e *Engine) restOnce(gs *state.GameState) string {
	parts := []string{"You rest and regain your focus."}

	manaGained := e.regenMana(gs, 1)

	hpGained := 0
	gs.RestStreak++
	if gs.RestStreak >= 2 {
		if gs.Player.HP < gs.Player.MaxHP {
			hpGained += gs.Player.Heal(1)
		}
		for _, companion := range gs.Companions {
			if companion.HP < companion.MaxHP {
				hpGained += companion.Heal(1)
			}
		}
		gs.RestStreak = 0
	}

	if manaGained > 0 {
		parts = append(parts, fmt.Sprintf("Mana +%d.", manaGained))
	}
	if hpGained > 0 {
		parts = append(parts, fmt.Sprintf("HP +%d.", hpGained))
	}
	return strings.Join(parts, " ")
}
