// Package rules is the deterministic core of the game: it resolves player
// actions against the current GameState using the campaign content registry
// and the dice engine, and returns the rules-result text the narrator
// embellishes. The engine never blocks on interactive input; choices that
// need the player are returned as pending decisions.
package rules

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/dice"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// maxRestCount caps how many rests a single `rest <count>` performs.
const maxRestCount = 20

// Engine resolves actions. It holds no per-session state; the GameState
// passed to Apply is the single mutable record.
type Engine struct {
	registry *campaign.Registry
	roller   *dice.Roller
	logger   *slog.Logger
}

// NewEngine creates an engine over a content registry and dice roller.
func NewEngine(registry *campaign.Registry, roller *dice.Roller, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{registry: registry, roller: roller, logger: logger}
}

// Result is the outcome of applying one action. Lines are the rules-result
// text in order. TurnConsumed reports whether the action advanced the turn
// counter; user-input and resource errors do not. Pending carries deferred
// level-up decisions surfaced by a rest, to be resolved with
// ResolveDecision.
type Result struct {
	Lines        []string
	TurnConsumed bool
	Pending      []state.PendingDecision
}

// Text joins the result lines into the single rules-result string.
func (r Result) Text() string {
	return strings.Join(r.Lines, " ")
}

// Apply resolves one normalized player action against the state. The
// action vocabulary depends on mode: exploration accepts talk, search,
// loot, move, rest, use, equip, and unequip; combat accepts attack,
// defend, special, cast, and use. Unrecognized input returns a hint
// without consuming a turn. Content integrity failures (unknown rooms,
// mobs, or campaigns referenced by state) are returned as errors.
func (e *Engine) Apply(gs *state.GameState, input string) (Result, error) {
	if gs.GameOver {
		return Result{Lines: []string{"The adventure is over."}}, nil
	}

	action := NormalizeInput(input)
	if action == "" {
		return Result{}, nil
	}

	var (
		res    Result
		isRest bool
		err    error
	)
	if gs.InCombat {
		res, err = e.applyCombat(gs, action)
	} else {
		res, isRest, err = e.applyExploration(gs, action)
	}
	if err != nil {
		return Result{}, err
	}

	if res.TurnConsumed {
		gs.Turn++
		gs.LastPlayerInput = input
		gs.LastEvent = res.Text()
		if !isRest {
			gs.RestStreak = 0
		}
		e.logger.Debug("action resolved",
			"turn", gs.Turn, "input", input, "in_combat", gs.InCombat, "result", gs.LastEvent)
	}
	return res, nil
}

// NormalizeInput lowercases and trims free text and, for movement verbs,
// drops filler words so "go to the cellar" parses as "go cellar".
func NormalizeInput(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}
	tokens := strings.Fields(cleaned)
	movementVerbs := map[string]bool{
		"go": true, "move": true, "walk": true, "head": true, "enter": true, "travel": true,
	}
	filler := map[string]bool{
		"to": true, "the": true, "a": true, "an": true, "towards": true, "toward": true,
	}
	if movementVerbs[tokens[0]] {
		kept := tokens[:1]
		for _, tok := range tokens[1:] {
			if !filler[tok] {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}
	return strings.Join(tokens, " ")
}

// ResolveDecision applies the player's choice for the oldest pending
// level-up decision. The choice must be one of the decision's options.
func (e *Engine) ResolveDecision(gs *state.GameState, choice string) (string, bool) {
	if len(gs.PendingDecisions) == 0 {
		return "There is nothing to decide.", false
	}
	decision := gs.PendingDecisions[0]
	var picked string
	for _, option := range decision.Choices {
		if strings.EqualFold(option, choice) {
			picked = option
			break
		}
	}
	if picked == "" {
		return "Choose one of: " + strings.Join(decision.Choices, ", ") + ".", false
	}
	gs.PendingDecisions = gs.PendingDecisions[1:]
	switch decision.Type {
	case "spell":
		gs.Player.LearnedSpells = append(gs.Player.LearnedSpells, picked)
		e.logger.Info("spell learned", "player", gs.Player.Name, "spell", picked)
		return "You learn " + picked + ".", true
	default:
		return "The choice passes without effect.", true
	}
}

// parseUse splits a `use <item> [on <target>]` or `drink ...` action into
// item query and optional target. Returns ok=false when the action is not
// a use action at all.
func parseUse(action string) (item, target string, ok bool) {
	var payload string
	switch {
	case strings.HasPrefix(action, "use "):
		payload = action[len("use "):]
	case strings.HasPrefix(action, "drink "):
		payload = action[len("drink "):]
	case action == "use" || action == "drink":
		payload = ""
	default:
		return "", "", false
	}
	if before, after, found := strings.Cut(payload, " on "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after), true
	}
	return strings.TrimSpace(payload), "", true
}

// parseRest recognizes `rest [<count>]`, clamping the count into [1, 20].
func parseRest(action string) (count int, ok bool) {
	if action == "rest" {
		return 1, true
	}
	if !strings.HasPrefix(action, "rest ") {
		return 0, false
	}
	count = 1
	if n, err := strconv.Atoi(strings.TrimSpace(action[len("rest "):])); err == nil {
		count = n
	}
	if count < 1 {
		count = 1
	}
	if count > maxRestCount {
		count = maxRestCount
	}
	return count, true
}
