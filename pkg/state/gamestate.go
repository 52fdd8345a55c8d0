// Package state holds the mutable record of one play session: the player,
// companions, room position, inventory and equipment, combat status, and
// quest flags. It owns serialization and save migration; all mutation
// beyond simple accessors happens in the rules engine.
package state

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
)

// SaveVersion is written into every serialized GameState.
const SaveVersion = 1

// NarrationLogLimit bounds the retained narration history.
const NarrationLogLimit = 50

// DefaultInventoryLimit is the number of limit-counting items a player
// can carry.
const DefaultInventoryLimit = 10

// NarrationEntry is one line of the narration exchange kept for the
// narrator collaborator's context window.
type NarrationEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PendingDecision is a deferred level-up choice. Decisions queue during
// play and are surfaced to the caller at rest; the engine never blocks
// waiting for input.
type PendingDecision struct {
	Type    string   `json:"type"`
	Level   int      `json:"level"`
	Choices []string `json:"choices"`
}

// GameState is the full state of one session.
type GameState struct {
	ID         uuid.UUID `json:"id"`
	CampaignID string    `json:"campaign_id"`

	Player     *actor.Character   `json:"player"`
	Companions []*actor.Companion `json:"companions"`

	RoomID  string   `json:"room_id"`
	Visited []string `json:"visited"`

	Inventory      []campaign.Item                  `json:"inventory"`
	Equipment      map[campaign.Slot]*campaign.Item `json:"equipment"`
	InventoryLimit int                              `json:"inventory_limit"`

	InCombat bool           `json:"in_combat"`
	Enemies  []*actor.Enemy `json:"enemies"`
	Turn     int            `json:"turn"`

	PlayerDefending    bool `json:"player_defending"`
	CompanionDefending bool `json:"companion_defending"`

	Flags QuestFlags `json:"flags"`

	LastEvent       string           `json:"last_event"`
	LastPlayerInput string           `json:"last_player_input"`
	NarrationLog    []NarrationEntry `json:"response_log"`

	GameOver         bool              `json:"game_over"`
	RestStreak       int               `json:"rest_streak"`
	PendingDecisions []PendingDecision `json:"pending_level_choices"`
}

// NewGameState starts a fresh session for a player in a campaign's first room.
func NewGameState(campaignID string, player *actor.Character, companions []*actor.Companion, roomID string) *GameState {
	return &GameState{
		ID:             uuid.New(),
		CampaignID:     campaignID,
		Player:         player,
		Companions:     companions,
		RoomID:         roomID,
		InventoryLimit: DefaultInventoryLimit,
		Equipment:      emptyEquipment(),
		Flags:          NewQuestFlags(),
	}
}

func emptyEquipment() map[campaign.Slot]*campaign.Item {
	eq := make(map[campaign.Slot]*campaign.Item, len(campaign.Slots()))
	for _, slot := range campaign.Slots() {
		eq[slot] = nil
	}
	return eq
}

// ActiveCompanion returns the primary companion, the first in the list.
// Returns nil when the party has none.
func (gs *GameState) ActiveCompanion() *actor.Companion {
	if len(gs.Companions) == 0 {
		return nil
	}
	return gs.Companions[0]
}

// AliveEnemies returns the enemies still standing, in slice order.
func (gs *GameState) AliveEnemies() []*actor.Enemy {
	var alive []*actor.Enemy
	for _, e := range gs.Enemies {
		if !e.IsDown() {
			alive = append(alive, e)
		}
	}
	return alive
}

// MarkVisited records the room as visited, once.
func (gs *GameState) MarkVisited(roomID string) {
	for _, id := range gs.Visited {
		if id == roomID {
			return
		}
	}
	gs.Visited = append(gs.Visited, roomID)
}

// AppendNarration records one exchange line, trimming the log to the
// retention limit.
func (gs *GameState) AppendNarration(role, content string) {
	gs.NarrationLog = append(gs.NarrationLog, NarrationEntry{Role: role, Content: content})
	if len(gs.NarrationLog) > NarrationLogLimit {
		gs.NarrationLog = gs.NarrationLog[len(gs.NarrationLog)-NarrationLogLimit:]
	}
}
