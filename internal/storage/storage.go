// Package storage persists the single save slot and the character roster.
// Game state goes to the configured backend (filesystem or Redis); the
// roster is always filesystem JSON so characters survive between campaigns.
package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

var (
	// ErrNotFound means no save or roster entry exists at that key.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt means data was present but could not be decoded. Callers
	// treat the slot as unusable rather than silently starting over.
	ErrCorrupt = errors.New("corrupt data")
)

// RosterVersion is written into every roster file.
const RosterVersion = 1

// restockPotionFloor is the minimum healing potion count a character
// carries when pulled from the roster into a new campaign.
const restockPotionFloor = 3

// CharacterRecord is one roster entry: the character plus the pack and
// worn gear they ended their last campaign with.
type CharacterRecord struct {
	Version   int                              `json:"version"`
	Character *actor.Character                 `json:"character"`
	Inventory []campaign.Item                  `json:"inventory"`
	Equipment map[campaign.Slot]*campaign.Item `json:"equipment"`
}

// Storage is the persistence contract for the game loop.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// Game state, one slot. Load with no save returns ErrNotFound;
	// undecodable data returns ErrCorrupt.
	SaveGameState(ctx context.Context, gs *state.GameState) error
	LoadGameState(ctx context.Context) (*state.GameState, error)
	DeleteGameState(ctx context.Context) error

	// Character roster, keyed by sanitized name.
	SaveCharacter(ctx context.Context, record *CharacterRecord) error
	LoadCharacter(ctx context.Context, name, campaignID string) (*CharacterRecord, error)
	ListCharacters(ctx context.Context) ([]string, error)
}

// restore repairs a roster record for a fresh campaign: the character
// comes back at full strength with a usable pack.
func restore(record *CharacterRecord, reg *campaign.Registry, campaignID string) {
	c := record.Character
	c.HP = c.MaxHP
	if c.Level < 1 {
		c.Level = 1
	}
	c.EnsureMana()
	c.Mana = c.MaxMana

	if record.Equipment == nil {
		record.Equipment = make(map[campaign.Slot]*campaign.Item, len(campaign.Slots()))
	}
	for _, slot := range campaign.Slots() {
		if _, ok := record.Equipment[slot]; !ok {
			record.Equipment[slot] = nil
		}
	}

	potions := 0
	for _, item := range record.Inventory {
		if item.ID == "healing_potion" {
			potions++
		}
	}
	for ; potions < restockPotionFloor; potions++ {
		record.Inventory = append(record.Inventory, reg.ItemByID(campaignID, "healing_potion"))
	}
}
