package state

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
)

// restockPotionCount is the number of healing potions granted when a
// loaded save has an empty pack.
const restockPotionCount = 3

// Encode serializes the state with the current save version.
func Encode(gs *GameState) ([]byte, error) {
	type versioned struct {
		Version int `json:"version"`
		*GameState
	}
	data, err := json.Marshal(versioned{Version: SaveVersion, GameState: gs})
	if err != nil {
		return nil, fmt.Errorf("encoding game state: %w", err)
	}
	return data, nil
}

// Decode deserializes a saved state, repairs missing fields, and migrates
// legacy flag formats. The registry resolves items for the consumable
// restock safety net.
func Decode(data []byte, reg *campaign.Registry) (*GameState, error) {
	gs := &GameState{}
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, fmt.Errorf("decoding game state: %w", err)
	}
	if gs.Player == nil {
		return nil, fmt.Errorf("decoding game state: missing player")
	}
	if gs.CampaignID == "" {
		gs.CampaignID = "ruined_watchtower"
	}
	if gs.ID == uuid.Nil {
		gs.ID = uuid.New()
	}
	if gs.InventoryLimit <= 0 {
		gs.InventoryLimit = DefaultInventoryLimit
	}
	if gs.Player.Level < 1 {
		gs.Player.Level = 1
	}
	gs.Player.EnsureMana()
	if gs.Equipment == nil {
		gs.Equipment = emptyEquipment()
	} else {
		for _, slot := range campaign.Slots() {
			if _, ok := gs.Equipment[slot]; !ok {
				gs.Equipment[slot] = nil
			}
		}
	}
	if gs.Flags.Bools == nil {
		gs.Flags = NewQuestFlags()
	}
	migrateLegacyFlags(gs)
	if len(gs.Inventory) == 0 {
		for i := 0; i < restockPotionCount; i++ {
			gs.Inventory = append(gs.Inventory, reg.ItemByID(gs.CampaignID, "healing_potion"))
		}
	}
	return gs, nil
}

// migrateLegacyFlags rewrites the single-bandit flag scheme of early saves
// into defeated-room and corpse records.
func migrateLegacyFlags(gs *GameState) {
	flags := &gs.Flags

	_, hadDefeated := flags.Bools["bandit_defeated"]
	_, hadLooted := flags.Bools["bandit_looted"]
	if hadDefeated || hadLooted || flags.legacyEnemyName != "" {
		roomID := gs.RoomID
		if gs.CampaignID == "ruined_watchtower" {
			roomID = "barracks"
		}
		if flags.Bools["bandit_defeated"] {
			flags.MarkRoomDefeated(roomID)
		}
		if flags.legacyEnemyName != "" && len(flags.Corpses[roomID]) == 0 {
			flags.SetCorpses(roomID, []*Corpse{{ID: 1, Name: flags.legacyEnemyName}})
		}
		if flags.Bools["bandit_looted"] {
			flags.legacyLootedCorpse = append(flags.legacyLootedCorpse, roomID)
		}
		delete(flags.Bools, "bandit_defeated")
		delete(flags.Bools, "bandit_looted")
		flags.legacyEnemyName = ""
	}

	for _, roomID := range flags.legacyLootedCorpse {
		for _, corpse := range flags.Corpses[roomID] {
			corpse.Looted = true
		}
	}
	flags.legacyLootedCorpse = nil
}
