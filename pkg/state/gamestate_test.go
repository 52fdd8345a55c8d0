package state

import (
	"fmt"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
)

func testPlayer(t *testing.T) *actor.Character {
	t.Helper()
	player, err := actor.NewCharacter("Borin", "Fighter", "Human", actor.Stats{"CON": 2})
	if err != nil {
		t.Fatalf("creating player: %v", err)
	}
	return player
}

func testCompanion() *actor.Companion {
	return actor.NewCompanion(&campaign.CompanionProfile{
		ID: "mara", Name: "Mara", HP: 10, MaxHP: 10, AC: 13,
		AttackBonus: 2, Damage: "1d6", DefendHPThreshold: 3,
	})
}

func TestNewGameState(t *testing.T) {
	gs := NewGameState("ruined_watchtower", testPlayer(t), []*actor.Companion{testCompanion()}, "courtyard")

	if gs.ID.String() == "" {
		t.Error("expected a session id")
	}
	if gs.RoomID != "courtyard" {
		t.Errorf("expected starting room courtyard, got %q", gs.RoomID)
	}
	if gs.InventoryLimit != DefaultInventoryLimit {
		t.Errorf("expected inventory limit %d, got %d", DefaultInventoryLimit, gs.InventoryLimit)
	}
	if len(gs.Equipment) != len(campaign.Slots()) {
		t.Errorf("expected %d equipment slots, got %d", len(campaign.Slots()), len(gs.Equipment))
	}
	for slot, item := range gs.Equipment {
		if item != nil {
			t.Errorf("expected slot %s to start empty", slot)
		}
	}
}

func TestGameState_ActiveCompanion(t *testing.T) {
	gs := NewGameState("ruined_watchtower", testPlayer(t), nil, "courtyard")
	if gs.ActiveCompanion() != nil {
		t.Error("expected nil companion for empty party")
	}

	first := testCompanion()
	second := testCompanion()
	second.Name = "Eldrin"
	gs.Companions = []*actor.Companion{first, second}
	if gs.ActiveCompanion() != first {
		t.Error("expected the first companion to be active")
	}
}

func TestGameState_AliveEnemies(t *testing.T) {
	gs := NewGameState("ruined_watchtower", testPlayer(t), nil, "cellar")
	gs.Enemies = []*actor.Enemy{
		{Combatant: actor.Combatant{Name: "Big Rats", HP: 0, MaxHP: 1}},
		{Combatant: actor.Combatant{Name: "Big Rats", HP: 1, MaxHP: 1}},
	}
	alive := gs.AliveEnemies()
	if len(alive) != 1 {
		t.Fatalf("expected 1 alive enemy, got %d", len(alive))
	}
	if alive[0] != gs.Enemies[1] {
		t.Error("expected the living unit to be returned")
	}
}

func TestGameState_MarkVisited(t *testing.T) {
	gs := NewGameState("ruined_watchtower", testPlayer(t), nil, "courtyard")
	gs.MarkVisited("courtyard")
	gs.MarkVisited("courtyard")
	gs.MarkVisited("cellar")
	if len(gs.Visited) != 2 {
		t.Errorf("expected 2 visited rooms, got %v", gs.Visited)
	}
}

func TestGameState_AppendNarration(t *testing.T) {
	gs := NewGameState("ruined_watchtower", testPlayer(t), nil, "courtyard")
	for i := 0; i < NarrationLogLimit+10; i++ {
		gs.AppendNarration("narrator", fmt.Sprintf("line %d", i))
	}
	if len(gs.NarrationLog) != NarrationLogLimit {
		t.Fatalf("expected log trimmed to %d, got %d", NarrationLogLimit, len(gs.NarrationLog))
	}
	if gs.NarrationLog[0].Content != "line 10" {
		t.Errorf("expected oldest retained line to be 'line 10', got %q", gs.NarrationLog[0].Content)
	}
}

func TestQuestFlags(t *testing.T) {
	t.Run("boolean flags", func(t *testing.T) {
		q := NewQuestFlags()
		if q.Flag("scout_helped") {
			t.Error("expected unset flag to read false")
		}
		q.SetFlag("scout_helped")
		if !q.Flag("scout_helped") {
			t.Error("expected set flag to read true")
		}
	})

	t.Run("defeated rooms are idempotent", func(t *testing.T) {
		q := NewQuestFlags()
		q.MarkRoomDefeated("barracks")
		q.MarkRoomDefeated("barracks")
		if len(q.DefeatedRooms) != 1 {
			t.Errorf("expected one defeated room, got %v", q.DefeatedRooms)
		}
		if !q.IsRoomDefeated("barracks") {
			t.Error("expected barracks to be defeated")
		}
	})

	t.Run("corpse ids increase across rooms", func(t *testing.T) {
		q := NewQuestFlags()
		if id := q.NextID(); id != 1 {
			t.Errorf("expected first id 1, got %d", id)
		}
		if id := q.NextID(); id != 2 {
			t.Errorf("expected second id 2, got %d", id)
		}
	})
}
