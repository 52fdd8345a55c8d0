package state

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	reg := campaign.Default()
	gs := NewGameState("ruined_watchtower", testPlayer(t), []*actor.Companion{testCompanion()}, "courtyard")
	gs.Inventory = append(gs.Inventory, reg.ItemByID("ruined_watchtower", "healing_potion"))
	headItem := reg.ItemByID("ruined_watchtower", "leather_cap")
	gs.Equipment[campaign.SlotHead] = &headItem
	gs.Flags.SetFlag("scout_helped")
	gs.Flags.MarkRoomDefeated("cellar")
	gs.Flags.SetCorpses("cellar", []*Corpse{{ID: 1, Name: "Big Rats"}, {ID: 2, Name: "Big Rats", Looted: true}})
	gs.Flags.NextCorpseID = 3
	gs.Turn = 7
	gs.PendingDecisions = []PendingDecision{{Type: "spell", Level: 2, Choices: []string{"Shield"}}}

	data, err := Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// The version marker must be present on the wire.
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire: %v", err)
	}
	if string(wire["version"]) != "1" {
		t.Errorf("expected version 1 on the wire, got %s", wire["version"])
	}

	loaded, err := Decode(data, reg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loaded.ID != gs.ID {
		t.Errorf("session id changed across round trip")
	}
	if loaded.Turn != 7 {
		t.Errorf("expected turn 7, got %d", loaded.Turn)
	}
	if !loaded.Flags.Flag("scout_helped") {
		t.Error("expected scout_helped flag to survive")
	}
	if !loaded.Flags.IsRoomDefeated("cellar") {
		t.Error("expected defeated room to survive")
	}
	corpses := loaded.Flags.CorpsesIn("cellar")
	if len(corpses) != 2 || corpses[0].ID != 1 || !corpses[1].Looted {
		t.Errorf("unexpected corpses after round trip: %+v", corpses)
	}
	if loaded.Flags.NextCorpseID != 3 {
		t.Errorf("expected corpse counter 3, got %d", loaded.Flags.NextCorpseID)
	}
	if loaded.Equipment[campaign.SlotHead] == nil || loaded.Equipment[campaign.SlotHead].ID != "leather_cap" {
		t.Error("expected equipped cap to survive")
	}
	if len(loaded.PendingDecisions) != 1 || loaded.PendingDecisions[0].Choices[0] != "Shield" {
		t.Errorf("unexpected pending decisions: %+v", loaded.PendingDecisions)
	}
}

func TestEncodeDecode_EnemyCondition(t *testing.T) {
	reg := campaign.Default()
	gs := NewGameState("ruined_watchtower", testPlayer(t), nil, "barracks")
	gs.Inventory = append(gs.Inventory, reg.ItemByID("ruined_watchtower", "healing_potion"))
	gs.InCombat = true
	gs.Enemies = []*actor.Enemy{{
		Combatant: actor.Combatant{Name: "Watchtower Bandit", HP: 12, MaxHP: 12, AC: 13},
		Asleep:    true,
	}}

	data, err := Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"asleep":true`) {
		t.Error("expected the asleep condition on the wire")
	}

	loaded, err := Decode(data, reg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(loaded.Enemies) != 1 || !loaded.Enemies[0].Asleep {
		t.Errorf("expected sleeping enemy to survive, got %+v", loaded.Enemies)
	}
}

func TestDecode_Repairs(t *testing.T) {
	reg := campaign.Default()

	t.Run("missing player is an error", func(t *testing.T) {
		if _, err := Decode([]byte(`{"room_id":"courtyard"}`), reg); err == nil {
			t.Error("expected error for save without a player")
		}
	})

	t.Run("corrupt JSON is an error", func(t *testing.T) {
		if _, err := Decode([]byte(`{not json`), reg); err == nil {
			t.Error("expected error for corrupt save")
		}
	})

	t.Run("empty inventory is restocked with potions", func(t *testing.T) {
		gs := NewGameState("ruined_watchtower", testPlayer(t), nil, "courtyard")
		data, err := Encode(gs)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		loaded, err := Decode(data, reg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(loaded.Inventory) != restockPotionCount {
			t.Fatalf("expected %d potions, got %d", restockPotionCount, len(loaded.Inventory))
		}
		for _, item := range loaded.Inventory {
			if item.ID != "healing_potion" {
				t.Errorf("expected healing_potion, got %q", item.ID)
			}
		}
	})

	t.Run("missing equipment slots are backfilled", func(t *testing.T) {
		data := []byte(`{"player":{"name":"X","hp":10,"max_hp":10,"class":"Fighter"},"room_id":"courtyard","equipment":{"head":null}}`)
		loaded, err := Decode(data, reg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(loaded.Equipment) != len(campaign.Slots()) {
			t.Errorf("expected all slots present, got %d", len(loaded.Equipment))
		}
		if loaded.InventoryLimit != DefaultInventoryLimit {
			t.Errorf("expected default inventory limit, got %d", loaded.InventoryLimit)
		}
		if loaded.Player.Level != 1 {
			t.Errorf("expected level repaired to 1, got %d", loaded.Player.Level)
		}
	})
}

func TestDecode_LegacyMigration(t *testing.T) {
	reg := campaign.Default()

	t.Run("bandit flags become room records", func(t *testing.T) {
		data := []byte(`{
			"campaign_id": "ruined_watchtower",
			"player": {"name":"X","hp":10,"max_hp":10,"class":"Fighter"},
			"room_id": "courtyard",
			"flags": {"bandit_defeated": true, "bandit_looted": true, "enemy_name": "Watchtower Bandit"}
		}`)
		gs, err := Decode(data, reg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !gs.Flags.IsRoomDefeated("barracks") {
			t.Error("expected barracks marked defeated")
		}
		corpses := gs.Flags.CorpsesIn("barracks")
		if len(corpses) != 1 || corpses[0].Name != "Watchtower Bandit" {
			t.Fatalf("unexpected corpses: %+v", corpses)
		}
		if !corpses[0].Looted {
			t.Error("expected bandit_looted to mark the corpse looted")
		}
		if gs.Flags.Flag("bandit_defeated") || gs.Flags.Flag("bandit_looted") {
			t.Error("expected legacy keys to be removed")
		}
	})

	t.Run("corpse name lists become records", func(t *testing.T) {
		data := []byte(`{
			"campaign_id": "ruined_watchtower",
			"player": {"name":"X","hp":10,"max_hp":10,"class":"Fighter"},
			"room_id": "cellar",
			"inventory": [{"id":"healing_potion","name":"Healing Potion","kind":"potion"}],
			"flags": {"corpses": {"cellar": ["Big Rats", "Big Rats"]}}
		}`)
		gs, err := Decode(data, reg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		corpses := gs.Flags.CorpsesIn("cellar")
		if len(corpses) != 2 {
			t.Fatalf("expected 2 corpse records, got %d", len(corpses))
		}
		if corpses[0].ID != 1 || corpses[1].ID != 2 || corpses[0].Name != "Big Rats" {
			t.Errorf("unexpected records: %+v %+v", corpses[0], corpses[1])
		}
	})
}
