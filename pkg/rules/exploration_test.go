package rules

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

func TestSocialCheck(t *testing.T) {
	t.Run("success sets flags", func(t *testing.T) {
		// d20 face 11 + INT 2 = 13 vs DC 13.
		e := testEngine(11)
		gs := newFighterState(t)

		res, err := e.Apply(gs, "talk")
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !res.TurnConsumed {
			t.Error("talk should consume the turn")
		}
		if !strings.Contains(res.Text(), "Eryn") || !strings.Contains(res.Text(), "11 -> 13") {
			t.Errorf("Text() = %q", res.Text())
		}
		if !gs.Flags.Flag("scout_helped") || !gs.Flags.Flag("social_done") {
			t.Error("success flags not set")
		}
	})

	t.Run("failure still marks the scene done", func(t *testing.T) {
		e := testEngine(1)
		gs := newFighterState(t)

		res, err := e.Apply(gs, "talk")
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !strings.Contains(res.Text(), "guarded") {
			t.Errorf("Text() = %q", res.Text())
		}
		if gs.Flags.Flag("scout_helped") {
			t.Error("success flag should not be set")
		}
		if !gs.Flags.Flag("social_done") {
			t.Error("done flag should be set regardless of outcome")
		}
	})
}

func TestLootRoomSuccessEndsGame(t *testing.T) {
	// d20 face 20 + DEX 2 vs DC 13.
	e := testEngine(20)
	gs := newFighterState(t)
	gs.RoomID = "spire"

	res, err := e.Apply(gs, "search")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !gs.GameOver {
		t.Error("GameOver not set")
	}
	if !gs.Flags.Flag("loot_taken") {
		t.Error("loot_taken not set")
	}
	if !strings.Contains(res.Text(), "Silver Locket") {
		t.Errorf("Text() = %q", res.Text())
	}
	if len(gs.Inventory) != 1 || gs.Inventory[0].ID != "silver_locket" {
		t.Errorf("inventory = %+v", gs.Inventory)
	}
}

func TestLootRoomFailureIsRetryable(t *testing.T) {
	e := testEngine(5)
	gs := newFighterState(t)
	gs.RoomID = "spire"

	res, err := e.Apply(gs, "search")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !res.TurnConsumed {
		t.Error("a failed check still consumes the turn")
	}
	if gs.GameOver || gs.Flags.Flag("loot_taken") {
		t.Error("failure must not end the game or take the loot")
	}
	if !gs.Flags.Flag("loot_failed") {
		t.Error("loot_failed not set")
	}
	if !strings.Contains(res.Text(), "tools slip") {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestLootRoomAlreadyOpen(t *testing.T) {
	e := testEngine()
	gs := newFighterState(t)
	gs.RoomID = "spire"
	gs.Flags.SetFlag("loot_taken")

	res, err := e.Apply(gs, "open")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Text() != "The chest is already open and empty." {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestLootRoomFullInventoryStillEndsGame(t *testing.T) {
	reg := campaign.NewRegistry(&campaign.Campaign{
		ID:        "lockbox",
		Name:      "Lockbox",
		RoomOrder: []string{"vault"},
		Rooms: map[string]campaign.Room{
			"vault": {ID: "vault", Name: "Vault", Kind: campaign.RoomLoot, Loot: &campaign.LootCheck{
				Stat: "DEX", DC: 10, WinItemID: "gilded_idol", GameOver: true,
			}},
		},
		Items: map[string]campaign.Item{
			"gilded_idol": {ID: "gilded_idol", Name: "Gilded Idol", CountsTowardLimit: true},
		},
	})
	e := NewEngine(reg, rollerWithFaces(15), slog.New(slog.NewTextHandler(io.Discard, nil)))

	gs := newFighterState(t)
	gs.CampaignID = "lockbox"
	gs.RoomID = "vault"
	gs.InventoryLimit = 0

	res, err := e.Apply(gs, "search")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !gs.GameOver || !gs.Flags.Flag("loot_taken") {
		t.Error("success must end the game even when the pack is full")
	}
	if !strings.Contains(res.Text(), "force the lock but inventory is full") {
		t.Errorf("Text() = %q", res.Text())
	}
	if len(gs.Inventory) != 0 {
		t.Error("item should not fit a full pack")
	}
}

func TestMoveSpawnsCombat(t *testing.T) {
	// Two rat HP rolls: 1d4-1 faces 1,1 floored at 1.
	e := testEngine(1, 1)
	gs := newFighterState(t)

	res, err := e.Apply(gs, "go to the cellar")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if gs.RoomID != "cellar" {
		t.Errorf("room = %q, want cellar", gs.RoomID)
	}
	if !gs.InCombat {
		t.Error("combat should start on entry")
	}
	if len(gs.Enemies) != 2 {
		t.Fatalf("enemies = %d, want 2", len(gs.Enemies))
	}
	for _, enemy := range gs.Enemies {
		if enemy.HP != 1 {
			t.Errorf("rat HP = %d, want floored 1", enemy.HP)
		}
	}
	if res.Text() != "A fight breaks out with Big Rats." {
		t.Errorf("Text() = %q", res.Text())
	}
	if gs.Visited[len(gs.Visited)-1] != "cellar" {
		t.Error("room not marked visited")
	}
}

func TestMoveBadDirection(t *testing.T) {
	e := testEngine()
	gs := newFighterState(t)

	res, err := e.Apply(gs, "go west")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.TurnConsumed {
		t.Error("a failed move should not consume the turn")
	}
	if !strings.HasPrefix(res.Text(), "Can't go that way. Options: ") {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestBareMovePromptsForDestination(t *testing.T) {
	e := testEngine()
	gs := newFighterState(t)

	res, err := e.Apply(gs, "move")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.TurnConsumed {
		t.Error("a prompt should not consume the turn")
	}
	if !strings.HasPrefix(res.Text(), "Where to? Exits: ") {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestUnrecognizedInputDoesNotConsumeTurn(t *testing.T) {
	e := testEngine()
	gs := newFighterState(t)

	res, err := e.Apply(gs, "dance")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.TurnConsumed || gs.Turn != 0 {
		t.Error("unrecognized input must not advance the turn")
	}
	if !strings.HasPrefix(res.Text(), "Try: ") {
		t.Errorf("Text() = %q", res.Text())
	}
}

func defeatedBarracks(t *testing.T) *state.GameState {
	t.Helper()
	gs := newFighterState(t)
	gs.RoomID = "barracks"
	gs.Flags.MarkRoomDefeated("barracks")
	gs.Flags.SetCorpses("barracks", []*state.Corpse{
		{ID: 1, Name: "Watchtower Bandit"},
	})
	return gs
}

func TestLootCorpseGainsGoldAndItem(t *testing.T) {
	// Gold 1d6+2 face 4 = 6, item pick d3 face 1 = first entry.
	e := testEngine(4, 1)
	gs := defeatedBarracks(t)

	res, err := e.Apply(gs, "loot")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.Contains(strings.ToLower(res.Text()), "gain 6 gold") {
		t.Errorf("Text() = %q", res.Text())
	}
	if gs.Player.Gold != 6 {
		t.Errorf("gold = %d, want 6", gs.Player.Gold)
	}
	if len(gs.Inventory) != 1 || gs.Inventory[0].ID != "padded_arms" {
		t.Errorf("inventory = %+v", gs.Inventory)
	}
	if !gs.Flags.CorpsesIn("barracks")[0].Looted {
		t.Error("corpse not marked looted")
	}
}

func TestLootCorpseGoldEvenIfFull(t *testing.T) {
	e := testEngine(2, 1)
	gs := defeatedBarracks(t)
	gs.InventoryLimit = 0

	res, err := e.Apply(gs, "loot")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.Contains(strings.ToLower(res.Text()), "gain 4 gold") {
		t.Errorf("Text() = %q", res.Text())
	}
	if gs.Player.Gold != 4 {
		t.Errorf("gold = %d, want 4", gs.Player.Gold)
	}
	if len(gs.Inventory) != 0 {
		t.Error("item should not fit a full pack")
	}
	if !strings.Contains(res.Text(), "inventory is full") {
		t.Errorf("Text() = %q, want the degraded item line", res.Text())
	}
}

func TestLootCorpseSelection(t *testing.T) {
	newRatCellar := func(t *testing.T) *state.GameState {
		gs := newFighterState(t)
		gs.RoomID = "cellar"
		gs.Flags.MarkRoomDefeated("cellar")
		gs.Flags.SetCorpses("cellar", []*state.Corpse{
			{ID: 1, Name: "Big Rats"},
			{ID: 2, Name: "Big Rats"},
		})
		return gs
	}

	t.Run("bare loot with several corpses prompts", func(t *testing.T) {
		e := testEngine()
		gs := newRatCellar(t)
		res, _ := e.Apply(gs, "loot")
		if res.Text() != "Multiple corpses here. Use 'loot <number>' or 'loot all'." {
			t.Errorf("Text() = %q", res.Text())
		}
	})

	t.Run("loot all sweeps every corpse", func(t *testing.T) {
		e := testEngine()
		gs := newRatCellar(t)
		res, err := e.Apply(gs, "loot all")
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		// Rats carry nothing.
		if res.Text() != "You search the corpse but find nothing." {
			t.Errorf("Text() = %q", res.Text())
		}
		for _, corpse := range gs.Flags.CorpsesIn("cellar") {
			if !corpse.Looted {
				t.Error("corpse left unlooted")
			}
		}
	})

	t.Run("out-of-range number", func(t *testing.T) {
		e := testEngine()
		gs := newRatCellar(t)
		res, _ := e.Apply(gs, "loot 3")
		if res.Text() != "That corpse does not exist." {
			t.Errorf("Text() = %q", res.Text())
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		e := testEngine()
		gs := newRatCellar(t)
		res, _ := e.Apply(gs, "loot bandit")
		if res.Text() != "No such corpse." {
			t.Errorf("Text() = %q", res.Text())
		}
	})

	t.Run("already searched", func(t *testing.T) {
		e := testEngine()
		gs := newRatCellar(t)
		for _, corpse := range gs.Flags.CorpsesIn("cellar") {
			corpse.Looted = true
		}
		res, _ := e.Apply(gs, "loot all")
		if res.Text() != "You already searched the corpses." {
			t.Errorf("Text() = %q", res.Text())
		}
	})
}

func TestLootWithoutCorpses(t *testing.T) {
	e := testEngine()
	gs := newFighterState(t)
	gs.RoomID = "barracks"
	gs.Flags.MarkRoomDefeated("barracks")

	res, err := e.Apply(gs, "loot")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Text() != "Nothing here to loot." {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestSearchAfterCombat(t *testing.T) {
	e := testEngine()
	gs := defeatedBarracks(t)

	res, err := e.Apply(gs, "search")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.Contains(strings.ToLower(res.Text()), "search the crumbling barracks") {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestPassageRoomPressesOnward(t *testing.T) {
	e := testEngine()
	player := newFighterState(t).Player
	gs := state.NewGameState("lost_crypt", player, nil, "hallway")

	res, err := e.Apply(gs, "open")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Text() != "You press onward." {
		t.Errorf("Text() = %q", res.Text())
	}
	if !res.TurnConsumed {
		t.Error("a recognized room verb consumes the turn")
	}
}
