package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fighterState(t *testing.T) *state.GameState {
	t.Helper()
	player, err := actor.NewCharacter("Hero", "Fighter", "Human", actor.Stats{"STR": 2, "DEX": 2})
	if err != nil {
		t.Fatalf("NewCharacter() error = %v", err)
	}
	profile, err := campaign.Default().CompanionProfile("ruined_watchtower", "mara")
	if err != nil {
		t.Fatalf("CompanionProfile() error = %v", err)
	}
	return state.NewGameState("ruined_watchtower", player,
		[]*actor.Companion{actor.NewCompanion(profile)}, "courtyard")
}

func newFileStorage(t *testing.T) (*FileStorage, string) {
	t.Helper()
	dir := t.TempDir()
	fs := NewFileStorage(filepath.Join(dir, "game_state.json"), dir, campaign.Default(), testLogger())
	if err := fs.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	return fs, dir
}

func TestFileGameStateRoundTrip(t *testing.T) {
	fs, _ := newFileStorage(t)
	ctx := context.Background()
	gs := fighterState(t)
	gs.Player.Gold = 7
	gs.Turn = 4
	gs.Flags.SetFlag("scout_helped")

	if err := fs.SaveGameState(ctx, gs); err != nil {
		t.Fatalf("SaveGameState() error = %v", err)
	}
	loaded, err := fs.LoadGameState(ctx)
	if err != nil {
		t.Fatalf("LoadGameState() error = %v", err)
	}
	if loaded.ID != gs.ID {
		t.Errorf("ID = %v, want %v", loaded.ID, gs.ID)
	}
	if loaded.RoomID != "courtyard" || loaded.Turn != 4 {
		t.Errorf("RoomID = %q, Turn = %d", loaded.RoomID, loaded.Turn)
	}
	if loaded.Player.Gold != 7 {
		t.Errorf("Gold = %d", loaded.Player.Gold)
	}
	if !loaded.Flags.Flag("scout_helped") {
		t.Error("flag scout_helped lost in round trip")
	}
	if loaded.ActiveCompanion() == nil || loaded.ActiveCompanion().Name != "Mara" {
		t.Error("companion lost in round trip")
	}
}

func TestFileLoadMissingSave(t *testing.T) {
	fs, _ := newFileStorage(t)
	_, err := fs.LoadGameState(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGameState() error = %v, want ErrNotFound", err)
	}
}

func TestFileLoadCorruptSave(t *testing.T) {
	fs, _ := newFileStorage(t)
	if err := os.WriteFile(fs.savePath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing save: %v", err)
	}
	_, err := fs.LoadGameState(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("LoadGameState() error = %v, want ErrCorrupt", err)
	}
}

func TestFileDeleteGameState(t *testing.T) {
	fs, _ := newFileStorage(t)
	ctx := context.Background()
	if err := fs.SaveGameState(ctx, fighterState(t)); err != nil {
		t.Fatalf("SaveGameState() error = %v", err)
	}
	if err := fs.DeleteGameState(ctx); err != nil {
		t.Fatalf("DeleteGameState() error = %v", err)
	}
	if _, err := fs.LoadGameState(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGameState() after delete error = %v, want ErrNotFound", err)
	}
	// Deleting an empty slot is not an error.
	if err := fs.DeleteGameState(ctx); err != nil {
		t.Errorf("DeleteGameState() on empty slot error = %v", err)
	}
}

func TestRosterRoundTripRestoresCharacter(t *testing.T) {
	fs, _ := newFileStorage(t)
	ctx := context.Background()

	wizard, err := actor.NewCharacter("Mage", "Wizard", "Human", actor.Stats{"DEX": 1, "INT": 2})
	if err != nil {
		t.Fatalf("NewCharacter() error = %v", err)
	}
	wizard.HP = 2
	wizard.Mana = 0
	record := &CharacterRecord{
		Character: wizard,
		Inventory: []campaign.Item{campaign.Default().ItemByID("ruined_watchtower", "healing_potion")},
	}
	if err := fs.SaveCharacter(ctx, record); err != nil {
		t.Fatalf("SaveCharacter() error = %v", err)
	}

	loaded, err := fs.LoadCharacter(ctx, "Mage", "ruined_watchtower")
	if err != nil {
		t.Fatalf("LoadCharacter() error = %v", err)
	}
	c := loaded.Character
	if c.HP != c.MaxHP {
		t.Errorf("HP = %d, want full %d", c.HP, c.MaxHP)
	}
	if c.Mana != c.MaxMana || c.MaxMana != 6 {
		t.Errorf("Mana = %d/%d, want full 6", c.Mana, c.MaxMana)
	}
	potions := 0
	for _, item := range loaded.Inventory {
		if item.ID == "healing_potion" {
			potions++
		}
	}
	if potions != 3 {
		t.Errorf("healing potions = %d, want restock to 3", potions)
	}
	for _, slot := range campaign.Slots() {
		if _, ok := loaded.Equipment[slot]; !ok {
			t.Errorf("slot %s missing after load", slot)
		}
	}
}

func TestLoadCharacterMissing(t *testing.T) {
	fs, _ := newFileStorage(t)
	_, err := fs.LoadCharacter(context.Background(), "Nobody", "ruined_watchtower")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadCharacter() error = %v, want ErrNotFound", err)
	}
}

func TestListCharacters(t *testing.T) {
	fs, _ := newFileStorage(t)
	ctx := context.Background()

	names, err := fs.ListCharacters(ctx)
	if err != nil || len(names) != 0 {
		t.Fatalf("ListCharacters() = (%v, %v), want empty", names, err)
	}

	for _, name := range []string{"Hero", "Sir Reginald III"} {
		c, err := actor.NewCharacter(name, "Fighter", "Human", actor.Stats{"STR": 2})
		if err != nil {
			t.Fatalf("NewCharacter() error = %v", err)
		}
		if err := fs.SaveCharacter(ctx, &CharacterRecord{Character: c}); err != nil {
			t.Fatalf("SaveCharacter(%q) error = %v", name, err)
		}
	}

	names, err = fs.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("ListCharacters() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("ListCharacters() = %v, want 2 entries", names)
	}
}

func TestCharacterSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Hero", "hero"},
		{"Sir Reginald III", "sir_reginald_iii"},
		{"D'Artagnan", "dartagnan"},
		{"snake-eyes", "snake_eyes"},
		{"  spaced  out  ", "spaced_out"},
		{"!!!", "character"},
		{"", "character"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CharacterSlug(tc.name); got != tc.want {
				t.Errorf("CharacterSlug(%q) = %q, want %q", tc.name, got, tc.want)
			}
		})
	}
}
