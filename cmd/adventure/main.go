package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/services"
	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/dice"
	"github.com/jwebster45206/adventure-engine/pkg/rules"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

const logFileName = "adventure.log"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// The UI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.SetupWithWriter(cfg, logFile)

	registry := campaign.Default()

	var store storage.Storage
	if cfg.RedisAddr != "" {
		store = storage.NewRedisStorage(cfg.RedisAddr, cfg.DataDir, registry, log)
	} else {
		store = storage.NewFileStorage(cfg.SavePath, cfg.DataDir, registry, log)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Storage is not available: %v\n", err)
		os.Exit(1)
	}

	var narrator services.Narrator
	if cfg.OpenAIKey != "" {
		narrator = services.NewOpenAINarrator(cfg.OpenAIKey, cfg.OpenAIModel, registry, log)
	} else {
		fmt.Println("No OPENAI_API_KEY set; playing with canned narration.")
		narrator = services.StubNarrator{}
	}

	engine := rules.NewEngine(registry, dice.New(), log)

	gs, intro, err := maybeResume(ctx, store, registry, engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
		os.Exit(1)
	}
	if err := saveGame(ctx, store, gs); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save game: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(engine, narrator, store, registry, gs, intro, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// maybeResume loads the save slot if the player wants to continue,
// otherwise runs new-game setup. The returned intro is the text shown
// at the top of the session.
func maybeResume(ctx context.Context, store storage.Storage, registry *campaign.Registry, engine *rules.Engine) (*state.GameState, string, error) {
	gs, err := store.LoadGameState(ctx)
	switch {
	case err == nil:
		if !gs.GameOver && yesNo("Found a saved game. Resume?") {
			rules.SyncPlayerAC(gs)
			gs.Player.EnsureMana()
			intro := "Welcome back."
			if gs.LastEvent != "" {
				intro = gs.LastEvent
			}
			return gs, intro, nil
		}
	case errors.Is(err, storage.ErrNotFound):
		// Fresh start.
	case errors.Is(err, storage.ErrCorrupt):
		fmt.Println("The saved game could not be read; starting a new one.")
	default:
		return nil, "", err
	}
	return setupNewGame(ctx, store, registry, engine)
}

// saveGame flushes the slot and mirrors the character into the roster so
// they can be reused across campaigns.
func saveGame(ctx context.Context, store storage.Storage, gs *state.GameState) error {
	if err := store.SaveGameState(ctx, gs); err != nil {
		return err
	}
	// Roster sync is best effort.
	_ = store.SaveCharacter(ctx, &storage.CharacterRecord{
		Character: gs.Player,
		Inventory: gs.Inventory,
		Equipment: gs.Equipment,
	})
	return nil
}
