package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// FileStorage keeps the save slot at a fixed path and the roster under
// <dataDir>/characters, one JSON file per character.
type FileStorage struct {
	savePath string
	dataDir  string
	registry *campaign.Registry
	logger   *slog.Logger
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates a filesystem storage instance.
func NewFileStorage(savePath, dataDir string, registry *campaign.Registry, logger *slog.Logger) *FileStorage {
	if logger == nil {
		logger = slog.Default()
	}
	if dataDir == "" {
		dataDir = "."
	}
	return &FileStorage{
		savePath: savePath,
		dataDir:  dataDir,
		registry: registry,
		logger:   logger,
	}
}

// Ping verifies the roster directory exists, creating it if needed.
func (f *FileStorage) Ping(ctx context.Context) error {
	if err := os.MkdirAll(f.charactersDir(), 0o755); err != nil {
		return fmt.Errorf("preparing roster directory: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

func (f *FileStorage) SaveGameState(ctx context.Context, gs *state.GameState) error {
	data, err := state.Encode(gs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.savePath, data, 0o644); err != nil {
		f.logger.Error("Failed to write save file", "path", f.savePath, "error", err)
		return fmt.Errorf("writing save file: %w", err)
	}
	return nil
}

func (f *FileStorage) LoadGameState(ctx context.Context) (*state.GameState, error) {
	data, err := os.ReadFile(f.savePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading save file: %w", err)
	}
	gs, err := state.Decode(data, f.registry)
	if err != nil {
		f.logger.Error("Save file is unreadable", "path", f.savePath, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return gs, nil
}

func (f *FileStorage) DeleteGameState(ctx context.Context) error {
	if err := os.Remove(f.savePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing save file: %w", err)
	}
	return nil
}

// Roster operations

func (f *FileStorage) SaveCharacter(ctx context.Context, record *CharacterRecord) error {
	if record.Character == nil || record.Character.Name == "" {
		return fmt.Errorf("roster record needs a named character")
	}
	if err := os.MkdirAll(f.charactersDir(), 0o755); err != nil {
		return fmt.Errorf("preparing roster directory: %w", err)
	}
	record.Version = RosterVersion
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding roster record: %w", err)
	}
	path := f.characterPath(record.Character.Name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.logger.Error("Failed to write roster record", "path", path, "error", err)
		return fmt.Errorf("writing roster record: %w", err)
	}
	return nil
}

// LoadCharacter reads a roster record and restores it for a new campaign:
// full HP and mana, all equipment slots present, and at least a few
// healing potions in the pack.
func (f *FileStorage) LoadCharacter(ctx context.Context, name, campaignID string) (*CharacterRecord, error) {
	path := f.characterPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading roster record: %w", err)
	}
	var record CharacterRecord
	if err := json.Unmarshal(data, &record); err != nil {
		f.logger.Error("Roster record is unreadable", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if record.Character == nil {
		return nil, fmt.Errorf("%w: roster record has no character", ErrCorrupt)
	}
	restore(&record, f.registry, campaignID)
	return &record, nil
}

func (f *FileStorage) ListCharacters(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.charactersDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading roster directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

func (f *FileStorage) charactersDir() string {
	return filepath.Join(f.dataDir, "characters")
}

func (f *FileStorage) characterPath(name string) string {
	return filepath.Join(f.charactersDir(), CharacterSlug(name)+".json")
}

var slugStrip = regexp.MustCompile(`[^\w\s-]`)
var slugSeparators = regexp.MustCompile(`[\s-]+`)

// CharacterSlug turns a character name into a stable roster filename:
// lowercase, punctuation stripped, runs of spaces and hyphens collapsed
// to single underscores. Names that sanitize to nothing become
// "character".
func CharacterSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "character"
	}
	return slug
}
