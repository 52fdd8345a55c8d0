package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// RedisStorage keeps the save slot in Redis and delegates the roster to
// filesystem storage. The slot is a `gamestate:<id>` key plus a
// `gamestate:latest` pointer so resume does not need to know the id.
type RedisStorage struct {
	client *redis.Client
	files  *FileStorage
	logger *slog.Logger
}

var _ Storage = (*RedisStorage)(nil)

const latestKey = "gamestate:latest"

// NewRedisStorage creates a Redis storage instance. The roster stays on
// the filesystem under dataDir.
func NewRedisStorage(addr, dataDir string, registry *campaign.Registry, logger *slog.Logger) *RedisStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		files:  NewFileStorage("", dataDir, registry, logger),
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return r.files.Ping(ctx)
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

// WaitForConnection blocks until Redis answers pings, for startup.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	const retryDelay = 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.client.Ping(ctx).Err(); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
			}
			continue
		}
		r.logger.Info("Redis connection established")
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) SaveGameState(ctx context.Context, gs *state.GameState) error {
	data, err := state.Encode(gs)
	if err != nil {
		return err
	}
	key := "gamestate:" + gs.ID.String()
	if err := r.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save gamestate", "id", gs.ID, "error", err)
		return fmt.Errorf("saving gamestate: %w", err)
	}
	if err := r.client.Set(ctx, latestKey, gs.ID.String(), 0).Err(); err != nil {
		return fmt.Errorf("updating latest pointer: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadGameState(ctx context.Context) (*state.GameState, error) {
	id, err := r.client.Get(ctx, latestKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading latest pointer: %w", err)
	}
	data, err := r.client.Get(ctx, "gamestate:"+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading gamestate: %w", err)
	}
	gs, err := state.Decode([]byte(data), r.files.registry)
	if err != nil {
		r.logger.Error("Stored gamestate is unreadable", "id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return gs, nil
}

func (r *RedisStorage) DeleteGameState(ctx context.Context) error {
	id, err := r.client.Get(ctx, latestKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("reading latest pointer: %w", err)
	}
	if err := r.client.Del(ctx, "gamestate:"+id, latestKey).Err(); err != nil {
		return fmt.Errorf("deleting gamestate: %w", err)
	}
	return nil
}

// Roster operations stay on the filesystem regardless of backend.

func (r *RedisStorage) SaveCharacter(ctx context.Context, record *CharacterRecord) error {
	return r.files.SaveCharacter(ctx, record)
}

func (r *RedisStorage) LoadCharacter(ctx context.Context, name, campaignID string) (*CharacterRecord, error) {
	return r.files.LoadCharacter(ctx, name, campaignID)
}

func (r *RedisStorage) ListCharacters(ctx context.Context) ([]string, error) {
	return r.files.ListCharacters(ctx)
}
