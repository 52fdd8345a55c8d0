package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
)

func newRedisStorage(t *testing.T) *RedisStorage {
	t.Helper()
	mr := miniredis.RunT(t)
	rs := NewRedisStorage(mr.Addr(), t.TempDir(), campaign.Default(), testLogger())
	t.Cleanup(func() { rs.Close() })
	return rs
}

func TestRedisPing(t *testing.T) {
	rs := newRedisStorage(t)
	require.NoError(t, rs.Ping(context.Background()))
}

func TestRedisGameStateRoundTrip(t *testing.T) {
	rs := newRedisStorage(t)
	ctx := context.Background()
	gs := fighterState(t)
	gs.RoomID = "barracks"
	gs.Player.XP = 25

	require.NoError(t, rs.SaveGameState(ctx, gs))

	loaded, err := rs.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, "barracks", loaded.RoomID)
	assert.Equal(t, 25, loaded.Player.XP)
}

func TestRedisLoadWithoutSave(t *testing.T) {
	rs := newRedisStorage(t)
	_, err := rs.LoadGameState(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisLatestPointerFollowsSaves(t *testing.T) {
	rs := newRedisStorage(t)
	ctx := context.Background()

	first := fighterState(t)
	second := fighterState(t)
	second.RoomID = "cellar"

	require.NoError(t, rs.SaveGameState(ctx, first))
	require.NoError(t, rs.SaveGameState(ctx, second))

	loaded, err := rs.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Equal(t, "cellar", loaded.RoomID)
}

func TestRedisDeleteGameState(t *testing.T) {
	rs := newRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, rs.SaveGameState(ctx, fighterState(t)))
	require.NoError(t, rs.DeleteGameState(ctx))

	_, err := rs.LoadGameState(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an empty slot is not an error.
	assert.NoError(t, rs.DeleteGameState(ctx))
}

func TestRedisCorruptGameState(t *testing.T) {
	mr := miniredis.RunT(t)
	rs := NewRedisStorage(mr.Addr(), t.TempDir(), campaign.Default(), testLogger())
	t.Cleanup(func() { rs.Close() })

	require.NoError(t, mr.Set(latestKey, "deadbeef"))
	require.NoError(t, mr.Set("gamestate:deadbeef", "{not json"))

	_, err := rs.LoadGameState(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedisRosterDelegation(t *testing.T) {
	rs := newRedisStorage(t)
	ctx := context.Background()

	c, err := actor.NewCharacter("Hero", "Fighter", "Human", actor.Stats{"STR": 2})
	require.NoError(t, err)
	require.NoError(t, rs.SaveCharacter(ctx, &CharacterRecord{Character: c}))

	names, err := rs.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero"}, names)

	record, err := rs.LoadCharacter(ctx, "Hero", "ruined_watchtower")
	require.NoError(t, err)
	assert.Equal(t, "Hero", record.Character.Name)
}
