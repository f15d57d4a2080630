package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/fairy-farm/config"
	"github.com/user/fairy-farm/internal/types"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "farm.json")
	store := NewFileStore(path)

	// Test case 1: nothing saved yet
	var empty types.Snapshot
	found, err := store.Load(&empty)
	require.NoError(t, err)
	assert.False(t, found)

	// Test case 2: round trip, creating the directory on the way
	state := &types.Snapshot{
		Coins:     42,
		Level:     2,
		Inventory: map[string]int{"seed_turnip": 3},
		Warehouse: []types.WarehouseEntry{{ItemID: "crop_corn", Quantity: 4}},
	}
	require.NoError(t, store.Save(state))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded := types.Snapshot{Water: 7, Inventory: map[string]int{"seed_potato": 2}}
	found, err = store.Load(&loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, loaded.Coins)
	assert.Equal(t, 0, loaded.Water)
	assert.Equal(t, map[string]int{"seed_turnip": 3, "seed_potato": 2}, loaded.Inventory)
	assert.Equal(t, state.Warehouse, loaded.Warehouse)
}

func TestFileStoreMergesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"coins": 42}`), 0644))

	loaded := types.Snapshot{Water: 7, Level: 3}
	found, err := NewFileStore(path).Load(&loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, loaded.Coins)
	assert.Equal(t, 7, loaded.Water)
	assert.Equal(t, 3, loaded.Level)
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(&types.Snapshot{Coins: 5}))

	// Test case 1: the save is gone afterwards
	require.NoError(t, store.Delete())
	found, err := store.Load(&types.Snapshot{})
	require.NoError(t, err)
	assert.False(t, found)

	// Test case 2: deleting twice is fine
	assert.NoError(t, store.Delete())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var s types.Snapshot
	found, err := NewFileStore(path).Load(&s)
	assert.False(t, found)
	assert.ErrorContains(t, err, "failed to parse game state")
}

func TestGameSurvivesRestartOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.json")
	tables := newHarness(t).tables

	gm, err := NewGameManager(config.DefaultConfig(), tables, NewFileStore(path))
	require.NoError(t, err)
	require.NoError(t, gm.BuyItem("seed_turnip"))
	require.NoError(t, gm.AddExp(120))

	again, err := NewGameManager(config.DefaultConfig(), tables, NewFileStore(path))
	require.NoError(t, err)
	status := again.GetStatus()
	assert.Equal(t, 90, status.Coins)
	assert.Equal(t, 2, status.Level)
	assert.Equal(t, 20, status.Exp)
	assert.True(t, status.LevelUpPending)
	assert.Equal(t, 6, again.Snapshot().Inventory["seed_turnip"])
}
