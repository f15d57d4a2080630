package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/fairy-farm/internal/buff"
)

func TestDefaultTables(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	// Test case 1: buff catalogue is complete
	assert.Equal(t, 15, tables.Buffs.Len())
	futures, ok := tables.Buffs.Get("futures_contract")
	require.True(t, ok)
	assert.Equal(t, buff.FuturesContract{InstantCoins: 200, TomorrowPenalty: 0.5}, futures.Effect)

	// Test case 2: seeds resolve to crops
	seed, ok := tables.Item("seed_corn")
	require.True(t, ok)
	assert.Equal(t, 40, seed.GrowTime)
	assert.Equal(t, 5, seed.UnlockLevel)
	assert.Equal(t, "crop_corn", seed.Output)

	// Test case 3: only walking crops are on the market
	crops := tables.MarketCrops()
	require.Len(t, crops, 5)
	for _, c := range crops {
		assert.NotEqual(t, "crop_weed", c.ID)
		assert.NotEqual(t, "crop_golden_apple", c.ID)
	}
	assert.Equal(t, []string{"crop_turnip", "crop_potato", "crop_tomato", "crop_corn", "crop_pumpkin"}, tables.OrdinaryCrops())

	// Test case 4: chapters, npcs and plots
	assert.Len(t, tables.Chapters(), 6)
	assert.Equal(t, []string{"xiaobai", "xiaolv", "xiaoguang", "xiaoying"}, tables.NPCIDs())
	require.Len(t, tables.Plots(), 4)
	assert.Equal(t, 3, tables.Plots()[3].UnlockLevel)
	assert.Len(t, tables.ItemsOfKind(KindFurniture), 14)
}

func TestRecipeIsOrderIndependent(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	dish, ok := tables.Recipe("crop_tomato", "crop_turnip")
	require.True(t, ok)
	assert.Equal(t, "dish_tomato_radish", dish)

	dish, ok = tables.Recipe("crop_turnip", "crop_tomato")
	require.True(t, ok)
	assert.Equal(t, "dish_tomato_radish", dish)

	_, ok = tables.Recipe("crop_turnip", "crop_potato")
	assert.False(t, ok)
}

func TestDefaultInventory(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	inv := tables.DefaultInventory()
	assert.Equal(t, 5, inv["seed_turnip"])
	assert.Equal(t, 2, inv["seed_potato"])
	assert.Contains(t, inv, "crop_golden_apple")
	assert.Contains(t, inv, "dish_chili_corn")
	assert.Contains(t, inv, "furniture_sofa")
	assert.NotContains(t, inv, "seed_corn")
}

func TestStartingCountComesFromItems(t *testing.T) {
	data, err := embedded.ReadFile("data/items.yaml")
	require.NoError(t, err)
	items := strings.Replace(string(data), "output: crop_corn\n", "output: crop_corn\n  starting_count: 3\n", 1)

	tables, err := loaderWith(t, map[string]string{"items.yaml": items}).Load()
	require.NoError(t, err)

	inv := tables.DefaultInventory()
	assert.Equal(t, 3, inv["seed_corn"])
	assert.Equal(t, 5, inv["seed_turnip"])
}

func TestNPCEventThresholds(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	for _, id := range tables.NPCIDs() {
		npc, _ := tables.NPC(id)
		assert.Equal(t, []int{10, 20, 30}, npc.EventThresholds(), id)
	}
	npc, _ := tables.NPC("xiaobai")
	assert.Equal(t, "Shining Memories", npc.Events[20])
}

func loaderWith(t *testing.T, overrides map[string]string) *DataLoader {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, name := range []string{"items.yaml", "buffs.yaml", "recipes.yaml", "chapters.yaml", "npcs.yaml", "plots.yaml"} {
		data, err := embedded.ReadFile("data/" + name)
		require.NoError(t, err)
		fsys[name] = &fstest.MapFile{Data: data}
	}
	for name, body := range overrides {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return NewDataLoader(fsys)
}

func TestLoaderRejectsBadContent(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{
			name:      "unknown item kind",
			overrides: map[string]string{"items.yaml": "- {id: x, name: X, type: gadget}\n"},
		},
		{
			name:      "seed without crop",
			overrides: map[string]string{"items.yaml": "- {id: seed_x, name: X, type: seed, output: crop_x}\n"},
		},
		{
			name:      "recipe with unknown ingredient",
			overrides: map[string]string{"recipes.yaml": "- {ingredients: [crop_turnip, crop_mango], dish: dish_tomato_radish}\n"},
		},
		{
			name:      "recipe with one ingredient",
			overrides: map[string]string{"recipes.yaml": "- {ingredients: [crop_turnip], dish: dish_tomato_radish}\n"},
		},
		{
			name:      "too few buffs",
			overrides: map[string]string{"buffs.yaml": "- {id: sunny_day, name: Sunny, effect: {kind: growth_boost, speed_bonus: 0.2}}\n"},
		},
		{
			name:      "npc without heart cap",
			overrides: map[string]string{"npcs.yaml": "- {id: a, name: A}\n"},
		},
		{
			name:      "npc event past heart cap",
			overrides: map[string]string{"npcs.yaml": "- {id: a, name: A, max_heart: 10, events: {20: Too Late}}\n"},
		},
		{
			name:      "missing document",
			overrides: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dl := loaderWith(t, tt.overrides)
			if tt.overrides == nil {
				delete(dl.fsys.(fstest.MapFS), "plots.yaml")
			}
			_, err := dl.Load()
			assert.Error(t, err)
		})
	}
}

func TestDirLoaderOverridesTables(t *testing.T) {
	dir := t.TempDir()
	dl := loaderWith(t, map[string]string{
		"plots.yaml": "- {id: 1, unlock_level: 1}\n- {id: 2, unlock_level: 4}\n",
	})
	for name, f := range dl.fsys.(fstest.MapFS) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0644))
	}

	tables, err := NewDirLoader(dir).Load()
	require.NoError(t, err)
	require.Len(t, tables.Plots(), 2)
	assert.Equal(t, 4, tables.Plots()[1].UnlockLevel)
}
