package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiftDish(t *testing.T) {
	tests := []struct {
		name         string
		npc          string
		dish         string
		quality      string
		startHeart   int
		wantChange   int
		wantHeart    int
		wantFavorite bool
		wantReaction string
	}{
		{
			name:         "normal dish",
			npc:          "xiaobai",
			dish:         "dish_chili_corn",
			quality:      QualityNormal,
			wantChange:   5,
			wantHeart:    5,
			wantReaction: "Thank you! It's pretty good~",
		},
		{
			name:         "delicious favourite doubles",
			npc:          "xiaoguang",
			dish:         "dish_chili_corn",
			quality:      QualityDelicious,
			wantChange:   20,
			wantHeart:    20,
			wantFavorite: true,
			wantReaction: "Chili oil corn! My favourite! You really get me!",
		},
		{
			name:         "disaster favourite is not doubled",
			npc:          "xiaoguang",
			dish:         "dish_chili_corn",
			quality:      QualityDisaster,
			startHeart:   8,
			wantChange:   -5,
			wantHeart:    3,
			wantFavorite: true,
			wantReaction: "Cough... what kind of dark cuisine is this?!",
		},
		{
			name:         "heart never drops below zero",
			npc:          "xiaoying",
			dish:         "dish_tomato_radish",
			quality:      QualityDisaster,
			wantChange:   -5,
			wantHeart:    0,
			wantReaction: "...... (quietly puts the chopsticks down)",
		},
		{
			name:         "heart is capped",
			npc:          "xiaolv",
			dish:         "dish_potato_shreds",
			quality:      QualityDelicious,
			startHeart:   25,
			wantChange:   20,
			wantHeart:    30,
			wantFavorite: true,
			wantReaction: "Sweet and sour potato shreds... how did you know? I'm touched...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, h.gm.SetHeart(tt.npc, tt.startHeart))
			h.give(tt.dish, 1)

			result, err := h.gm.GiftDish(tt.npc, tt.dish, tt.quality)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChange, result.HeartChange)
			assert.Equal(t, tt.wantHeart, result.Heart)
			assert.Equal(t, tt.wantFavorite, result.IsFavorite)
			assert.Equal(t, tt.wantReaction, result.Reaction)
			assert.Equal(t, tt.wantHeart, h.gm.Heart(tt.npc))

			// The dish stays in the bag
			assert.Equal(t, 1, h.gm.DishCount(tt.dish))
		})
	}
}

func TestGiftDishRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.gm.GiftDish("stranger", "dish_chili_corn", QualityNormal)
	assert.ErrorIs(t, err, ErrNPCNotFound)
	_, err = h.gm.GiftDish("xiaobai", "crop_turnip", QualityNormal)
	assert.ErrorIs(t, err, ErrInvalidDish)
	_, err = h.gm.GiftDish("xiaobai", "dish_chili_corn", "burnt")
	assert.ErrorIs(t, err, ErrInvalidQuality)
	assert.Equal(t, 0, h.gm.Heart("xiaobai"))
}

func TestCookDish(t *testing.T) {
	h := newHarness(t)
	_, err := h.gm.AddToWarehouse("crop_tomato", 1)
	require.NoError(t, err)
	_, err = h.gm.AddToWarehouse("crop_turnip", 2)
	require.NoError(t, err)

	// Test case 1: ingredients in either order
	dish, ok := h.gm.GetRecipeResult("crop_tomato", "crop_turnip")
	assert.True(t, ok)
	assert.Equal(t, "dish_tomato_radish", dish)
	assert.True(t, h.gm.CanCook("crop_turnip", "crop_tomato"))
	assert.False(t, h.gm.CanCook("crop_turnip", "crop_potato"))

	// Test case 2: cooking consumes one of each
	result, err := h.gm.CookDish("crop_turnip", "crop_tomato", QualityDelicious)
	require.NoError(t, err)
	assert.Equal(t, "dish_tomato_radish", result.DishID)
	assert.Equal(t, QualityDelicious, result.Quality)
	assert.Equal(t, 1, h.gm.DishCount("dish_tomato_radish"))
	assert.Equal(t, 0, h.gm.WarehouseItemCount("crop_tomato"))
	assert.Equal(t, 1, h.gm.WarehouseItemCount("crop_turnip"))
	assert.Equal(t, 5, h.gm.GetStatus().Exp)

	// Test case 3: out of tomatoes
	assert.False(t, h.gm.CanCook("crop_turnip", "crop_tomato"))
	_, err = h.gm.CookDish("crop_turnip", "crop_tomato", QualityNormal)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, h.gm.WarehouseItemCount("crop_turnip"))
}

func TestCookDishValidation(t *testing.T) {
	h := newHarness(t)
	_, err := h.gm.AddToWarehouse("crop_turnip", 1)
	require.NoError(t, err)
	_, err = h.gm.AddToWarehouse("crop_potato", 1)
	require.NoError(t, err)

	_, err = h.gm.CookDish("crop_turnip", "crop_potato", QualityNormal)
	assert.ErrorIs(t, err, ErrNoRecipe)
	_, err = h.gm.CookDish("crop_potato", "crop_tomato", "raw")
	assert.ErrorIs(t, err, ErrInvalidQuality)

	// Nothing was consumed
	assert.Equal(t, 1, h.gm.WarehouseItemCount("crop_turnip"))
	assert.Equal(t, 1, h.gm.WarehouseItemCount("crop_potato"))
}

func TestUseDish(t *testing.T) {
	h := newHarness(t)
	h.give("dish_pumpkin_paste", 1)

	require.NoError(t, h.gm.UseDish("dish_pumpkin_paste"))
	assert.Equal(t, 0, h.gm.DishCount("dish_pumpkin_paste"))
	assert.ErrorIs(t, h.gm.UseDish("dish_pumpkin_paste"), ErrInsufficientStock)
	assert.ErrorIs(t, h.gm.UseDish("crop_pumpkin"), ErrInvalidDish)
}

func TestHeartEvents(t *testing.T) {
	h := newHarness(t)

	// Test case 1: exact lookup by heart level
	ev, ok := h.gm.HeartEvent("xiaobai", 10)
	require.True(t, ok)
	assert.Equal(t, "Treasure in a Dream", ev.Title)
	_, ok = h.gm.HeartEvent("xiaobai", 15)
	assert.False(t, ok)
	_, ok = h.gm.HeartEvent("stranger", 10)
	assert.False(t, ok)

	// Test case 2: a gift crossing two levels opens both events
	require.NoError(t, h.gm.SetHeart("xiaoguang", 8))
	h.give("dish_chili_corn", 1)
	result, err := h.gm.GiftDish("xiaoguang", "dish_chili_corn", QualityDelicious)
	require.NoError(t, err)
	assert.Equal(t, 28, result.Heart)
	require.Len(t, result.Events, 2)
	assert.Equal(t, 10, result.Events[0].Heart)
	assert.Equal(t, "An Embarrassing Past", result.Events[1].Title)

	// Test case 3: levels already passed are not reported again
	require.NoError(t, h.gm.SetHeart("xiaoguang", 12))
	h.give("dish_tomato_radish", 1)
	result, err = h.gm.GiftDish("xiaoguang", "dish_tomato_radish", QualityNormal)
	require.NoError(t, err)
	assert.Equal(t, 17, result.Heart)
	assert.Empty(t, result.Events)

	// Test case 4: the events an NPC's heart has opened so far
	events, err := h.gm.UnlockedHeartEvents("xiaoguang")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Blurry Memories", events[0].Title)

	_, err = h.gm.UnlockedHeartEvents("stranger")
	assert.ErrorIs(t, err, ErrNPCNotFound)
}
