package game

import (
	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/types"
)

const cookingExp = 5

// GetRecipeResult returns the dish two ingredients make, in either order
func (gm *GameManager) GetRecipeResult(ingredient1, ingredient2 string) (string, bool) {
	return gm.tables.Recipe(ingredient1, ingredient2)
}

// CanCook reports whether both ingredients are stored and form a recipe
func (gm *GameManager) CanCook(ingredient1, ingredient2 string) bool {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.canCook(ingredient1, ingredient2)
}

func (gm *GameManager) canCook(ingredient1, ingredient2 string) bool {
	if gm.warehouseCount(ingredient1) < 1 || gm.warehouseCount(ingredient2) < 1 {
		return false
	}
	_, ok := gm.tables.Recipe(ingredient1, ingredient2)
	return ok
}

// CookDish turns one of each ingredient from the warehouse into a dish
func (gm *GameManager) CookDish(ingredient1, ingredient2, quality string) (*types.CookResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if _, ok := qualityHeart[quality]; !ok {
		return nil, ErrInvalidQuality
	}
	dish, ok := gm.tables.Recipe(ingredient1, ingredient2)
	if !ok {
		return nil, ErrNoRecipe
	}
	if !gm.canCook(ingredient1, ingredient2) {
		return nil, ErrInsufficientStock
	}

	// both present, neither removal can fail
	_ = gm.removeFromWarehouse(ingredient1, 1)
	_ = gm.removeFromWarehouse(ingredient2, 1)
	gm.state.Inventory[dish]++
	gm.addExp(cookingExp)

	metrics.DishesCooked.WithLabelValues(dish).Inc()
	gm.Logger.Info("Dish cooked", zap.String("dish", dish), zap.String("quality", quality))

	return &types.CookResult{DishID: dish, Quality: quality}, gm.saveState()
}

// DishCount returns how many of a dish are held
func (gm *GameManager) DishCount(dishID string) int {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.state.Inventory[dishID]
}

// UseDish consumes one dish from the inventory
func (gm *GameManager) UseDish(dishID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if item, ok := gm.tables.Item(dishID); !ok || item.Kind != content.KindDish {
		return ErrInvalidDish
	}
	if gm.state.Inventory[dishID] < 1 {
		return ErrInsufficientStock
	}
	gm.state.Inventory[dishID]--
	return gm.saveState()
}
