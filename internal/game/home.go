package game

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/types"
)

const defaultFurnitureScale = 1.0

func (gm *GameManager) findPlacement(id string) int {
	return slices.IndexFunc(gm.state.HomeLayout, func(p types.FurniturePlacement) bool { return p.ID == id })
}

// PlaceFurniture moves a piece of furniture from the inventory into the
// home and returns its placement id. A non-positive scale means 1.
func (gm *GameManager) PlaceFurniture(itemID string, x, y, scale float64) (string, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	item, ok := gm.tables.Item(itemID)
	if !ok {
		return "", ErrUnknownItem
	}
	if item.Kind != content.KindFurniture {
		return "", ErrNotFurniture
	}
	if gm.state.Inventory[itemID] < 1 {
		return "", ErrInsufficientStock
	}
	if scale <= 0 {
		scale = defaultFurnitureScale
	}

	gm.state.Inventory[itemID]--
	placement := types.FurniturePlacement{
		ID:     uuid.New().String(),
		ItemID: itemID,
		X:      x,
		Y:      y,
		Scale:  scale,
	}
	gm.state.HomeLayout = append(gm.state.HomeLayout, placement)

	gm.Logger.Debug("Furniture placed", zap.String("placement", placement.ID), zap.String("item", itemID))
	return placement.ID, gm.saveState()
}

// MoveFurniture repositions a placed piece. A non-positive scale keeps the current one.
func (gm *GameManager) MoveFurniture(placementID string, x, y, scale float64) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	i := gm.findPlacement(placementID)
	if i < 0 {
		return ErrPlacementNotFound
	}
	p := &gm.state.HomeLayout[i]
	p.X, p.Y = x, y
	if scale > 0 {
		p.Scale = scale
	}
	return gm.saveState()
}

// RemoveFurniture takes a placed piece back into the inventory
func (gm *GameManager) RemoveFurniture(placementID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	i := gm.findPlacement(placementID)
	if i < 0 {
		return ErrPlacementNotFound
	}
	gm.state.Inventory[gm.state.HomeLayout[i].ItemID]++
	gm.state.HomeLayout = slices.Delete(gm.state.HomeLayout, i, i+1)
	return gm.saveState()
}
