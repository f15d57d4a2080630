package game

import (
	"github.com/user/fairy-farm/internal/buff"
	"github.com/user/fairy-farm/internal/types"
)

// warehouseUsed is the total quantity stored
func (gm *GameManager) warehouseUsed() int {
	used := 0
	for _, e := range gm.state.Warehouse {
		used += e.Quantity
	}
	return used
}

// warehouseCapacity is today's capacity after buffs
func (gm *GameManager) warehouseCapacity() int {
	return buff.WarehouseCapacity(gm.active(), gm.config.WarehouseCapacity)
}

func (gm *GameManager) warehouseCount(itemID string) int {
	for _, e := range gm.state.Warehouse {
		if e.ItemID == itemID {
			return e.Quantity
		}
	}
	return 0
}

// addToWarehouse stores as many units as fit and returns how many did.
// A shrunken capacity never evicts what is already stored.
func (gm *GameManager) addToWarehouse(itemID string, quantity int) int {
	accepted := min(quantity, gm.warehouseCapacity()-gm.warehouseUsed())
	if accepted <= 0 {
		return 0
	}
	for i := range gm.state.Warehouse {
		if gm.state.Warehouse[i].ItemID == itemID {
			gm.state.Warehouse[i].Quantity += accepted
			return accepted
		}
	}
	gm.state.Warehouse = append(gm.state.Warehouse, types.WarehouseEntry{ItemID: itemID, Quantity: accepted})
	return accepted
}

// removeFromWarehouse takes units out, pruning emptied entries
func (gm *GameManager) removeFromWarehouse(itemID string, quantity int) error {
	for i := range gm.state.Warehouse {
		e := &gm.state.Warehouse[i]
		if e.ItemID != itemID {
			continue
		}
		if e.Quantity < quantity {
			return ErrInsufficientStock
		}
		e.Quantity -= quantity
		if e.Quantity == 0 {
			gm.state.Warehouse = append(gm.state.Warehouse[:i], gm.state.Warehouse[i+1:]...)
		}
		return nil
	}
	return ErrInsufficientStock
}

// sanitizeWarehouse merges duplicate entries and drops empty ones
func (gm *GameManager) sanitizeWarehouse() {
	clean := make([]types.WarehouseEntry, 0, len(gm.state.Warehouse))
	index := make(map[string]int)
	for _, e := range gm.state.Warehouse {
		if e.Quantity <= 0 || e.ItemID == "" {
			continue
		}
		if i, ok := index[e.ItemID]; ok {
			clean[i].Quantity += e.Quantity
			continue
		}
		index[e.ItemID] = len(clean)
		clean = append(clean, e)
	}
	gm.state.Warehouse = clean
}

// AddToWarehouse stores up to quantity units and returns how many were accepted
func (gm *GameManager) AddToWarehouse(itemID string, quantity int) (int, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if _, ok := gm.tables.Item(itemID); !ok {
		return 0, ErrUnknownItem
	}

	accepted := gm.addToWarehouse(itemID, quantity)
	if accepted == 0 {
		return 0, nil
	}
	return accepted, gm.saveState()
}

// RemoveFromWarehouse takes quantity units out of the warehouse
func (gm *GameManager) RemoveFromWarehouse(itemID string, quantity int) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := gm.removeFromWarehouse(itemID, quantity); err != nil {
		return err
	}
	return gm.saveState()
}

// WarehouseItemCount returns how many units of an item are stored
func (gm *GameManager) WarehouseItemCount(itemID string) int {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.warehouseCount(itemID)
}

// WarehouseUsage returns the stored total and today's capacity
func (gm *GameManager) WarehouseUsage() (used, capacity int) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.warehouseUsed(), gm.warehouseCapacity()
}
