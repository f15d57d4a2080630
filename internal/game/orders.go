package game

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/types"
)

const maxOrderQuantity = 3

// orderableCrops are the crops grown by unlocked, non-mystery seeds
func (gm *GameManager) orderableCrops() []content.Item {
	var crops []content.Item
	seen := make(map[string]bool)
	for _, seed := range gm.tables.ItemsOfKind(content.KindSeed) {
		if seed.Mystery || max(1, seed.UnlockLevel) > gm.state.Level || seen[seed.Output] {
			continue
		}
		if crop, ok := gm.tables.Item(seed.Output); ok {
			seen[seed.Output] = true
			crops = append(crops, crop)
		}
	}
	return crops
}

// generateOrder posts one new order when the board has room
func (gm *GameManager) generateOrder() bool {
	if len(gm.state.Orders) >= gm.config.MaxOrders {
		return false
	}
	crops := gm.orderableCrops()
	npcs := gm.tables.NPCIDs()
	if len(crops) == 0 || len(npcs) == 0 {
		return false
	}

	crop := crops[gm.roller.Intn(len(crops))]
	count := gm.roller.Intn(maxOrderQuantity) + 1
	npc := npcs[gm.roller.Intn(len(npcs))]

	order := types.Order{
		ID:              uuid.New().String(),
		RequestedItemID: crop.ID,
		RequestedCount:  count,
		NPCID:           npc,
		RewardCoins:     float64(crop.SellPrice*count) * gm.config.OrderRewardMultiplier,
	}
	gm.state.Orders = append(gm.state.Orders, order)

	gm.Logger.Debug("Order posted",
		zap.String("order", order.ID),
		zap.String("npc", npc),
		zap.String("item", crop.ID),
		zap.Int("count", count))
	return true
}

// GenerateOrders posts one order if the board has room
func (gm *GameManager) GenerateOrders() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if !gm.generateOrder() {
		return nil
	}
	return gm.saveState()
}

// RefreshOrders posts a new order, retiring the oldest one when the board is full
func (gm *GameManager) RefreshOrders() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if len(gm.state.Orders) >= gm.config.MaxOrders && len(gm.state.Orders) > 0 {
		gm.state.Orders = gm.state.Orders[1:]
	}
	gm.generateOrder()
	return gm.saveState()
}

// Orders returns a copy of the open orders
func (gm *GameManager) Orders() []types.Order {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return append([]types.Order(nil), gm.state.Orders...)
}

// FulfillOrder hands over the requested crops from the inventory. The NPC
// grows fonder and a replacement order arrives after a short delay.
func (gm *GameManager) FulfillOrder(orderID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	idx := -1
	for i, o := range gm.state.Orders {
		if o.ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrOrderNotFound
	}
	order := gm.state.Orders[idx]
	if gm.state.Inventory[order.RequestedItemID] < order.RequestedCount {
		return ErrInsufficientStock
	}

	gm.state.Inventory[order.RequestedItemID] -= order.RequestedCount
	coins := int(math.Floor(order.RewardCoins))
	gm.state.Coins += coins
	exp := max(gm.config.OrderMinExp, min(gm.config.OrderMaxExp, int(math.Floor(order.RewardCoins/2))))
	gm.addExp(exp)
	if order.NPCID != "" {
		if _, _, err := gm.increaseHeart(order.NPCID, gm.config.OrderHeartGain); err != nil {
			gm.Logger.Warn("Order from unknown npc", zap.String("npc", order.NPCID))
		}
	}
	gm.state.Orders = append(gm.state.Orders[:idx], gm.state.Orders[idx+1:]...)

	metrics.OrdersFulfilled.WithLabelValues(order.NPCID).Inc()
	metrics.CoinsEarned.Add(float64(coins))
	gm.Logger.Info("Order fulfilled",
		zap.String("order", order.ID),
		zap.String("npc", order.NPCID),
		zap.Int("coins", coins),
		zap.Int("exp", exp))

	gm.afterFunc(time.Duration(gm.config.OrderReplaceDelay)*time.Millisecond, gm.replaceOrder)

	return gm.saveState()
}

// replaceOrder runs from the scheduler, outside any caller's lock
func (gm *GameManager) replaceOrder() {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if !gm.generateOrder() {
		return
	}
	if err := gm.saveState(); err != nil {
		gm.Logger.Error("Failed to save replacement order", zap.Error(err))
	}
}
