package game

import (
	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/buff"
	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/market"
	"github.com/user/fairy-farm/internal/metrics"
)

// unitSellPrice is what one unit fetches today
func (gm *GameManager) unitSellPrice(item content.Item) (int, error) {
	base := item.SellPrice
	if !item.FixedPrice {
		rec, ok := gm.state.MarketPrices[item.ID]
		if !ok || rec == nil {
			return 0, ErrNoMarketPrice
		}
		base = rec.CurrentPrice
	}
	return buff.SellPrice(gm.active(), item.ID, item.FixedPrice, base), nil
}

// SellCrop sells stored units at today's price and returns the revenue
func (gm *GameManager) SellCrop(itemID string, quantity int) (int, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	item, ok := gm.tables.Item(itemID)
	if !ok {
		return 0, ErrUnknownItem
	}
	if gm.warehouseCount(itemID) < quantity {
		return 0, ErrInsufficientStock
	}
	unit, err := gm.unitSellPrice(item)
	if err != nil {
		return 0, err
	}

	revenue := unit * quantity
	if err := gm.removeFromWarehouse(itemID, quantity); err != nil {
		return 0, err
	}
	gm.state.Coins += revenue
	gm.state.CropsSoldToday += quantity
	gifts := gm.grantMysteryGifts()

	metrics.CropsSold.WithLabelValues(itemID).Add(float64(quantity))
	metrics.CoinsEarned.Add(float64(revenue))
	gm.Logger.Info("Crop sold",
		zap.String("item", itemID),
		zap.Int("quantity", quantity),
		zap.Int("unit_price", unit),
		zap.Int("revenue", revenue),
		zap.Int("gifts", gifts))

	return revenue, gm.saveState()
}

// grantMysteryGifts turns every full threshold of units sold today into a
// seed while the mystery gift buff is active. The remainder carries over.
func (gm *GameManager) grantMysteryGifts() int {
	def, ok := gm.tables.Buffs.Get(gm.state.Buff.CurrentBuff)
	if !ok {
		return 0
	}
	threshold, seed, ok := buff.MysteryGiftRule(def.Effect)
	if !ok {
		return 0
	}
	gifts := 0
	for gm.state.CropsSoldToday >= threshold {
		gm.state.CropsSoldToday -= threshold
		gm.state.Inventory[seed]++
		gifts++
	}
	return gifts
}

// BuyItem buys one seed or piece of furniture. Seed prices follow the day's buff.
func (gm *GameManager) BuyItem(itemID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	item, ok := gm.tables.Item(itemID)
	if !ok {
		return ErrUnknownItem
	}
	if item.Kind != content.KindSeed && item.Kind != content.KindFurniture {
		return ErrNotPurchasable
	}
	if max(1, item.UnlockLevel) > gm.state.Level {
		return ErrItemLocked
	}

	cost := item.Cost
	if item.Kind == content.KindSeed {
		cost = buff.SeedPrice(gm.active(), item.Cost)
	}
	if gm.state.Coins < cost {
		return ErrInsufficientCoins
	}

	gm.state.Coins -= cost
	gm.state.Inventory[itemID]++

	metrics.ItemsBought.WithLabelValues(itemID).Inc()
	metrics.CoinsSpent.Add(float64(cost))
	gm.Logger.Debug("Item bought",
		zap.String("item", itemID),
		zap.Int("cost", cost),
		zap.Int("coins", gm.state.Coins))

	return gm.saveState()
}

// SellPrice returns today's unit price of an item
func (gm *GameManager) SellPrice(itemID string) (int, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	item, ok := gm.tables.Item(itemID)
	if !ok {
		return 0, ErrUnknownItem
	}
	return gm.unitSellPrice(item)
}

// SeedPrice returns today's price of a seed
func (gm *GameManager) SeedPrice(seedID string) (int, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	item, ok := gm.tables.Item(seedID)
	if !ok {
		return 0, ErrUnknownItem
	}
	if item.Kind != content.KindSeed {
		return 0, ErrNotASeed
	}
	return buff.SeedPrice(gm.active(), item.Cost), nil
}

// PriceChange returns how much a crop's price moved since yesterday
func (gm *GameManager) PriceChange(cropID string) int {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return market.Change(gm.state.MarketPrices[cropID])
}
