package buff

import (
	"math"
	"slices"

	"github.com/user/fairy-farm/internal/types"
)

// Odds used when no buff overrides them
const (
	DefaultGoldenChance        = 0.2
	DefaultMysteryWeedChance   = 0.6
	DefaultMysteryGoldenChance = 0.1
	DefaultHarvestMultiplier   = 2
)

// Active is the modifier context of the current day: the selected buff's
// effect (nil when none) and the debuff carried over from yesterday.
type Active struct {
	Effect Effect
	Debuff *types.Debuff
}

// GrowTime returns the buff-adjusted growth duration, at least 1.
func GrowTime(a Active, base int) int {
	t := float64(base)
	if g, ok := a.Effect.(GrowthBoost); ok {
		t /= 1 + g.SpeedBonus
	}
	return max(1, int(math.Round(t)))
}

// SellPrice returns the unit price of an item after the day's buff and debuff.
// Fixed-price items only react to a matching FixedItemPrice buff and ignore the debuff.
func SellPrice(a Active, itemID string, fixedPrice bool, base int) int {
	if fixedPrice {
		if f, ok := a.Effect.(FixedItemPrice); ok && f.Item == itemID {
			return max(1, f.Price)
		}
		return max(1, base)
	}

	pct := 0.0
	switch e := a.Effect.(type) {
	case BlackMarket:
		if itemID != e.Crop {
			return 1
		}
		pct += e.Bonus
	case CropPriceBoost:
		if slices.Contains(e.Crops, itemID) {
			pct += e.Bonus
		}
	case Inflation:
		pct += e.SellBonus
	case WarehouseResize:
		pct += e.SellBonus
	}

	price := int(math.Round(float64(base) * (1 + pct)))
	if a.Debuff != nil && a.Debuff.PricePenalty > 0 {
		price = int(math.Round(float64(price) * a.Debuff.PricePenalty))
	}
	return max(1, price)
}

// SeedPrice returns the buff-adjusted seed cost, at least 1.
func SeedPrice(a Active, base int) int {
	pct := 0.0
	switch e := a.Effect.(type) {
	case SeedDiscount:
		pct -= e.Discount
	case Inflation:
		pct += e.SeedPenalty
	}
	return max(1, int(math.Round(float64(base)*(1+pct))))
}

// WarehouseCapacity returns the day's warehouse capacity, never negative.
func WarehouseCapacity(a Active, base int) int {
	if w, ok := a.Effect.(WarehouseResize); ok {
		return max(0, base+w.Slots)
	}
	return max(0, base)
}

// GoldenChance returns the chance that a harvest is golden.
func GoldenChance(a Active, base float64) float64 {
	if g, ok := a.Effect.(GoldenTouch); ok {
		return g.Chance
	}
	return base
}

// MysteryOutputChances returns the weed and golden odds of a mystery harvest.
func MysteryOutputChances(a Active, weed, golden float64) (float64, float64) {
	if m, ok := a.Effect.(MysteryOdds); ok {
		if m.WeedChance != nil {
			weed = *m.WeedChance
		}
		if m.GoldenChance != nil {
			golden = *m.GoldenChance
		}
	}
	return weed, golden
}

// WiltChance returns the chance that a harvest wilts into a weed.
func WiltChance(a Active) float64 {
	if g, ok := a.Effect.(GrowthBoost); ok {
		return g.WiltChance
	}
	return 0
}

// HarvestExp applies experience modifiers to a harvest's base experience.
func HarvestExp(a Active, base int) int {
	switch e := a.Effect.(type) {
	case ExpBoost:
		return int(math.Round(float64(base) * (1 + e.Bonus)))
	case Overdraft:
		return 0
	}
	return base
}

// HarvestQuantity returns how many units one harvest yields.
func HarvestQuantity(a Active) int {
	if o, ok := a.Effect.(Overdraft); ok {
		if o.HarvestMultiplier > 0 {
			return o.HarvestMultiplier
		}
		return DefaultHarvestMultiplier
	}
	return 1
}

// InstantCoins returns the coins granted when the effect is selected.
func InstantCoins(e Effect) int {
	if f, ok := e.(FuturesContract); ok {
		return f.InstantCoins
	}
	return 0
}

// DeferredDebuff returns the penalty the effect schedules for the next day.
func DeferredDebuff(e Effect) *types.Debuff {
	if f, ok := e.(FuturesContract); ok && f.TomorrowPenalty > 0 {
		return &types.Debuff{PricePenalty: f.TomorrowPenalty}
	}
	return nil
}

// MysteryGiftRule returns the sales threshold and the seed granted per threshold.
func MysteryGiftRule(e Effect) (int, string, bool) {
	if m, ok := e.(MysteryGift); ok && m.Threshold > 0 {
		return m.Threshold, m.Seed, true
	}
	return 0, "", false
}
