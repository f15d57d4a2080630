package market

import (
	"math"

	"github.com/user/fairy-farm/internal/types"
)

const (
	// HistoryDays is how many daily prices are kept per crop
	HistoryDays = 7

	// fluctuation = (u - fluctuationCenter) * fluctuationSpread, i.e. -32%..+48%
	fluctuationCenter = 0.4
	fluctuationSpread = 0.8

	minPriceFactor = 0.5
	maxPriceFactor = 2.0
)

// Source is the randomness behind the daily fluctuation
type Source interface {
	Float64() float64
}

// Crop is a tradable crop and its base sell price
type Crop struct {
	ID        string
	BasePrice int
}

// Bounds returns the lowest and highest price a crop may reach.
func Bounds(base int) (int, int) {
	return int(math.Round(float64(base) * minPriceFactor)), int(math.Round(float64(base) * maxPriceFactor))
}

// NextPrice applies a fluctuation drawn from u in [0,1) to the base price.
// The walk is anchored on the base price so it never drifts.
func NextPrice(base int, u float64) int {
	fluctuation := (u - fluctuationCenter) * fluctuationSpread
	price := int(math.Round(float64(base) * (1 + fluctuation)))
	lo, hi := Bounds(base)
	return max(lo, min(hi, price))
}

// NewRecord starts a price record at the base price with one day of history.
func NewRecord(base int) *types.MarketPrice {
	return &types.MarketPrice{
		CurrentPrice:  base,
		PreviousPrice: base,
		PriceHistory:  []int{base},
	}
}

// Push records a new current price, remembering the previous one and
// dropping the oldest history entry past HistoryDays.
func Push(rec *types.MarketPrice, price int) {
	rec.PreviousPrice = rec.CurrentPrice
	rec.CurrentPrice = price
	rec.PriceHistory = append(rec.PriceHistory, price)
	if over := len(rec.PriceHistory) - HistoryDays; over > 0 {
		rec.PriceHistory = append([]int(nil), rec.PriceHistory[over:]...)
	}
}

// Change returns the price delta since the previous day.
func Change(rec *types.MarketPrice) int {
	if rec == nil {
		return 0
	}
	return rec.CurrentPrice - rec.PreviousPrice
}

// Init adds a fresh record for every crop that has none and pulls
// existing records back inside the crop's bounds.
func Init(prices map[string]*types.MarketPrice, crops []Crop) {
	for _, c := range crops {
		rec := prices[c.ID]
		if rec == nil {
			prices[c.ID] = NewRecord(c.BasePrice)
			continue
		}
		Clamp(rec, c.BasePrice)
	}
}

// Clamp keeps every price of a record within Bounds(base) and its
// history to the last HistoryDays entries.
func Clamp(rec *types.MarketPrice, base int) {
	lo, hi := Bounds(base)
	rec.CurrentPrice = max(lo, min(hi, rec.CurrentPrice))
	rec.PreviousPrice = max(lo, min(hi, rec.PreviousPrice))
	if over := len(rec.PriceHistory) - HistoryDays; over > 0 {
		rec.PriceHistory = append([]int(nil), rec.PriceHistory[over:]...)
	}
	for i, p := range rec.PriceHistory {
		rec.PriceHistory[i] = max(lo, min(hi, p))
	}
	if len(rec.PriceHistory) == 0 {
		rec.PriceHistory = []int{rec.CurrentPrice}
	}
}

// Update moves every crop one step along its random walk.
func Update(prices map[string]*types.MarketPrice, crops []Crop, src Source) {
	Init(prices, crops)
	for _, c := range crops {
		Push(prices[c.ID], NextPrice(c.BasePrice, src.Float64()))
	}
}
