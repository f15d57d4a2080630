package game

import (
	"slices"

	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/buff"
	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/market"
	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/types"
)

// GenerateDailyChoices offers a fresh set of buffs for the day, dropping
// any choice already made.
func (gm *GameManager) GenerateDailyChoices() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.generateDailyChoices()
	return gm.saveState()
}

func (gm *GameManager) generateDailyChoices() {
	b := &gm.state.Buff
	b.Choices = gm.tables.Buffs.Draw(gm.roller, content.DailyChoiceCount)
	b.Selected = false
	b.CurrentBuff = ""
	gm.state.CropsSoldToday = 0

	gm.Logger.Debug("Offering daily buffs", zap.Strings("choices", b.Choices))
}

// SelectBuff commits one of today's offered buffs and applies its
// immediate effects. A deferred penalty waits for the next day.
func (gm *GameManager) SelectBuff(buffID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	b := &gm.state.Buff
	if b.Selected {
		return ErrBuffAlreadySelected
	}
	if !slices.Contains(b.Choices, buffID) {
		return ErrBuffNotOffered
	}
	def, ok := gm.tables.Buffs.Get(buffID)
	if !ok {
		return ErrBuffNotOffered
	}

	b.CurrentBuff = buffID
	b.Selected = true

	if coins := buff.InstantCoins(def.Effect); coins > 0 {
		gm.state.Coins += coins
		metrics.CoinsEarned.Add(float64(coins))
	}
	if debuff := buff.DeferredDebuff(def.Effect); debuff != nil {
		b.TomorrowDebuff = debuff
	}

	metrics.BuffsSelected.WithLabelValues(buffID).Inc()
	gm.Logger.Info("Buff selected",
		zap.String("buff", buffID),
		zap.Int("day", gm.state.GameDay),
		zap.Int("coins", gm.state.Coins))

	return gm.saveState()
}

// AdvanceDay moves the game to the next day: counters reset, the penalty
// earned yesterday becomes today's, prices move and new buffs are offered.
func (gm *GameManager) AdvanceDay() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	s := gm.state
	s.GameDay++
	s.DailyFarmingUsed = 0
	s.CropsSoldToday = 0

	s.Buff.TodayDebuff = s.Buff.TomorrowDebuff
	s.Buff.TomorrowDebuff = nil

	market.Update(s.MarketPrices, gm.tables.MarketCrops(), gm.roller)
	gm.generateDailyChoices()

	metrics.DaysAdvanced.Inc()
	gm.Logger.Info("Day advanced",
		zap.Int("day", s.GameDay),
		zap.Bool("debuff_active", s.Buff.TodayDebuff != nil))

	return gm.saveState()
}

func cloneDebuff(d *types.Debuff) *types.Debuff {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
