package game

import (
	"slices"

	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/types"
)

func (gm *GameManager) expThreshold(level int) int {
	return level * gm.config.ExpPerLevel
}

// AddExp grants experience, levelling up as often as it allows. A zero
// amount only runs the threshold check.
func (gm *GameManager) AddExp(amount int) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if amount < 0 {
		return ErrInvalidQuantity
	}
	gm.addExp(amount)
	return gm.saveState()
}

// addExp adds experience and carries the excess over each level-up.
// Nothing accrues at the level cap.
func (gm *GameManager) addExp(amount int) {
	s := gm.state
	if s.Level >= gm.config.MaxLevel {
		return
	}

	s.Exp += amount
	levelled := false
	for s.Level < gm.config.MaxLevel && s.Exp >= gm.expThreshold(s.Level) {
		s.Exp -= gm.expThreshold(s.Level)
		s.Level++
		levelled = true
		metrics.LevelUps.Inc()
		gm.Logger.Info("Level up", zap.Int("level", s.Level), zap.Int("exp", s.Exp))
	}
	if levelled {
		s.LevelUpPending = true
		gm.checkUnlocks()
	}
}

// checkUnlocks opens plots and story chapters the current level has reached
func (gm *GameManager) checkUnlocks() {
	s := gm.state
	for _, rule := range gm.tables.Plots() {
		if rule.UnlockLevel > s.Level {
			continue
		}
		if p := gm.findPlot(rule.ID); p != nil && p.Status == types.PlotLocked {
			p.Status = types.PlotEmpty
			gm.Logger.Info("Plot unlocked", zap.Int("plot", rule.ID))
		}
	}
	for _, ch := range gm.tables.Chapters() {
		if ch.UnlockLevel <= s.Level && !slices.Contains(s.Story.UnlockedChapters, ch.ID) {
			s.Story.UnlockedChapters = append(s.Story.UnlockedChapters, ch.ID)
			gm.Logger.Info("Chapter unlocked", zap.Int("chapter", ch.ID), zap.String("title", ch.Title))
		}
	}
}

// AcknowledgeLevelUp clears the pending level-up notice
func (gm *GameManager) AcknowledgeLevelUp() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if !gm.state.LevelUpPending {
		return nil
	}
	gm.state.LevelUpPending = false
	return gm.saveState()
}
