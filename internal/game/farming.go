package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/buff"
	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/types"
)

// Harvest experience
const (
	baseHarvestExp      = 10
	mysteryHarvestExp   = 5
	goldenExpMultiplier = 3
)

func (gm *GameManager) findPlot(id int) *types.Plot {
	for i := range gm.state.Plots {
		if gm.state.Plots[i].ID == id {
			return &gm.state.Plots[i]
		}
	}
	return nil
}

// Plant sows a seed from the inventory into an empty plot
func (gm *GameManager) Plant(plotID int, seedID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.state.DailyFarmingUsed >= gm.config.DailyPlantLimit {
		return ErrDailyLimitReached
	}
	plot := gm.findPlot(plotID)
	if plot == nil {
		return ErrPlotNotFound
	}
	if plot.Status != types.PlotEmpty {
		return ErrPlotNotEmpty
	}
	seed, ok := gm.tables.Item(seedID)
	if !ok {
		return ErrUnknownItem
	}
	if seed.Kind != content.KindSeed {
		return ErrNotASeed
	}
	if gm.state.Inventory[seedID] < 1 {
		return ErrInsufficientStock
	}

	gm.state.Inventory[seedID]--
	start := gm.now()
	duration := buff.GrowTime(gm.active(), seed.GrowTime)
	plot.Status = types.PlotGrowing
	plot.PlantID = &seedID
	plot.StartTime = &start
	plot.Duration = &duration
	gm.state.DailyFarmingUsed++

	metrics.CropsPlanted.WithLabelValues(seedID).Inc()
	gm.Logger.Debug("Seed planted",
		zap.Int("plot", plotID),
		zap.String("seed", seedID),
		zap.Int("duration", duration),
		zap.Int("planted_today", gm.state.DailyFarmingUsed))

	return gm.saveState()
}

// Water spends one unit of water to shorten a growing plot's remaining time
func (gm *GameManager) Water(plotID int) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	plot := gm.findPlot(plotID)
	if plot == nil {
		return ErrPlotNotFound
	}
	if plot.Status != types.PlotGrowing {
		return ErrPlotNotGrowing
	}
	if gm.state.Water <= 0 {
		return ErrNoWater
	}

	gm.state.Water--
	remaining := 0
	if plot.Duration != nil {
		remaining = max(0, *plot.Duration-gm.config.WaterReduction)
	}
	plot.Duration = &remaining

	return gm.saveState()
}

// Tick ripens plots whose growth time has elapsed and regenerates water.
// The state is only saved when something changed.
func (gm *GameManager) Tick() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	now := gm.now()
	changed := false
	for i := range gm.state.Plots {
		p := &gm.state.Plots[i]
		if p.Status != types.PlotGrowing || p.StartTime == nil || p.Duration == nil {
			continue
		}
		if now.Sub(*p.StartTime) >= time.Duration(*p.Duration)*time.Second {
			p.Status = types.PlotReady
			changed = true
		}
	}
	if gm.regenerateWater(now) {
		changed = true
	}

	if !changed {
		return nil
	}
	return gm.saveState()
}

// regenerateWater adds one unit per elapsed interval up to the tank size
func (gm *GameManager) regenerateWater(now time.Time) bool {
	s := gm.state
	if s.Water >= s.MaxWater {
		s.LastWaterRegen = now
		return false
	}

	interval := time.Duration(gm.config.WaterRegenSeconds) * time.Second
	units := int(now.Sub(s.LastWaterRegen) / interval)
	if units <= 0 {
		return false
	}

	s.Water = min(s.MaxWater, s.Water+units)
	if s.Water == s.MaxWater {
		s.LastWaterRegen = now
	} else {
		s.LastWaterRegen = s.LastWaterRegen.Add(time.Duration(units) * interval)
	}
	return true
}

// Harvest collects a ripe plot. The produce goes to the warehouse while it
// has room and spills into the inventory after that.
func (gm *GameManager) Harvest(plotID int) (*types.HarvestResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	plot := gm.findPlot(plotID)
	if plot == nil {
		return nil, ErrPlotNotFound
	}
	if plot.Status != types.PlotReady || plot.PlantID == nil {
		return nil, ErrPlotNotReady
	}
	seed, ok := gm.tables.Item(*plot.PlantID)
	if !ok {
		return nil, ErrUnknownItem
	}

	result := gm.resolveHarvest(seed, gm.active())
	result.Stored = gm.addToWarehouse(result.ItemID, result.Quantity)
	if overflow := result.Quantity - result.Stored; overflow > 0 {
		gm.state.Inventory[result.ItemID] += overflow
		metrics.HarvestOverflow.Add(float64(overflow))
	}

	plot.Status = types.PlotEmpty
	plot.PlantID = nil
	plot.StartTime = nil
	plot.Duration = nil

	if result.Exp > 0 {
		gm.addExp(result.Exp)
	}
	result.Timestamp = gm.now()
	gm.state.LastHarvest = result

	outcome := metrics.OutcomeNormal
	switch {
	case result.Wilted:
		outcome = metrics.OutcomeWilted
	case result.Golden:
		outcome = metrics.OutcomeGolden
	}
	metrics.Harvests.WithLabelValues(result.ItemID, outcome).Inc()
	gm.Logger.Info("Plot harvested",
		zap.Int("plot", plotID),
		zap.String("item", result.ItemID),
		zap.String("outcome", outcome),
		zap.Int("quantity", result.Quantity),
		zap.Int("stored", result.Stored),
		zap.Int("exp", result.Exp))

	out := *result
	return &out, gm.saveState()
}

// resolveHarvest rolls the outcome of harvesting a seed. A wilt ends the
// roll; otherwise mystery output, golden chance and the day's experience
// and quantity modifiers apply in that order.
func (gm *GameManager) resolveHarvest(seed content.Item, active buff.Active) *types.HarvestResult {
	res := &types.HarvestResult{ItemID: seed.Output, Quantity: 1}

	if chance := buff.WiltChance(active); chance > 0 && gm.roller.Float64() < chance {
		res.ItemID = weedID
		res.Wilted = true
		return res
	}

	exp := baseHarvestExp
	if seed.Mystery {
		res.ItemID = gm.mysteryOutput(active)
		exp = mysteryHarvestExp
	}
	if gm.roller.Float64() < buff.GoldenChance(active, buff.DefaultGoldenChance) {
		res.Golden = true
		exp *= goldenExpMultiplier
	}

	res.Exp = buff.HarvestExp(active, exp)
	res.Quantity = buff.HarvestQuantity(active)
	return res
}

// mysteryOutput picks weed, golden apple or a uniformly chosen ordinary crop
func (gm *GameManager) mysteryOutput(active buff.Active) string {
	weed, golden := buff.MysteryOutputChances(active, buff.DefaultMysteryWeedChance, buff.DefaultMysteryGoldenChance)
	u := gm.roller.Float64()
	switch {
	case u < weed:
		return weedID
	case u >= 1-golden:
		return goldenAppleID
	}
	crops := gm.tables.OrdinaryCrops()
	if len(crops) == 0 {
		return weedID
	}
	return crops[gm.roller.Intn(len(crops))]
}
