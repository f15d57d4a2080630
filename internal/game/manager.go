package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/fairy-farm/config"
	"github.com/user/fairy-farm/internal/buff"
	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/interfaces"
	"github.com/user/fairy-farm/internal/market"
	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/types"
)

// Items the rules refer to directly
const (
	weedID        = "crop_weed"
	goldenAppleID = "crop_golden_apple"
)

// Roller is the source of randomness for every roll the game makes
type Roller interface {
	Intn(n int) int
	Float64() float64
}

// Option customises a GameManager
type Option func(*GameManager)

// WithRoller replaces the dice roller
func WithRoller(r Roller) Option {
	return func(gm *GameManager) { gm.roller = r }
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(gm *GameManager) { gm.now = now }
}

// WithAfterFunc replaces the scheduler used for delayed work such as
// replacing a fulfilled order. The callback takes the state lock, so it
// must not run before the scheduling call returns.
func WithAfterFunc(after func(time.Duration, func())) Option {
	return func(gm *GameManager) { gm.afterFunc = after }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(gm *GameManager) { gm.Logger = logger }
}

// GameManager owns the game state and every operation on it
type GameManager struct {
	state     *types.Snapshot
	stateLock sync.RWMutex
	storage   interfaces.Store
	tables    *content.Tables
	config    config.GameConfig
	Logger    *zap.Logger
	roller    Roller
	now       func() time.Time
	afterFunc func(time.Duration, func())
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager loads the saved game from storage, or starts a new one,
// and brings it in line with the current content tables.
func NewGameManager(cfg config.Config, tables *content.Tables, storage interfaces.Store, opts ...Option) (*GameManager, error) {
	gm := &GameManager{
		storage: storage,
		tables:  tables,
		config:  cfg.Game,
		Logger:  zap.NewNop(),
		roller:  NewDiceRoller(),
		now:     time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(gm)
	}

	state := gm.newSnapshot()
	found, err := storage.Load(state)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	gm.state = state
	gm.prepare()

	gm.Logger.Info("Game loaded",
		zap.Bool("saved_game", found),
		zap.Int("day", gm.state.GameDay),
		zap.Int("level", gm.state.Level),
		zap.Int("coins", gm.state.Coins))

	if err := gm.saveState(); err != nil {
		return nil, err
	}
	return gm, nil
}

// SetLogger replaces the logger
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()
	gm.Logger = logger
}

// newSnapshot returns the state of a brand new game
func (gm *GameManager) newSnapshot() *types.Snapshot {
	s := &types.Snapshot{
		Coins:          gm.config.StartingCoins,
		Water:          gm.config.StartingWater,
		MaxWater:       gm.config.MaxWater,
		Level:          1,
		GameDay:        1,
		LastWaterRegen: gm.now(),
		Inventory:      gm.tables.DefaultInventory(),
		Plots:          make([]types.Plot, 0, len(gm.tables.Plots())),
		Warehouse:      make([]types.WarehouseEntry, 0),
		MarketPrices:   make(map[string]*types.MarketPrice),
		Buff:           types.BuffState{Choices: make([]string, 0)},
		Story: types.StoryProgress{
			UnlockedChapters: make([]int, 0),
			ReadChapters:     make([]int, 0),
		},
		HomeLayout: make([]types.FurniturePlacement, 0),
		NPCHearts:  make(map[string]int),
		Orders:     make([]types.Order, 0),
	}
	for _, rule := range gm.tables.Plots() {
		s.Plots = append(s.Plots, types.Plot{ID: rule.ID, Status: types.PlotLocked})
	}
	for _, id := range gm.tables.NPCIDs() {
		s.NPCHearts[id] = 0
	}
	return s
}

// prepare repairs a loaded snapshot: missing collections, plots, prices,
// today's buff offer and any unlocks the current level already earned.
func (gm *GameManager) prepare() {
	s := gm.state
	if s.Inventory == nil {
		s.Inventory = gm.tables.DefaultInventory()
	}
	if s.MarketPrices == nil {
		s.MarketPrices = make(map[string]*types.MarketPrice)
	}
	if s.NPCHearts == nil {
		s.NPCHearts = make(map[string]int)
	}
	if s.MaxWater <= 0 {
		s.MaxWater = gm.config.MaxWater
	}
	s.Water = max(0, min(s.Water, s.MaxWater))
	s.Level = max(1, min(s.Level, gm.config.MaxLevel))
	s.Exp = max(0, s.Exp)
	s.GameDay = max(1, s.GameDay)
	if s.LastWaterRegen.IsZero() {
		s.LastWaterRegen = gm.now()
	}

	gm.ensurePlots()
	gm.sanitizeWarehouse()

	for _, id := range gm.tables.NPCIDs() {
		npc, _ := gm.tables.NPC(id)
		s.NPCHearts[id] = max(0, min(s.NPCHearts[id], npc.MaxHeart))
	}

	market.Init(s.MarketPrices, gm.tables.MarketCrops())

	if !s.Buff.Selected && len(s.Buff.Choices) == 0 {
		gm.generateDailyChoices()
	}

	// exp saved past the threshold levels up now
	gm.addExp(0)
	gm.checkUnlocks()
}

// ensurePlots adds any plot the tables define but the save lacks
func (gm *GameManager) ensurePlots() {
	for _, rule := range gm.tables.Plots() {
		if gm.findPlot(rule.ID) == nil {
			gm.state.Plots = append(gm.state.Plots, types.Plot{ID: rule.ID, Status: types.PlotLocked})
		}
	}
	slices.SortFunc(gm.state.Plots, func(a, b types.Plot) int { return a.ID - b.ID })
}

// saveState persists the current game state
func (gm *GameManager) saveState() error {
	if err := gm.storage.Save(gm.state); err != nil {
		metrics.SaveErrors.Inc()
		gm.Logger.Error("Failed to save game state", zap.Error(err))
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// active returns the modifier context of the current day
func (gm *GameManager) active() buff.Active {
	a := buff.Active{Debuff: gm.state.Buff.TodayDebuff}
	if id := gm.state.Buff.CurrentBuff; id != "" {
		if b, ok := gm.tables.Buffs.Get(id); ok {
			a.Effect = b.Effect
		}
	}
	return a
}

// Snapshot returns a deep copy of the game state
func (gm *GameManager) Snapshot() *types.Snapshot {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	data, err := json.Marshal(gm.state)
	if err != nil {
		gm.Logger.Error("Failed to copy game state", zap.Error(err))
		return nil
	}
	var out types.Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		gm.Logger.Error("Failed to copy game state", zap.Error(err))
		return nil
	}
	return &out
}

// GetStatus summarises the game for an external view
func (gm *GameManager) GetStatus() types.Status {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	s := gm.state
	status := types.Status{
		Coins:             s.Coins,
		Water:             s.Water,
		MaxWater:          s.MaxWater,
		Level:             s.Level,
		Exp:               s.Exp,
		ExpToNext:         gm.expThreshold(s.Level),
		GameDay:           s.GameDay,
		DailyFarmingUsed:  s.DailyFarmingUsed,
		DailyFarmingLimit: gm.config.DailyPlantLimit,
		WarehouseUsed:     gm.warehouseUsed(),
		WarehouseCapacity: gm.warehouseCapacity(),
		CurrentBuff:       s.Buff.CurrentBuff,
		BuffChoices:       slices.Clone(s.Buff.Choices),
		BuffSelected:      s.Buff.Selected,
		TodayDebuff:       cloneDebuff(s.Buff.TodayDebuff),
		TomorrowDebuff:    cloneDebuff(s.Buff.TomorrowDebuff),
		OpenOrders:        len(s.Orders),
		LevelUpPending:    s.LevelUpPending,
	}
	for _, p := range s.HomeLayout {
		if item, ok := gm.tables.Item(p.ItemID); ok {
			status.HomeScore += item.Score
		}
	}
	return status
}
