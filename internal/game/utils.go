package game

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DiceRoller handles the random rolls of the game
type DiceRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller with a fixed seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a uniform integer in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Intn(n)
}

// Float64 returns a uniform float in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Float64()
}

// TickSystem drives the real-time side of the game: crops ripen, water
// regenerates and the order board refreshes.
type TickSystem struct {
	gameManager  *GameManager
	logger       *zap.Logger
	tickInterval time.Duration
	refreshEvery int
	ticks        int
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewTickSystem creates a tick system logging through the manager's
// current logger. A zero orderRefresh disables order refreshes.
func NewTickSystem(gameManager *GameManager, tickInterval, orderRefresh time.Duration) *TickSystem {
	gameManager.stateLock.RLock()
	logger := gameManager.Logger
	gameManager.stateLock.RUnlock()

	ts := &TickSystem{
		gameManager:  gameManager,
		logger:       logger,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
	}
	if orderRefresh > 0 && tickInterval > 0 {
		ts.refreshEvery = max(1, int(orderRefresh/tickInterval))
	}
	return ts
}

// Start begins ticking in the background
func (ts *TickSystem) Start() {
	ticker := time.NewTicker(ts.tickInterval)
	go func() {
		for {
			select {
			case <-ticker.C:
				ts.tick()
			case <-ts.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts the tick system
func (ts *TickSystem) Stop() {
	ts.stopOnce.Do(func() { close(ts.stopChan) })
}

// tick runs one step. Errors are logged; the loop keeps going.
func (ts *TickSystem) tick() {
	if err := ts.gameManager.Tick(); err != nil {
		ts.logger.Error("Tick failed", zap.Error(err))
	}

	ts.ticks++
	if ts.refreshEvery > 0 && ts.ticks%ts.refreshEvery == 0 {
		if err := ts.gameManager.RefreshOrders(); err != nil {
			ts.logger.Error("Order refresh failed", zap.Error(err))
		}
	}
}
