package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/user/fairy-farm/config"
	"github.com/user/fairy-farm/internal/content"
)

// scriptedRoller replays queued rolls. An empty queue yields rolls that
// never trigger a chance (0.99) and always pick the first option (0).
type scriptedRoller struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

func (r *scriptedRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRoller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRoller) queueFloats(v ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, v...)
}

func (r *scriptedRoller) queueInts(v ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, v...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

type harness struct {
	gm        *GameManager
	store     *MemoryStore
	clock     *fakeClock
	roller    *scriptedRoller
	tables    *content.Tables
	scheduled []scheduled
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithStore(t, NewMemoryStore())
}

func newHarnessWithStore(t *testing.T, store *MemoryStore) *harness {
	t.Helper()

	tables, err := content.Default()
	require.NoError(t, err)

	h := &harness{
		store:  store,
		clock:  &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		roller: &scriptedRoller{},
		tables: tables,
	}
	h.gm, err = NewGameManager(config.DefaultConfig(), tables, store,
		WithRoller(h.roller),
		WithClock(h.clock.Now),
		WithAfterFunc(func(d time.Duration, f func()) {
			h.scheduled = append(h.scheduled, scheduled{delay: d, fn: f})
		}),
	)
	require.NoError(t, err)
	return h
}

// selectBuff offers exactly one buff and picks it
func (h *harness) selectBuff(t *testing.T, id string) {
	t.Helper()
	h.gm.stateLock.Lock()
	h.gm.state.Buff.Choices = []string{id}
	h.gm.state.Buff.Selected = false
	h.gm.stateLock.Unlock()
	require.NoError(t, h.gm.SelectBuff(id))
}

// give puts items straight into the inventory
func (h *harness) give(itemID string, n int) {
	h.gm.stateLock.Lock()
	defer h.gm.stateLock.Unlock()
	h.gm.state.Inventory[itemID] += n
}

// ripen plants a seed and lets it grow until it can be harvested
func (h *harness) ripen(t *testing.T, plotID int, seedID string) {
	t.Helper()
	h.give(seedID, 1)
	require.NoError(t, h.gm.Plant(plotID, seedID))
	h.clock.Advance(time.Hour)
	require.NoError(t, h.gm.Tick())
	require.Equal(t, "ready", h.gm.findPlot(plotID).Status)
}
