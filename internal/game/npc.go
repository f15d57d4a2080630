package game

import (
	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/types"
)

// Dish qualities
const (
	QualityDisaster  = "disaster"
	QualityNormal    = "normal"
	QualityDelicious = "delicious"
)

var qualityHeart = map[string]int{
	QualityDisaster:  -5,
	QualityNormal:    5,
	QualityDelicious: 10,
}

// IncreaseHeart raises an NPC's affection, capped at its maximum
func (gm *GameManager) IncreaseHeart(npcID string, amount int) (int, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	heart, _, err := gm.increaseHeart(npcID, amount)
	if err != nil {
		return 0, err
	}
	return heart, gm.saveState()
}

// increaseHeart applies the change and returns the events whose heart
// level was crossed on the way up.
func (gm *GameManager) increaseHeart(npcID string, amount int) (int, []types.HeartEvent, error) {
	npc, ok := gm.tables.NPC(npcID)
	if !ok {
		return 0, nil, ErrNPCNotFound
	}
	before := gm.state.NPCHearts[npcID]
	heart := max(0, min(npc.MaxHeart, before+amount))
	gm.state.NPCHearts[npcID] = heart

	var reached []types.HeartEvent
	for _, threshold := range npc.EventThresholds() {
		if threshold > before && threshold <= heart {
			ev := types.HeartEvent{NPCID: npcID, Heart: threshold, Title: npc.Events[threshold]}
			reached = append(reached, ev)
			gm.Logger.Info("Heart event reached",
				zap.String("npc", npcID),
				zap.Int("heart", threshold),
				zap.String("title", ev.Title))
		}
	}
	return heart, reached, nil
}

// HeartEvent returns the event an NPC opens at exactly this heart level
func (gm *GameManager) HeartEvent(npcID string, heart int) (types.HeartEvent, bool) {
	npc, ok := gm.tables.NPC(npcID)
	if !ok {
		return types.HeartEvent{}, false
	}
	title, ok := npc.Events[heart]
	if !ok {
		return types.HeartEvent{}, false
	}
	return types.HeartEvent{NPCID: npcID, Heart: heart, Title: title}, true
}

// UnlockedHeartEvents returns the events an NPC's current heart has opened
func (gm *GameManager) UnlockedHeartEvents(npcID string) ([]types.HeartEvent, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	npc, ok := gm.tables.NPC(npcID)
	if !ok {
		return nil, ErrNPCNotFound
	}
	heart := gm.state.NPCHearts[npcID]
	out := make([]types.HeartEvent, 0, len(npc.Events))
	for _, threshold := range npc.EventThresholds() {
		if threshold <= heart {
			out = append(out, types.HeartEvent{NPCID: npcID, Heart: threshold, Title: npc.Events[threshold]})
		}
	}
	return out, nil
}

// SetHeart overwrites an NPC's affection, clamped to its range
func (gm *GameManager) SetHeart(npcID string, value int) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	npc, ok := gm.tables.NPC(npcID)
	if !ok {
		return ErrNPCNotFound
	}
	gm.state.NPCHearts[npcID] = max(0, min(npc.MaxHeart, value))
	return gm.saveState()
}

// Heart returns an NPC's affection
func (gm *GameManager) Heart(npcID string) int {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.state.NPCHearts[npcID]
}

// GiftDish hands a dish of some quality to an NPC. A favourite dish doubles
// a positive change. The dish itself is not consumed; see UseDish.
func (gm *GameManager) GiftDish(npcID, dishID, quality string) (*types.GiftResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	npc, ok := gm.tables.NPC(npcID)
	if !ok {
		return nil, ErrNPCNotFound
	}
	if item, ok := gm.tables.Item(dishID); !ok || item.Kind != content.KindDish {
		return nil, ErrInvalidDish
	}
	change, ok := qualityHeart[quality]
	if !ok {
		return nil, ErrInvalidQuality
	}

	result := &types.GiftResult{
		Reaction:   reaction(npc, quality),
		IsFavorite: npc.FavoriteDish == dishID,
	}
	if result.IsFavorite && change > 0 {
		change *= 2
		result.Reaction = npc.Reactions.Favorite
	}
	result.HeartChange = change
	result.Heart, result.Events, _ = gm.increaseHeart(npcID, change)

	gm.Logger.Info("Dish gifted",
		zap.String("npc", npcID),
		zap.String("dish", dishID),
		zap.String("quality", quality),
		zap.Int("heart", result.Heart))

	return result, gm.saveState()
}

func reaction(npc content.NPC, quality string) string {
	switch quality {
	case QualityDisaster:
		return npc.Reactions.Disaster
	case QualityDelicious:
		return npc.Reactions.Delicious
	default:
		return npc.Reactions.Normal
	}
}
