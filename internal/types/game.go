package types

import "time"

// Plot statuses
const (
	PlotLocked  = "locked"
	PlotEmpty   = "empty"
	PlotGrowing = "growing"
	PlotReady   = "ready"
)

// Snapshot is the full persisted game state. Every mutating operation
// writes the whole snapshot through to the store.
type Snapshot struct {
	Coins    int `json:"coins"`
	Water    int `json:"water"`
	MaxWater int `json:"max_water"`
	Level    int `json:"level"`
	Exp      int `json:"exp"`
	GameDay  int `json:"game_day"`

	// LastWaterRegen anchors the water regeneration clock
	LastWaterRegen time.Time `json:"last_water_regen"`

	Inventory    map[string]int          `json:"inventory"`
	Plots        []Plot                  `json:"plots"`
	Warehouse    []WarehouseEntry        `json:"warehouse"`
	MarketPrices map[string]*MarketPrice `json:"market_prices"`

	// Day-scoped counters
	DailyFarmingUsed int `json:"daily_farming_used"`
	CropsSoldToday   int `json:"crops_sold_today"`

	Buff       BuffState            `json:"buff"`
	Story      StoryProgress        `json:"story"`
	HomeLayout []FurniturePlacement `json:"home_layout"`
	NPCHearts  map[string]int       `json:"npc_hearts"`
	Orders     []Order              `json:"orders"`

	LevelUpPending bool           `json:"level_up_pending"`
	LastHarvest    *HarvestResult `json:"last_harvest,omitempty"`
}

// Plot is one farm field
type Plot struct {
	ID        int        `json:"id"`
	Status    string     `json:"status"`
	PlantID   *string    `json:"plant_id"`
	StartTime *time.Time `json:"start_time"`
	Duration  *int       `json:"duration"` // seconds
}

// WarehouseEntry is one stack in the warehouse. Quantity is always >= 1.
type WarehouseEntry struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// MarketPrice tracks the daily random walk of one crop
type MarketPrice struct {
	CurrentPrice  int   `json:"current_price"`
	PreviousPrice int   `json:"previous_price"`
	PriceHistory  []int `json:"price_history"`
}

// Debuff is a price penalty carried over from a previous day's buff
type Debuff struct {
	PricePenalty float64 `json:"price_penalty"`
}

// BuffState holds the daily buff offer and choice
type BuffState struct {
	CurrentBuff string   `json:"current_buff"`
	Choices     []string `json:"buff_choices"`
	Selected    bool     `json:"buff_selected"`

	// TomorrowDebuff was earned today and takes effect after the next day advance.
	TomorrowDebuff *Debuff `json:"tomorrow_debuff"`
	// TodayDebuff is the penalty in effect for the current day.
	TodayDebuff *Debuff `json:"today_debuff"`
}

// StoryProgress records unlocked and read chapters in unlock order
type StoryProgress struct {
	UnlockedChapters []int `json:"unlocked_chapters"`
	ReadChapters     []int `json:"read_chapters"`
}

// FurniturePlacement is a piece of furniture placed in the home
type FurniturePlacement struct {
	ID     string  `json:"id"`
	ItemID string  `json:"item_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Scale  float64 `json:"scale"`
}

// Order is an NPC request for crops
type Order struct {
	ID              string  `json:"id"`
	RequestedItemID string  `json:"requested_item_id"`
	RequestedCount  int     `json:"requested_count"`
	NPCID           string  `json:"npc_id"`
	RewardCoins     float64 `json:"reward_coins"`
}

// HarvestResult describes the outcome of the latest harvest
type HarvestResult struct {
	ItemID    string    `json:"item_id"`
	Golden    bool      `json:"golden"`
	Wilted    bool      `json:"wilted"`
	Exp       int       `json:"exp"`
	Quantity  int       `json:"quantity"`
	Stored    int       `json:"stored"`
	Timestamp time.Time `json:"timestamp"`
}

// GiftResult is the NPC reaction to a gifted dish
type GiftResult struct {
	HeartChange int    `json:"heart_change"`
	Heart       int    `json:"heart"`
	Reaction    string `json:"reaction"`
	IsFavorite  bool   `json:"is_favorite"`

	// Events lists the heart events this gift opened
	Events []HeartEvent `json:"events,omitempty"`
}

// HeartEvent is an NPC story scene opened at a heart level
type HeartEvent struct {
	NPCID string `json:"npc_id"`
	Heart int    `json:"heart"`
	Title string `json:"title"`
}

// CookResult is the outcome of cooking a dish
type CookResult struct {
	DishID  string `json:"dish_id"`
	Quality string `json:"quality"`
}

// Status is a read-only summary of the game for an external view
type Status struct {
	Coins     int `json:"coins"`
	Water     int `json:"water"`
	MaxWater  int `json:"max_water"`
	Level     int `json:"level"`
	Exp       int `json:"exp"`
	ExpToNext int `json:"exp_to_next"`
	GameDay   int `json:"game_day"`

	DailyFarmingUsed  int `json:"daily_farming_used"`
	DailyFarmingLimit int `json:"daily_farming_limit"`

	WarehouseUsed     int `json:"warehouse_used"`
	WarehouseCapacity int `json:"warehouse_capacity"`

	CurrentBuff    string   `json:"current_buff,omitempty"`
	BuffChoices    []string `json:"buff_choices"`
	BuffSelected   bool     `json:"buff_selected"`
	TodayDebuff    *Debuff  `json:"today_debuff,omitempty"`
	TomorrowDebuff *Debuff  `json:"tomorrow_debuff,omitempty"`

	OpenOrders     int  `json:"open_orders"`
	HomeScore      int  `json:"home_score"`
	LevelUpPending bool `json:"level_up_pending"`
}
