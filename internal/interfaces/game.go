package interfaces

import "github.com/user/fairy-farm/internal/types"

// Store defines the interface for persisting the game state
type Store interface {
	// Load decodes the saved state onto into, which arrives pre-filled with
	// defaults. It reports whether a saved state existed.
	Load(into *types.Snapshot) (bool, error)
	Save(state *types.Snapshot) error
}

// Resetter is a store that can forget its saved game
type Resetter interface {
	Delete() error
}

// HeartKeeper defines the interface for NPC affection
type HeartKeeper interface {
	IncreaseHeart(npcID string, amount int) (int, error)
}

// GameManager defines the interface for game operations
type GameManager interface {
	HeartKeeper

	// Daily buffs
	GenerateDailyChoices() error
	SelectBuff(buffID string) error
	AdvanceDay() error

	// Farming
	Plant(plotID int, seedID string) error
	Water(plotID int) error
	Tick() error
	Harvest(plotID int) (*types.HarvestResult, error)

	// Warehouse and market
	AddToWarehouse(itemID string, quantity int) (int, error)
	RemoveFromWarehouse(itemID string, quantity int) error
	WarehouseItemCount(itemID string) int
	SellCrop(itemID string, quantity int) (int, error)
	BuyItem(itemID string) error
	PriceChange(cropID string) int

	// Progression
	AddExp(amount int) error
	AcknowledgeLevelUp() error

	// Orders and NPCs
	RefreshOrders() error
	FulfillOrder(orderID string) error
	GiftDish(npcID, dishID, quality string) (*types.GiftResult, error)
	HeartEvent(npcID string, heart int) (types.HeartEvent, bool)
	UnlockedHeartEvents(npcID string) ([]types.HeartEvent, error)

	// Cooking
	CanCook(ingredient1, ingredient2 string) bool
	CookDish(ingredient1, ingredient2, quality string) (*types.CookResult, error)
	UseDish(dishID string) error

	// Home and story
	PlaceFurniture(itemID string, x, y, scale float64) (string, error)
	MoveFurniture(placementID string, x, y, scale float64) error
	RemoveFurniture(placementID string) error
	MarkChapterRead(chapterID int) error

	GetStatus() types.Status
	Snapshot() *types.Snapshot
}
