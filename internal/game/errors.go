package game

import "errors"

// Farming
var (
	ErrPlotNotFound      = errors.New("plot not found")
	ErrPlotNotEmpty      = errors.New("plot is not empty")
	ErrPlotNotGrowing    = errors.New("plot is not growing")
	ErrPlotNotReady      = errors.New("plot is not ready")
	ErrDailyLimitReached = errors.New("daily planting limit reached")
	ErrNotASeed          = errors.New("item is not a seed")
	ErrNoWater           = errors.New("no water left")
)

// Items and economy
var (
	ErrUnknownItem       = errors.New("item not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrNoMarketPrice     = errors.New("item has no market price")
	ErrItemLocked        = errors.New("item is not unlocked yet")
	ErrNotPurchasable    = errors.New("item cannot be bought")
	ErrInsufficientCoins = errors.New("not enough coins")
)

// Buffs
var (
	ErrBuffAlreadySelected = errors.New("buff already selected today")
	ErrBuffNotOffered      = errors.New("buff is not among today's choices")
)

// Orders, NPCs and cooking
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrNPCNotFound    = errors.New("npc not found")
	ErrInvalidDish    = errors.New("item is not a dish")
	ErrInvalidQuality = errors.New("unknown dish quality")
	ErrNoRecipe       = errors.New("no recipe for these ingredients")
)

// Home and story
var (
	ErrNotFurniture      = errors.New("item is not furniture")
	ErrPlacementNotFound = errors.New("furniture placement not found")
	ErrChapterLocked     = errors.New("chapter is not unlocked")
)
