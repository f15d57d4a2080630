package content

import (
	"errors"
	"fmt"
	"slices"

	"github.com/user/fairy-farm/internal/buff"
	"github.com/user/fairy-farm/internal/market"
)

// Item kinds
const (
	KindSeed      = "seed"
	KindCrop      = "crop"
	KindDish      = "dish"
	KindFurniture = "furniture"
)

// DailyChoiceCount is how many buffs are offered per day
const DailyChoiceCount = 3

// Item is one row of the item table. Seeds carry GrowTime and Output,
// crops a SellPrice, furniture a Cost and Score.
type Item struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	Kind        string `yaml:"type" json:"type" validate:"oneof=seed crop dish furniture"`
	Cost        int    `yaml:"cost" json:"cost,omitempty" validate:"gte=0"`
	SellPrice   int    `yaml:"sell_price" json:"sell_price,omitempty" validate:"gte=0"`
	GrowTime    int    `yaml:"grow_time" json:"grow_time,omitempty" validate:"gte=0"`
	Output      string `yaml:"output" json:"output,omitempty"`
	UnlockLevel int    `yaml:"unlock_level" json:"unlock_level,omitempty" validate:"gte=0"`
	Mystery     bool   `yaml:"mystery" json:"mystery,omitempty"`
	FixedPrice  bool   `yaml:"fixed_price" json:"fixed_price,omitempty"`
	Score       int    `yaml:"score" json:"score,omitempty" validate:"gte=0"`

	// StartingCount is how many a new game starts with
	StartingCount int `yaml:"starting_count" json:"starting_count,omitempty" validate:"gte=0"`
}

// Recipe turns two distinct crops into a dish
type Recipe struct {
	Ingredients []string `yaml:"ingredients" validate:"len=2,dive,required"`
	Dish        string   `yaml:"dish" validate:"required"`
}

// Chapter is a story chapter unlocked at a level
type Chapter struct {
	ID          int    `yaml:"id" json:"id" validate:"gt=0"`
	Title       string `yaml:"title" json:"title" validate:"required"`
	UnlockLevel int    `yaml:"unlock_level" json:"unlock_level" validate:"gte=1"`
}

// Reactions are the lines an NPC says when handed a dish
type Reactions struct {
	Disaster  string `yaml:"disaster" json:"disaster"`
	Normal    string `yaml:"normal" json:"normal"`
	Delicious string `yaml:"delicious" json:"delicious"`
	Favorite  string `yaml:"favorite" json:"favorite"`
}

// NPC is a villager's definition
type NPC struct {
	ID           string    `yaml:"id" json:"id" validate:"required"`
	Name         string    `yaml:"name" json:"name" validate:"required"`
	MaxHeart     int       `yaml:"max_heart" json:"max_heart" validate:"gt=0"`
	FavoriteCrop string    `yaml:"favorite_crop" json:"favorite_crop"`
	FavoriteDish string    `yaml:"favorite_dish" json:"favorite_dish"`
	Reactions    Reactions `yaml:"reactions" json:"reactions"`

	// Events are story scenes keyed by the heart level that opens them
	Events map[int]string `yaml:"events" json:"events"`
}

// EventThresholds returns the heart levels that open an event, ascending
func (n NPC) EventThresholds() []int {
	out := make([]int, 0, len(n.Events))
	for heart := range n.Events {
		out = append(out, heart)
	}
	slices.Sort(out)
	return out
}

// PlotRule is the level at which a plot opens
type PlotRule struct {
	ID          int `yaml:"id" validate:"gt=0"`
	UnlockLevel int `yaml:"unlock_level" validate:"gte=1"`
}

// Tables is the read-only content the engine runs on
type Tables struct {
	items     map[string]Item
	itemOrder []string
	recipes   map[string]string
	chapters  []Chapter
	npcs      map[string]NPC
	npcOrder  []string
	plots     []PlotRule

	Buffs *buff.Catalogue
}

// NewTables indexes the raw documents and checks their cross references.
func NewTables(items []Item, buffs []buff.Buff, recipes []Recipe, chapters []Chapter, npcs []NPC, plots []PlotRule) (*Tables, error) {
	t := &Tables{
		items:   make(map[string]Item, len(items)),
		recipes: make(map[string]string, len(recipes)),
		npcs:    make(map[string]NPC, len(npcs)),
	}

	for _, it := range items {
		if _, dup := t.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id: %s", it.ID)
		}
		t.items[it.ID] = it
		t.itemOrder = append(t.itemOrder, it.ID)
	}
	for _, it := range items {
		if it.Kind != KindSeed || it.Mystery {
			continue
		}
		out, ok := t.items[it.Output]
		if !ok || out.Kind != KindCrop {
			return nil, fmt.Errorf("seed %s grows unknown crop %q", it.ID, it.Output)
		}
	}

	for _, r := range recipes {
		if len(r.Ingredients) != 2 {
			return nil, fmt.Errorf("recipe for %s needs exactly two ingredients", r.Dish)
		}
		a, b := r.Ingredients[0], r.Ingredients[1]
		if a == b {
			return nil, fmt.Errorf("recipe for %s needs two different ingredients", r.Dish)
		}
		for _, id := range []string{a, b, r.Dish} {
			if _, ok := t.items[id]; !ok {
				return nil, fmt.Errorf("recipe for %s references unknown item %q", r.Dish, id)
			}
		}
		t.recipes[recipeKey(a, b)] = r.Dish
	}

	catalogue, err := buff.NewCatalogue(buffs)
	if err != nil {
		return nil, err
	}
	if catalogue.Len() < DailyChoiceCount {
		return nil, fmt.Errorf("buff catalogue needs at least %d entries, has %d", DailyChoiceCount, catalogue.Len())
	}
	t.Buffs = catalogue

	t.chapters = slices.Clone(chapters)
	slices.SortStableFunc(t.chapters, func(a, b Chapter) int { return a.UnlockLevel - b.UnlockLevel })

	for _, n := range npcs {
		if _, dup := t.npcs[n.ID]; dup {
			return nil, fmt.Errorf("duplicate npc id: %s", n.ID)
		}
		for heart, title := range n.Events {
			if heart <= 0 || heart > n.MaxHeart {
				return nil, fmt.Errorf("npc %s has an event at heart %d outside 1..%d", n.ID, heart, n.MaxHeart)
			}
			if title == "" {
				return nil, fmt.Errorf("npc %s has an untitled event at heart %d", n.ID, heart)
			}
		}
		t.npcs[n.ID] = n
		t.npcOrder = append(t.npcOrder, n.ID)
	}
	if len(t.npcOrder) == 0 {
		return nil, errors.New("at least one npc is required")
	}

	t.plots = slices.Clone(plots)
	slices.SortFunc(t.plots, func(a, b PlotRule) int { return a.ID - b.ID })

	return t, nil
}

func recipeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "+" + b
}

// Item looks up an item by id
func (t *Tables) Item(id string) (Item, bool) {
	it, ok := t.items[id]
	return it, ok
}

// Items returns all items in table order
func (t *Tables) Items() []Item {
	out := make([]Item, 0, len(t.itemOrder))
	for _, id := range t.itemOrder {
		out = append(out, t.items[id])
	}
	return out
}

// ItemsOfKind returns the items of one kind in table order
func (t *Tables) ItemsOfKind(kind string) []Item {
	var out []Item
	for _, id := range t.itemOrder {
		if it := t.items[id]; it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// MarketCrops returns the crops whose price walks on the market.
func (t *Tables) MarketCrops() []market.Crop {
	var out []market.Crop
	for _, it := range t.ItemsOfKind(KindCrop) {
		if !it.FixedPrice {
			out = append(out, market.Crop{ID: it.ID, BasePrice: it.SellPrice})
		}
	}
	return out
}

// OrdinaryCrops returns the crops an ordinary seed can grow. Mystery seeds
// pick uniformly among these.
func (t *Tables) OrdinaryCrops() []string {
	var out []string
	for _, it := range t.ItemsOfKind(KindSeed) {
		if !it.Mystery && !slices.Contains(out, it.Output) {
			out = append(out, it.Output)
		}
	}
	return out
}

// Recipe returns the dish two ingredients make, in either order.
func (t *Tables) Recipe(a, b string) (string, bool) {
	dish, ok := t.recipes[recipeKey(a, b)]
	return dish, ok
}

// Chapters returns story chapters ordered by unlock level
func (t *Tables) Chapters() []Chapter {
	return t.chapters
}

// Chapter looks up a chapter by id
func (t *Tables) Chapter(id int) (Chapter, bool) {
	for _, c := range t.chapters {
		if c.ID == id {
			return c, true
		}
	}
	return Chapter{}, false
}

// NPC looks up an NPC by id
func (t *Tables) NPC(id string) (NPC, bool) {
	n, ok := t.npcs[id]
	return n, ok
}

// NPCIDs returns NPC ids in table order
func (t *Tables) NPCIDs() []string {
	return t.npcOrder
}

// Plots returns plot unlock rules ordered by plot id
func (t *Tables) Plots() []PlotRule {
	return t.plots
}

// DefaultInventory is the bag a new game starts with: every item with a
// starting count, and a zero count for every crop, dish and piece of
// furniture.
func (t *Tables) DefaultInventory() map[string]int {
	inv := make(map[string]int)
	for _, it := range t.Items() {
		switch {
		case it.StartingCount > 0:
			inv[it.ID] = it.StartingCount
		case it.Kind == KindCrop, it.Kind == KindDish, it.Kind == KindFurniture:
			inv[it.ID] = 0
		}
	}
	return inv
}
