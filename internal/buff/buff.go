package buff

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Effect is the payload of a buff. Each concrete type carries only the
// fields its effect needs; consumers type-switch on it.
type Effect interface {
	isEffect()
}

// GrowthBoost speeds up crop growth, optionally at the risk of wilting.
type GrowthBoost struct {
	SpeedBonus float64 `yaml:"speed_bonus" json:"speed_bonus"`
	WiltChance float64 `yaml:"wilt_chance" json:"wilt_chance"`
}

// CropPriceBoost raises the sell price of selected crops.
type CropPriceBoost struct {
	Crops []string `yaml:"crops" json:"crops"`
	Bonus float64  `yaml:"bonus" json:"bonus"`
}

// WarehouseResize changes warehouse capacity for the day. A shrink may be
// compensated by a sell bonus.
type WarehouseResize struct {
	Slots     int     `yaml:"slots" json:"slots"`
	SellBonus float64 `yaml:"sell_bonus" json:"sell_bonus"`
}

// SeedDiscount lowers seed prices.
type SeedDiscount struct {
	Discount float64 `yaml:"discount" json:"discount"`
}

// ExpBoost raises harvest experience.
type ExpBoost struct {
	Bonus float64 `yaml:"bonus" json:"bonus"`
}

// Inflation raises sell prices and seed prices together.
type Inflation struct {
	SellBonus   float64 `yaml:"sell_bonus" json:"sell_bonus"`
	SeedPenalty float64 `yaml:"seed_penalty" json:"seed_penalty"`
}

// BlackMarket multiplies the price of one crop and floors every other
// market crop to 1 coin.
type BlackMarket struct {
	Crop  string  `yaml:"crop" json:"crop"`
	Bonus float64 `yaml:"bonus" json:"bonus"`
}

// Overdraft multiplies harvest quantity but grants no harvest experience.
type Overdraft struct {
	HarvestMultiplier int `yaml:"harvest_multiplier" json:"harvest_multiplier"`
}

// MysteryOdds replaces the weed and golden odds of mystery seeds. A nil
// chance keeps the default; zero is a real override.
type MysteryOdds struct {
	WeedChance   *float64 `yaml:"weed_chance" json:"weed_chance,omitempty"`
	GoldenChance *float64 `yaml:"golden_chance" json:"golden_chance,omitempty"`
}

// GoldenTouch replaces the golden crop chance.
type GoldenTouch struct {
	Chance float64 `yaml:"chance" json:"chance"`
}

// FixedItemPrice overrides the price of one fixed-price item.
type FixedItemPrice struct {
	Item  string `yaml:"item" json:"item"`
	Price int    `yaml:"price" json:"price"`
}

// FuturesContract pays coins immediately and penalises the next day's prices.
type FuturesContract struct {
	InstantCoins    int     `yaml:"instant_coins" json:"instant_coins"`
	TomorrowPenalty float64 `yaml:"tomorrow_penalty" json:"tomorrow_penalty"`
}

// MysteryGift grants one seed for every Threshold crops sold.
type MysteryGift struct {
	Threshold int    `yaml:"threshold" json:"threshold"`
	Seed      string `yaml:"seed" json:"seed"`
}

func (GrowthBoost) isEffect()     {}
func (CropPriceBoost) isEffect()  {}
func (WarehouseResize) isEffect() {}
func (SeedDiscount) isEffect()    {}
func (ExpBoost) isEffect()        {}
func (Inflation) isEffect()       {}
func (BlackMarket) isEffect()     {}
func (Overdraft) isEffect()       {}
func (MysteryOdds) isEffect()     {}
func (GoldenTouch) isEffect()     {}
func (FixedItemPrice) isEffect()  {}
func (FuturesContract) isEffect() {}
func (MysteryGift) isEffect()     {}

// Buff is one entry of the buff catalogue
type Buff struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Effect      Effect `json:"effect"`
}

var effectKinds = map[string]func(*yaml.Node) (Effect, error){
	"growth_boost":     decodeEffect[GrowthBoost],
	"crop_price_boost": decodeEffect[CropPriceBoost],
	"warehouse_resize": decodeEffect[WarehouseResize],
	"seed_discount":    decodeEffect[SeedDiscount],
	"exp_boost":        decodeEffect[ExpBoost],
	"inflation":        decodeEffect[Inflation],
	"black_market":     decodeEffect[BlackMarket],
	"overdraft":        decodeEffect[Overdraft],
	"mystery_odds":     decodeEffect[MysteryOdds],
	"golden_touch":     decodeEffect[GoldenTouch],
	"fixed_item_price": decodeEffect[FixedItemPrice],
	"futures_contract": decodeEffect[FuturesContract],
	"mystery_gift":     decodeEffect[MysteryGift],
}

func decodeEffect[T Effect](node *yaml.Node) (Effect, error) {
	var e T
	if err := node.Decode(&e); err != nil {
		return nil, err
	}
	return e, nil
}

// UnmarshalYAML decodes a buff whose effect is selected by its "kind" key.
func (b *Buff) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		ID          string    `yaml:"id"`
		Name        string    `yaml:"name"`
		Emoji       string    `yaml:"emoji"`
		Description string    `yaml:"description"`
		Effect      yaml.Node `yaml:"effect"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := raw.Effect.Decode(&head); err != nil {
		return fmt.Errorf("buff %s: %w", raw.ID, err)
	}
	decode, ok := effectKinds[head.Kind]
	if !ok {
		return fmt.Errorf("buff %s: unknown effect kind %q", raw.ID, head.Kind)
	}
	effect, err := decode(&raw.Effect)
	if err != nil {
		return fmt.Errorf("buff %s: %w", raw.ID, err)
	}

	*b = Buff{
		ID:          raw.ID,
		Name:        raw.Name,
		Emoji:       raw.Emoji,
		Description: raw.Description,
		Effect:      effect,
	}
	return nil
}

// Source is the randomness the catalogue draws from
type Source interface {
	Intn(n int) int
}

// Catalogue is the immutable set of buffs offered each day
type Catalogue struct {
	buffs []Buff
	index map[string]int
}

// NewCatalogue builds a catalogue, rejecting duplicate ids and buffs without an effect.
func NewCatalogue(buffs []Buff) (*Catalogue, error) {
	c := &Catalogue{
		buffs: make([]Buff, 0, len(buffs)),
		index: make(map[string]int, len(buffs)),
	}
	for _, b := range buffs {
		if b.ID == "" {
			return nil, errors.New("buff id is required")
		}
		if b.Effect == nil {
			return nil, fmt.Errorf("buff %s has no effect", b.ID)
		}
		if _, dup := c.index[b.ID]; dup {
			return nil, fmt.Errorf("duplicate buff id: %s", b.ID)
		}
		c.index[b.ID] = len(c.buffs)
		c.buffs = append(c.buffs, b)
	}
	return c, nil
}

// Get looks up a buff by id
func (c *Catalogue) Get(id string) (Buff, bool) {
	i, ok := c.index[id]
	if !ok {
		return Buff{}, false
	}
	return c.buffs[i], true
}

// Len returns the catalogue size
func (c *Catalogue) Len() int {
	return len(c.buffs)
}

// IDs returns all buff ids in catalogue order
func (c *Catalogue) IDs() []string {
	ids := make([]string, len(c.buffs))
	for i, b := range c.buffs {
		ids[i] = b.ID
	}
	return ids
}

// Draw picks n distinct buff ids uniformly without replacement.
func (c *Catalogue) Draw(src Source, n int) []string {
	ids := c.IDs()
	if n > len(ids) {
		n = len(ids)
	}
	// partial Fisher-Yates
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:n]
}
