package buff

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/user/fairy-farm/internal/types"
)

func TestSellPriceWithDebuff(t *testing.T) {
	a := Active{
		Effect: Inflation{SellBonus: 0.5},
		Debuff: &types.Debuff{PricePenalty: 0.5},
	}

	// round(round(50*1.5)*0.5) = round(37.5) = 38
	assert.Equal(t, 38, SellPrice(a, "crop_tomato", false, 50))
}

func TestGrowTimeWithBoost(t *testing.T) {
	a := Active{Effect: GrowthBoost{SpeedBonus: 0.2}}
	assert.Equal(t, 33, GrowTime(a, 40))

	// Never below one second
	a = Active{Effect: GrowthBoost{SpeedBonus: 2.0}}
	assert.Equal(t, 1, GrowTime(a, 1))

	assert.Equal(t, 40, GrowTime(Active{}, 40))
}

func TestSellPrice(t *testing.T) {
	tests := []struct {
		name   string
		active Active
		item   string
		fixed  bool
		base   int
		want   int
	}{
		{"no buff", Active{}, "crop_turnip", false, 20, 20},
		{"crop boost hit", Active{Effect: CropPriceBoost{Crops: []string{"crop_tomato"}, Bonus: 0.2}}, "crop_tomato", false, 50, 60},
		{"crop boost miss", Active{Effect: CropPriceBoost{Crops: []string{"crop_tomato"}, Bonus: 0.2}}, "crop_turnip", false, 20, 20},
		{"black market favoured", Active{Effect: BlackMarket{Crop: "crop_potato", Bonus: 2.0}}, "crop_potato", false, 35, 105},
		{"black market others", Active{Effect: BlackMarket{Crop: "crop_potato", Bonus: 2.0}}, "crop_pumpkin", false, 100, 1},
		{"picky selection", Active{Effect: WarehouseResize{Slots: -10, SellBonus: 0.3}}, "crop_corn", false, 65, 85},
		{"weed override", Active{Effect: FixedItemPrice{Item: "crop_weed", Price: 50}}, "crop_weed", true, 1, 50},
		{"fixed item ignores debuff", Active{Debuff: &types.Debuff{PricePenalty: 0.5}}, "crop_golden_apple", true, 500, 500},
		{"fixed item ignores sell bonus", Active{Effect: Inflation{SellBonus: 0.5}}, "crop_golden_apple", true, 500, 500},
		{"debuff alone", Active{Debuff: &types.Debuff{PricePenalty: 0.5}}, "crop_turnip", false, 3, 2},
		{"floor of one", Active{Debuff: &types.Debuff{PricePenalty: 0.1}}, "crop_turnip", false, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SellPrice(tt.active, tt.item, tt.fixed, tt.base))
		})
	}
}

func TestSeedPrice(t *testing.T) {
	assert.Equal(t, 20, SeedPrice(Active{}, 20))
	assert.Equal(t, 16, SeedPrice(Active{Effect: SeedDiscount{Discount: 0.2}}, 20))
	assert.Equal(t, 40, SeedPrice(Active{Effect: Inflation{SellBonus: 0.5, SeedPenalty: 1.0}}, 20))
	assert.Equal(t, 1, SeedPrice(Active{Effect: SeedDiscount{Discount: 1.0}}, 20))
}

func TestWarehouseCapacity(t *testing.T) {
	assert.Equal(t, 30, WarehouseCapacity(Active{}, 30))
	assert.Equal(t, 40, WarehouseCapacity(Active{Effect: WarehouseResize{Slots: 10}}, 30))
	assert.Equal(t, 20, WarehouseCapacity(Active{Effect: WarehouseResize{Slots: -10, SellBonus: 0.3}}, 30))
	assert.Equal(t, 0, WarehouseCapacity(Active{Effect: WarehouseResize{Slots: -50}}, 30))
}

func TestHarvestModifiers(t *testing.T) {
	assert.Equal(t, 13, HarvestExp(Active{Effect: ExpBoost{Bonus: 0.3}}, 10))
	assert.Equal(t, 0, HarvestExp(Active{Effect: Overdraft{}}, 30))
	assert.Equal(t, 10, HarvestExp(Active{}, 10))

	assert.Equal(t, 2, HarvestQuantity(Active{Effect: Overdraft{}}))
	assert.Equal(t, 3, HarvestQuantity(Active{Effect: Overdraft{HarvestMultiplier: 3}}))
	assert.Equal(t, 1, HarvestQuantity(Active{}))

	assert.Equal(t, 0.2, WiltChance(Active{Effect: GrowthBoost{SpeedBonus: 2, WiltChance: 0.2}}))
	assert.Equal(t, 0.0, WiltChance(Active{Effect: GrowthBoost{SpeedBonus: 0.2}}))

	assert.Equal(t, DefaultGoldenChance, GoldenChance(Active{}, DefaultGoldenChance))
	assert.Equal(t, 0.5, GoldenChance(Active{Effect: GoldenTouch{Chance: 0.5}}, DefaultGoldenChance))

	weed, golden := MysteryOutputChances(Active{Effect: MysteryOdds{WeedChance: chance(0.7), GoldenChance: chance(0.2)}}, DefaultMysteryWeedChance, DefaultMysteryGoldenChance)
	assert.Equal(t, 0.7, weed)
	assert.Equal(t, 0.2, golden)
}

func chance(v float64) *float64 { return &v }

func TestMysteryOddsOverrides(t *testing.T) {
	// Test case 1: zero is an override, not a missing value
	weed, golden := MysteryOutputChances(Active{Effect: MysteryOdds{WeedChance: chance(0), GoldenChance: chance(0)}}, DefaultMysteryWeedChance, DefaultMysteryGoldenChance)
	assert.Equal(t, 0.0, weed)
	assert.Equal(t, 0.0, golden)

	// Test case 2: an unset chance keeps the default
	weed, golden = MysteryOutputChances(Active{Effect: MysteryOdds{GoldenChance: chance(0.3)}}, DefaultMysteryWeedChance, DefaultMysteryGoldenChance)
	assert.Equal(t, DefaultMysteryWeedChance, weed)
	assert.Equal(t, 0.3, golden)

	// Test case 3: a zero override survives YAML decoding
	var b Buff
	require.NoError(t, yaml.Unmarshal([]byte("{id: no_weeds, name: No Weeds, effect: {kind: mystery_odds, weed_chance: 0}}"), &b))
	odds, ok := b.Effect.(MysteryOdds)
	require.True(t, ok)
	require.NotNil(t, odds.WeedChance)
	assert.Equal(t, 0.0, *odds.WeedChance)
	assert.Nil(t, odds.GoldenChance)
}

func TestSelectionEffects(t *testing.T) {
	futures := FuturesContract{InstantCoins: 200, TomorrowPenalty: 0.5}
	assert.Equal(t, 200, InstantCoins(futures))
	assert.Equal(t, &types.Debuff{PricePenalty: 0.5}, DeferredDebuff(futures))

	assert.Equal(t, 0, InstantCoins(GrowthBoost{}))
	assert.Nil(t, DeferredDebuff(GrowthBoost{}))

	threshold, seed, ok := MysteryGiftRule(MysteryGift{Threshold: 10, Seed: "seed_mystery"})
	assert.True(t, ok)
	assert.Equal(t, 10, threshold)
	assert.Equal(t, "seed_mystery", seed)

	_, _, ok = MysteryGiftRule(nil)
	assert.False(t, ok)
}

func TestUnmarshalBuffYAML(t *testing.T) {
	doc := `
- id: futures_contract
  name: Futures Contract
  emoji: "📈"
  effect:
    kind: futures_contract
    instant_coins: 200
    tomorrow_penalty: 0.5
- id: insider_info
  name: Insider Info
  effect:
    kind: crop_price_boost
    crops: [crop_tomato, crop_corn]
    bonus: 0.2
`
	var buffs []Buff
	require.NoError(t, yaml.Unmarshal([]byte(doc), &buffs))
	require.Len(t, buffs, 2)

	assert.Equal(t, FuturesContract{InstantCoins: 200, TomorrowPenalty: 0.5}, buffs[0].Effect)
	assert.Equal(t, CropPriceBoost{Crops: []string{"crop_tomato", "crop_corn"}, Bonus: 0.2}, buffs[1].Effect)

	// Unknown kinds are rejected
	err := yaml.Unmarshal([]byte("- id: x\n  effect:\n    kind: teleport\n"), &buffs)
	assert.Error(t, err)
}

func TestCatalogueDraw(t *testing.T) {
	buffs := make([]Buff, 0, 15)
	for i := 0; i < 15; i++ {
		buffs = append(buffs, Buff{ID: string(rune('a' + i)), Effect: Overdraft{}})
	}
	c, err := NewCatalogue(buffs)
	require.NoError(t, err)
	assert.Equal(t, 15, c.Len())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		choices := c.Draw(rng, 3)
		require.Len(t, choices, 3)
		seen := map[string]bool{}
		for _, id := range choices {
			_, ok := c.Get(id)
			assert.True(t, ok)
			assert.False(t, seen[id], "duplicate buff in draw")
			seen[id] = true
		}
	}

	// Drawing more than the catalogue holds returns everything
	assert.Len(t, c.Draw(rng, 20), 15)
}

func TestNewCatalogueRejectsDuplicates(t *testing.T) {
	_, err := NewCatalogue([]Buff{
		{ID: "sunny_day", Effect: GrowthBoost{SpeedBonus: 0.2}},
		{ID: "sunny_day", Effect: GrowthBoost{SpeedBonus: 0.2}},
	})
	assert.Error(t, err)

	_, err = NewCatalogue([]Buff{{ID: "empty"}})
	assert.Error(t, err)
}
