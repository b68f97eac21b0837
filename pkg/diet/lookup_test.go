package diet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDiet(t *testing.T) {
	cases := map[string]Diet{
		"Non-Vegetarian": DietNonVegetarian,
		"non_veg":        DietNonVegetarian,
		"Vegetarian":     DietVegetarian,
		"VEG":            DietVegetarian,
		"vegan":          DietVegan,
		"Pescatarian":    DietPescatarian,
		"eggetarian":     DietEggetarian,
		"carnivore":      DietUnrecognized,
		"":               DietUnrecognized,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDiet(in), in)
	}
}

func TestNormalizeRegion(t *testing.T) {
	cases := map[string]Region{
		"India":    RegionIndia,
		"USA":      RegionNorthAmerica,
		"Canada":   RegionNorthAmerica,
		"England":  RegionUK,
		"Japan":    RegionJapan,
		"china":    RegionChina,
		"Atlantis": RegionUnrecognized,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeRegion(in), in)
	}
}

func TestNormalizeGoal(t *testing.T) {
	assert.Equal(t, GoalLoss, NormalizeGoal("Weight Loss"))
	assert.Equal(t, GoalLoss, NormalizeGoal("lose fat"))
	assert.Equal(t, GoalGain, NormalizeGoal("Muscle building"))
	assert.Equal(t, GoalMaintain, NormalizeGoal("stay healthy"))
}

func TestLookup_NeverEmpty(t *testing.T) {
	stages := []Stage{StageProfile, StageHealth, StageCalories, StageDietary, StageRegional, StageComplete, Stage("unknown")}
	diets := []Diet{DietVegetarian, DietVegan, DietNonVegetarian, DietPescatarian, DietEggetarian, DietUnrecognized}
	regions := []Region{RegionIndia, RegionNorthAmerica, RegionUK, RegionJapan, RegionChina, RegionUnrecognized}
	goals := []Goal{GoalLoss, GoalGain, GoalMaintain}

	for _, slot := range append(Slots, Slot("Brunch")) {
		for _, stage := range stages {
			for _, d := range diets {
				for _, r := range regions {
					for _, g := range goals {
						if Lookup(slot, stage, d, r, g) == "" {
							t.Fatalf("empty food for %s/%s/%s/%s/%s", slot, stage, d, r, g)
						}
					}
				}
			}
		}
	}
}

func TestLookupText_UnknownRegionAndDiet(t *testing.T) {
	for _, slot := range Slots {
		assert.NotEmpty(t, LookupText(slot, StageRegional, "carnivore", "Atlantis", "weight loss"))
		assert.NotEmpty(t, LookupText(slot, StageComplete, "carnivore", "Atlantis", "weight loss"))
	}
}

func TestLookup_CompletePlan(t *testing.T) {
	food := Lookup(SlotBreakfast, StageComplete, DietVegetarian, RegionIndia, GoalLoss)
	assert.Equal(t, "Vegetable upma (3/4 cup), green tea (1 cup), cucumber slices (1/2 cup)", food)

	food = Lookup(SlotBreakfast, StageComplete, DietNonVegetarian, RegionIndia, GoalLoss)
	assert.Contains(t, food, "Egg white omelette")
}

func TestLookup_DietaryStage(t *testing.T) {
	assert.Equal(t, "Lentil curry with brown rice and vegetables", Lookup(SlotLunch, StageDietary, DietVegan, RegionIndia, GoalLoss))
	assert.Equal(t, "Grilled chicken with quinoa and vegetables", Lookup(SlotLunch, StageDietary, DietNonVegetarian, RegionIndia, GoalLoss))
	assert.Equal(t, "Balanced protein and carb meal", Lookup(SlotLunch, StageDietary, DietUnrecognized, RegionIndia, GoalLoss))
}
