package diet

import "strings"

// Region は地域の閉じたタグ集合です。
type Region string

const (
	RegionIndia        Region = "India"
	RegionNorthAmerica Region = "NorthAmerica"
	RegionUK           Region = "UK"
	RegionJapan        Region = "Japan"
	RegionChina        Region = "China"
	RegionUnrecognized Region = "Unrecognized"
)

// Diet は食事スタイルの閉じたタグ集合です。
type Diet string

const (
	DietVegetarian    Diet = "Vegetarian"
	DietVegan         Diet = "Vegan"
	DietNonVegetarian Diet = "NonVegetarian"
	DietPescatarian   Diet = "Pescatarian"
	DietEggetarian    Diet = "Eggetarian"
	DietUnrecognized  Diet = "Unrecognized"
)

// Goal は目標の閉じたタグ集合です。
type Goal string

const (
	GoalLoss     Goal = "Loss"
	GoalGain     Goal = "Gain"
	GoalMaintain Goal = "Maintain"
)

// Stage は食品表を引く段階です。
type Stage string

const (
	StageProfile  Stage = "profile"
	StageHealth   Stage = "health"
	StageCalories Stage = "calories"
	StageDietary  Stage = "dietary"
	StageRegional Stage = "regional"
	StageComplete Stage = "complete"
)

type tokenRule[T any] struct {
	tag    T
	tokens []string
}

// 先頭から順に評価します。
var regionRules = []tokenRule[Region]{
	{RegionIndia, []string{"india"}},
	{RegionNorthAmerica, []string{"usa", "canada", "america"}},
	{RegionUK, []string{"uk", "britain", "england"}},
	{RegionJapan, []string{"japan"}},
	{RegionChina, []string{"china"}},
}

// "non-vegetarian" は "vegetarian" を含むため先に評価します。
var dietRules = []tokenRule[Diet]{
	{DietNonVegetarian, []string{"non-veg", "non_veg", "nonveg", "non veg"}},
	{DietVegan, []string{"vegan"}},
	{DietPescatarian, []string{"pescatarian"}},
	{DietEggetarian, []string{"eggetarian"}},
	{DietVegetarian, []string{"vegetarian", "veg"}},
}

var goalRules = []tokenRule[Goal]{
	{GoalLoss, []string{"loss", "lose"}},
	{GoalGain, []string{"gain", "muscle"}},
}

func normalize[T any](text string, rules []tokenRule[T], fallback T) T {
	s := strings.ToLower(text)
	for _, r := range rules {
		if containsAny(s, r.tokens...) {
			return r.tag
		}
	}
	return fallback
}

// NormalizeRegion は自由入力の地域をタグに変換します。一致しなければ RegionUnrecognized です。
func NormalizeRegion(text string) Region {
	return normalize(text, regionRules, RegionUnrecognized)
}

// NormalizeDiet は自由入力の食事スタイルをタグに変換します。一致しなければ DietUnrecognized です。
func NormalizeDiet(text string) Diet {
	return normalize(text, dietRules, DietUnrecognized)
}

// NormalizeGoal は自由入力の目標をタグに変換します。一致しなければ GoalMaintain です。
func NormalizeGoal(text string) Goal {
	return normalize(text, goalRules, GoalMaintain)
}

// plantBased はベジタリアン系の表を使う食事スタイルです。
func plantBased(d Diet) bool {
	return d == DietVegetarian || d == DietVegan
}

// Lookup は食事枠・段階・タグから食品の説明を返します。どの組み合わせでも空文字は返しません。
func Lookup(slot Slot, stage Stage, diet Diet, region Region, goal Goal) string {
	var food string
	switch stage {
	case StageProfile, StageHealth, StageCalories:
		food = stageFoods[slot][stage]
	case StageDietary:
		food = dietaryFood(slot, diet)
	case StageRegional:
		food = regionalFood(slot, diet, region)
	case StageComplete:
		food = completeFood(slot, diet, region, goal)
	}
	if food == "" {
		return defaultFood
	}
	return food
}

// LookupText は自由入力のまま Lookup を呼び出します。
func LookupText(slot Slot, stage Stage, dietText, regionText, goalText string) string {
	return Lookup(slot, stage, NormalizeDiet(dietText), NormalizeRegion(regionText), NormalizeGoal(goalText))
}

func dietaryFood(slot Slot, diet Diet) string {
	row := dietaryFoods[slot]
	group := dietNonVegetarian
	switch {
	case plantBased(diet):
		group = dietPlant
	case diet != DietNonVegetarian:
		group = dietOther
	}
	return row[group]
}

func regionalFood(slot Slot, diet Diet, region Region) string {
	cell, ok := regionalFoods[region][slot]
	if !ok {
		cell = regionalFoods[RegionUnrecognized][slot]
	}
	switch {
	case plantBased(diet) && cell.plant != "":
		return cell.plant
	case diet == DietNonVegetarian && cell.meat != "":
		return cell.meat
	}
	return cell.other
}

func completeFood(slot Slot, diet Diet, region Region, goal Goal) string {
	byGoal, ok := completeFoods[region][slot]
	if !ok {
		byGoal = completeFoods[RegionUnrecognized][slot]
	}
	cell := byGoal[goal]
	if plantBased(diet) && cell.plant != "" {
		return cell.plant
	}
	return cell.other
}
