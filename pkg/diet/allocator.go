package diet

import (
	"fmt"
	"math"
	"strings"
)

// Slot は1日の食事枠です。
type Slot string

const (
	SlotBreakfast  Slot = "Breakfast"
	SlotMidMorning Slot = "Mid-Morning"
	SlotLunch      Slot = "Lunch"
	SlotEvening    Slot = "Evening"
	SlotDinner     Slot = "Dinner"
)

// Slots は食事枠を時系列順に並べたものです。
var Slots = []Slot{SlotBreakfast, SlotMidMorning, SlotLunch, SlotEvening, SlotDinner}

// 基本配分。合計は1.0です。
var baseSplit = map[Slot]float64{
	SlotBreakfast:  0.25,
	SlotMidMorning: 0.10,
	SlotLunch:      0.35,
	SlotEvening:    0.10,
	SlotDinner:     0.20,
}

var slotTimes = map[Slot]string{
	SlotBreakfast:  "7:00 AM",
	SlotMidMorning: "10:30 AM",
	SlotLunch:      "1:00 PM",
	SlotEvening:    "4:00 PM",
	SlotDinner:     "7:00 PM",
}

// SlotShare は食事枠の基本配分率を返します。未知の枠は0です。
func SlotShare(slot Slot) float64 {
	return baseSplit[slot]
}

// SlotTime は食事枠の既定の時刻ラベルを返します。
func SlotTime(slot Slot) string {
	if t, ok := slotTimes[slot]; ok {
		return t
	}
	return "12:00 PM"
}

// Allocate は目標カロリーを基本配分で食事枠に割り当てます。枠ごとに四捨五入し、端数は再配分しません。
func Allocate(target float64, slot Slot) int {
	return roundInt(target * baseSplit[slot])
}

// SlotCalories は食事枠ごとの割り当てです。
type SlotCalories struct {
	Slot     Slot `json:"slot"`
	Calories int  `json:"calories"`
}

// AllocateAll は全食事枠の基本割り当てを返します。
func AllocateAll(target float64) []SlotCalories {
	out := make([]SlotCalories, 0, len(Slots))
	for _, s := range Slots {
		out = append(out, SlotCalories{Slot: s, Calories: Allocate(target, s)})
	}
	return out
}

// HealthFactor はBMI区分による補正係数です。
func HealthFactor(category BMICategory) float64 {
	switch category {
	case CategoryUnderweight:
		return 1.10
	case CategoryOverweight, CategoryObese:
		return 0.90
	default:
		return 1.0
	}
}

// GoalFactor は目標の文章による補正係数です。
func GoalFactor(goal string) float64 {
	switch NormalizeGoal(goal) {
	case GoalLoss:
		return 0.85
	case GoalGain:
		return 1.15
	default:
		return 1.0
	}
}

// AdjustMode は健康補正と目標補正の組み合わせ方です。
type AdjustMode string

const (
	// AdjustReset は各段階で未補正の基本値に係数を掛け直します。後の段階が前の結果を上書きします。
	AdjustReset AdjustMode = "reset"
	// AdjustCompose は係数を掛け合わせます。
	AdjustCompose AdjustMode = "compose"
)

// ParseAdjustMode は設定値を解釈します。空文字は AdjustReset です。
func ParseAdjustMode(s string) (AdjustMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AdjustReset):
		return AdjustReset, nil
	case string(AdjustCompose):
		return AdjustCompose, nil
	default:
		return AdjustReset, fmt.Errorf("unknown adjust mode %q", s)
	}
}

// AdjustStage は補正を行う段階です。
type AdjustStage int

const (
	StageHealthAdjust AdjustStage = iota + 1
	StageGoalAdjust
)

// Allocator は食事枠のカロリー補正を行います。
type Allocator struct {
	Mode AdjustMode
}

// Adjust は基本値に指定段階の補正を適用します。
func (a Allocator) Adjust(base int, category BMICategory, goal string, stage AdjustStage) int {
	hf := HealthFactor(category)
	if stage == StageHealthAdjust {
		return roundInt(float64(base) * hf)
	}
	gf := GoalFactor(goal)
	if a.Mode == AdjustCompose {
		return roundInt(float64(base) * hf * gf)
	}
	return roundInt(float64(base) * gf)
}

// AdjustedSlots は全食事枠の基本値に指定段階の補正を適用した結果を返します。
func (a Allocator) AdjustedSlots(target float64, category BMICategory, goal string, stage AdjustStage) []SlotCalories {
	slots := AllocateAll(target)
	for i := range slots {
		slots[i].Calories = a.Adjust(slots[i].Calories, category, goal, stage)
	}
	return slots
}

// SumSlots は割り当ての合計です。
func SumSlots(slots []SlotCalories) int {
	total := 0
	for _, s := range slots {
		total += s.Calories
	}
	return total
}

// MacroRatio はたんぱく質・炭水化物・脂質のカロリー比率です。
type MacroRatio struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// Macros はグラム換算したPFCです。
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Grams はカロリーをPFCのグラムに換算します。たんぱく質と炭水化物は4kcal/g、脂質は9kcal/gです。
func (r MacroRatio) Grams(calories float64) Macros {
	return Macros{
		Protein: roundInt(calories * r.Protein / 4),
		Carbs:   roundInt(calories * r.Carbs / 4),
		Fat:     roundInt(calories * r.Fat / 9),
	}
}

func (m Macros) String() string {
	return fmt.Sprintf("P: %dg, C: %dg, F: %dg", m.Protein, m.Carbs, m.Fat)
}

// 段階1から5で使う比率
var baseMacroRatios = map[Slot]MacroRatio{
	SlotBreakfast:  {0.25, 0.45, 0.30},
	SlotMidMorning: {0.20, 0.60, 0.20},
	SlotLunch:      {0.25, 0.45, 0.30},
	SlotEvening:    {0.25, 0.50, 0.25},
	SlotDinner:     {0.35, 0.35, 0.30},
}

// 段階6の食事表で使う比率
var planMacroRatios = map[Slot]MacroRatio{
	SlotBreakfast:  {0.25, 0.50, 0.25},
	SlotMidMorning: {0.20, 0.60, 0.20},
	SlotLunch:      {0.30, 0.45, 0.25},
	SlotEvening:    {0.25, 0.55, 0.20},
	SlotDinner:     {0.35, 0.35, 0.30},
}

// 書き出し用の完成プランで使う比率
var optimizedMacroRatios = map[Slot]MacroRatio{
	SlotBreakfast:  {0.25, 0.45, 0.30},
	SlotMidMorning: {0.20, 0.60, 0.20},
	SlotLunch:      {0.25, 0.45, 0.30},
	SlotEvening:    {0.20, 0.60, 0.20},
	SlotDinner:     {0.35, 0.35, 0.30},
}

var defaultMacroRatio = MacroRatio{0.25, 0.45, 0.30}

// BaseMacros は食事枠の基本比率でPFCを計算します。
func BaseMacros(calories int, slot Slot) Macros {
	r, ok := baseMacroRatios[slot]
	if !ok {
		r = defaultMacroRatio
	}
	return r.Grams(float64(calories))
}

// PlanMacros は段階6の食事表の比率でPFCを計算します。未知の食事枠は朝食の比率です。
func PlanMacros(calories int, slot Slot) Macros {
	r, ok := planMacroRatios[slot]
	if !ok {
		r = planMacroRatios[SlotBreakfast]
	}
	return r.Grams(float64(calories))
}

// OptimizedMacros は書き出し用の完成プランの比率でPFCを計算します。
func OptimizedMacros(calories int, slot Slot) Macros {
	r, ok := optimizedMacroRatios[slot]
	if !ok {
		r = defaultMacroRatio
	}
	return r.Grams(float64(calories))
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
