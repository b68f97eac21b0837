package diet

import (
	"encoding/json"
	"strings"
)

// ExtractTier は最終食事表をどの情報から作ったかを表します。
type ExtractTier int

const (
	TierChart    ExtractTier = iota + 1 // 段階の食事表
	TierInsight                         // 分析結果からの再構成
	TierFallback                        // 固定の3食プラン
)

// NormalizedMealPlan は保存・出力用に正規化した食事表です。
type NormalizedMealPlan struct {
	Meals         []MealEntry `json:"meals"`
	Refinements   []string    `json:"refinements"`
	TotalCalories int         `json:"totalCalories"`
	ChartType     string      `json:"chartType"`
	StepLevel     int         `json:"stepLevel"`
	Tier          ExtractTier `json:"-"`
}

var insightRefinements = []string{
	"Step 1: Basic profile-based meal structure created",
	"Step 2: Health-optimized portions and nutrient timing",
	"Step 3: Calorie distribution optimized",
	"Step 4: Food choices aligned with preferences",
	"Step 5: Regional foods integrated",
	"Step 6: Complete meal plan with detailed portions and timing",
}

// ExtractFinal は実行結果から最終食事表を取り出します。失敗することはなく、情報が足りないほど簡素な表になります。
func ExtractFinal(st *State) NormalizedMealPlan {
	if st != nil {
		if chart, ok := st.LastChart(); ok && len(chart.Meals) > 0 {
			c := chart.clone()
			return NormalizedMealPlan{
				Meals:         c.Meals,
				Refinements:   c.Refinements,
				TotalCalories: SumMeals(c.Meals),
				ChartType:     c.ChartType,
				StepLevel:     c.StepLevel,
				Tier:          TierChart,
			}
		}
		if plan, ok := fromInsight(st.Insight); ok {
			return plan
		}
	}
	return basicPlan()
}

// fromInsight は食事スケジュール、なければ目標カロリーから食事表を組み立てます。
func fromInsight(in Insight) (NormalizedMealPlan, bool) {
	var schedule []ScheduledMeal
	switch {
	case in.MealPlan != nil && len(in.MealPlan.Schedule) > 0:
		schedule = in.MealPlan.Schedule
	case in.Calories != nil && in.Calories.TargetCalories > 0:
		schedule = MealScheduleFor(in.Calories.TargetCalories)
	default:
		return NormalizedMealPlan{}, false
	}
	meals := make([]MealEntry, 0, len(schedule))
	for _, s := range schedule {
		meals = append(meals, MealEntry{
			Time:     s.Time,
			Name:     s.Slot,
			Calories: s.Calories,
			Foods:    DetailedMealPlan(s.Slot, in),
			Macros:   OptimizedMacros(s.Calories, s.Slot).String(),
		})
	}
	return NormalizedMealPlan{
		Meals:         meals,
		Refinements:   append([]string(nil), insightRefinements...),
		TotalCalories: SumMeals(meals),
		ChartType:     "AI-Generated-Complete-Plan",
		StepLevel:     6,
		Tier:          TierInsight,
	}, true
}

func basicPlan() NormalizedMealPlan {
	meals := []MealEntry{
		{Time: "7:00 AM", Name: SlotBreakfast, Calories: 500, Foods: "Basic breakfast plan", Macros: "P: 20g, C: 60g, F: 15g"},
		{Time: "1:00 PM", Name: SlotLunch, Calories: 700, Foods: "Basic lunch plan", Macros: "P: 30g, C: 80g, F: 20g"},
		{Time: "7:00 PM", Name: SlotDinner, Calories: 600, Foods: "Basic dinner plan", Macros: "P: 25g, C: 70g, F: 18g"},
	}
	return NormalizedMealPlan{
		Meals:         meals,
		Refinements:   []string{"Basic diet chart structure"},
		TotalCalories: 1800,
		ChartType:     "Basic-Fallback",
		StepLevel:     1,
		Tier:          TierFallback,
	}
}

// ChartData は保存する食事表のデータです。
type ChartData struct {
	Meals             NormalizedMealPlan `json:"meals"`
	TargetCalories    int                `json:"target_calories"`
	OptimizationNotes string             `json:"optimization_notes"`
}

// SaveData は実行結果から保存用のデータを作ります。
func SaveData(st *State) ChartData {
	plan := ExtractFinal(st)
	data := ChartData{Meals: plan, TargetCalories: plan.TotalCalories}
	if st != nil {
		data.TargetCalories = st.Insight.TargetCalories()
		if st.Insight.Optimization != nil {
			data.OptimizationNotes = st.Insight.Optimization.Summary
		}
	}
	return data
}

// ParseSavedChart は保存済みの食事表データから食事と最適化メモを取り出します。
// 保存形式({"meals":{"meals":[...]}})と統合形式({"meals":[...]})の両方を受け付け、解釈できない場合は空を返します。
func ParseSavedChart(data []byte) (meals []MealEntry, notes []string) {
	var raw struct {
		Meals             json.RawMessage `json:"meals"`
		OptimizationNotes json.RawMessage `json:"optimization_notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	if err := json.Unmarshal(raw.Meals, &meals); err != nil {
		var nested struct {
			Meals []MealEntry `json:"meals"`
		}
		if json.Unmarshal(raw.Meals, &nested) == nil {
			meals = nested.Meals
		}
	}
	var list []string
	var text string
	switch {
	case json.Unmarshal(raw.OptimizationNotes, &list) == nil:
		notes = list
	case json.Unmarshal(raw.OptimizationNotes, &text) == nil && strings.TrimSpace(text) != "":
		notes = strings.Split(strings.TrimSpace(text), "\n")
	}
	return meals, notes
}
