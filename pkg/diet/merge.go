package diet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoCharts は統合対象の食事表がないことを表します。
var ErrNoCharts = errors.New("no charts to merge")

// 統合時の目標
const (
	MergeWeightLoss          = "Weight Loss"
	MergeWeightGain          = "Weight Gain"
	MergeMuscleBuilding      = "Muscle Building"
	MergeMaintenance         = "Maintenance"
	MergeAthleticPerformance = "Athletic Performance"
)

// 食品データベースの嗜好キー
const (
	prefVegetarian    = "vegetarian"
	prefNonVegetarian = "non-vegetarian"
)

var mergeGoalOffsets = map[string]int{
	MergeWeightLoss:          -200,
	MergeWeightGain:          300,
	MergeMuscleBuilding:      250,
	MergeMaintenance:         0,
	MergeAthleticPerformance: 150,
}

var mergeMealTimes = map[Slot]string{
	SlotBreakfast:  "7:00 AM",
	SlotMidMorning: "10:00 AM",
	SlotLunch:      "1:00 PM",
	SlotEvening:    "4:00 PM",
	SlotDinner:     "7:00 PM",
}

// MergeSource は統合に使う保存済み食事表の要約です。
type MergeSource struct {
	ChartID       int64
	TotalCalories int
	Preference    string
}

// MergedChart は統合後の食事表です。optimizationNotes と optimization_notes は同じ内容です。
type MergedChart struct {
	Meals                  []MealEntry `json:"meals"`
	TotalCalories          int         `json:"totalCalories"`
	Goal                   string      `json:"goal"`
	OptimizationNotes      []string    `json:"optimizationNotes"`
	OptimizationNotesSnake []string    `json:"optimization_notes"`
	ChartsUsed             int         `json:"chartsUsed"`
	Refinements            []string    `json:"refinements"`
	MergedFrom             []int64     `json:"merged_from"`
}

// MergedName は統合後の食事表の名前です。
func MergedName(goal string, n int) string {
	return fmt.Sprintf("Merged Diet Plan - %s (%d charts)", goal, n)
}

// Merge は複数の食事表を目標に合わせて1つにまとめます。
// 目標カロリーは各表の合計の平均に目標ごとの補正を加えたものです。
func Merge(sources []MergeSource, goal string) (MergedChart, error) {
	if len(sources) == 0 {
		return MergedChart{}, ErrNoCharts
	}
	sum := 0
	ids := make([]int64, 0, len(sources))
	for _, s := range sources {
		sum += s.TotalCalories
		ids = append(ids, s.ChartID)
	}
	target := sum/len(sources) + mergeGoalOffsets[goal]
	pref := mergePreference(sources[0].Preference)

	dist := mergeDistribution(goal)
	meals := make([]MealEntry, 0, len(Slots))
	for _, slot := range Slots {
		cal := int(float64(target) * dist[slot])
		meals = append(meals, MealEntry{
			Time:     mergeMealTimes[slot],
			Name:     slot,
			Calories: cal,
			Foods:    mergeFoods(slot, goal, pref),
			Macros:   mergeMacros(cal, slot, goal).String(),
		})
	}

	notes := mergeNotes(goal, len(sources), target, pref)
	return MergedChart{
		Meals:                  meals,
		TotalCalories:          target,
		Goal:                   goal,
		OptimizationNotes:      notes,
		OptimizationNotesSnake: append([]string(nil), notes...),
		ChartsUsed:             len(sources),
		Refinements: []string{
			fmt.Sprintf("Intelligently merged %d diet charts for %s", len(sources), goal),
			fmt.Sprintf("Goal-optimized calorie distribution: %d total calories", target),
			fmt.Sprintf("Customized for %s dietary preferences", pref),
			"Meal-specific food variety and nutritional balance",
			"Optimized meal timing for metabolic efficiency",
		},
		MergedFrom: ids,
	}, nil
}

func mergeDistribution(goal string) map[Slot]float64 {
	switch goal {
	case MergeWeightLoss:
		return map[Slot]float64{SlotBreakfast: 0.30, SlotMidMorning: 0.10, SlotLunch: 0.35, SlotEvening: 0.10, SlotDinner: 0.15}
	case MergeMuscleBuilding:
		return map[Slot]float64{SlotBreakfast: 0.25, SlotMidMorning: 0.15, SlotLunch: 0.30, SlotEvening: 0.15, SlotDinner: 0.15}
	default:
		return baseSplit
	}
}

// mergePreference は自由記述の嗜好を食品データベースのキーに寄せます。
func mergePreference(text string) string {
	if NormalizeDiet(text) == DietNonVegetarian {
		return prefNonVegetarian
	}
	return prefVegetarian
}

func mergeFoods(slot Slot, goal, pref string) string {
	byPref, ok := mergeFoodDB[slot]
	if !ok {
		return fmt.Sprintf("Optimized %s for %s (%s)", strings.ToLower(string(slot)), goal, pref)
	}
	byGoal, ok := byPref[pref]
	if !ok {
		byGoal = byPref[prefVegetarian]
	}
	foods, ok := byGoal[goal]
	if !ok {
		foods = byGoal[MergeMaintenance]
	}
	if len(foods) == 0 {
		return fmt.Sprintf("Optimized %s for %s (%s)", strings.ToLower(string(slot)), goal, pref)
	}
	if len(foods) > 3 {
		foods = foods[:3]
	}
	return strings.Join(foods, ", ")
}

var mergeGoalRatios = map[string]MacroRatio{
	MergeWeightLoss:          {0.35, 0.35, 0.30},
	MergeWeightGain:          {0.25, 0.50, 0.25},
	MergeMuscleBuilding:      {0.40, 0.35, 0.25},
	MergeAthleticPerformance: {0.30, 0.45, 0.25},
	MergeMaintenance:         {0.30, 0.45, 0.25},
}

var mergeMealRatios = map[Slot]MacroRatio{
	SlotBreakfast:  {0.25, 0.50, 0.25},
	SlotMidMorning: {0.35, 0.45, 0.20},
	SlotLunch:      {0.30, 0.45, 0.25},
	SlotEvening:    {0.40, 0.40, 0.20},
	SlotDinner:     {0.35, 0.35, 0.30},
}

// mergeMacros は食事枠の比率と目標の比率の平均でPFCを計算します。
func mergeMacros(calories int, slot Slot, goal string) Macros {
	base, ok := mergeMealRatios[slot]
	if !ok {
		base = mergeMealRatios[SlotBreakfast]
	}
	g, ok := mergeGoalRatios[goal]
	if !ok {
		g = mergeGoalRatios[MergeMaintenance]
	}
	avg := MacroRatio{
		Protein: (base.Protein + g.Protein) / 2,
		Carbs:   (base.Carbs + g.Carbs) / 2,
		Fat:     (base.Fat + g.Fat) / 2,
	}
	return avg.Grams(float64(calories))
}

func mergeNotes(goal string, chartsUsed, target int, pref string) []string {
	notes := []string{
		fmt.Sprintf("🧠 AI-powered merge of %d personalized diet charts", chartsUsed),
		fmt.Sprintf("🎯 Goal-specific optimization for %s with %s preferences", goal, pref),
		"🔄 Progressive refinement algorithm applied for maximum effectiveness",
		"📊 Scientifically-backed macro and calorie distribution",
		"🌟 Meal variety optimized to prevent dietary boredom",
	}
	switch goal {
	case MergeWeightLoss:
		notes = append(notes,
			fmt.Sprintf("🔥 Calorie deficit optimized: %d calories for sustainable weight loss", target),
			"🍽️ Larger breakfast (30%) and smaller dinner (15%) for better metabolism",
			"🥗 High-protein meals (35-40%) to maintain muscle mass during weight loss",
			"⏰ Meal timing optimized for fat burning and energy maintenance")
	case MergeWeightGain:
		notes = append(notes,
			fmt.Sprintf("📈 Calorie surplus optimized: %d calories for healthy weight gain", target),
			"🥜 Nutrient-dense, calorie-rich foods selected for efficient weight gain",
			"🍽️ Balanced meal distribution with emphasis on healthy fats (25%)",
			"💪 Protein intake optimized to support lean muscle growth")
	case MergeMuscleBuilding:
		notes = append(notes,
			fmt.Sprintf("💪 High-protein optimization: %d calories for muscle synthesis", target),
			"🥩 Protein intake increased to 40% for optimal muscle protein synthesis",
			"🍌 Strategic carb timing around workouts for energy and recovery",
			"⚡ Frequent meals (15% snacks) to maintain positive nitrogen balance")
	case MergeAthleticPerformance:
		notes = append(notes,
			fmt.Sprintf("🏃 Performance-focused: %d calories for peak athletic output", target),
			"⚡ Carbohydrate emphasis (45%) for sustained energy and glycogen replenishment",
			"🔋 Strategic meal timing for pre/post workout optimization",
			"💧 Enhanced hydration and electrolyte balance considerations")
	default:
		notes = append(notes,
			fmt.Sprintf("⚖️ Balanced maintenance: %d calories for weight stability", target),
			"🍽️ Classic meal distribution (25-35-20%) for sustained energy",
			"🥗 Balanced macronutrients (30-45-25%) for overall health",
			"🌱 Focus on nutrient variety and meal satisfaction")
	}
	return notes
}

// ParseChartSummary は保存済みの chart_data と user_data から統合用の要約を取り出します。
// 合計カロリーは totalCalories、meals.totalCalories、食事の合計、target の順で探します。
func ParseChartSummary(id int64, chartData, userData []byte, target int) MergeSource {
	src := MergeSource{ChartID: id, TotalCalories: target, Preference: prefVegetarian}

	var raw map[string]json.RawMessage
	if json.Unmarshal(chartData, &raw) == nil {
		if total, ok := totalFrom(raw); ok {
			src.TotalCalories = total
		}
	}

	var user map[string]any
	if json.Unmarshal(userData, &user) == nil {
		for _, key := range []string{"dietaryPreference", "dietaryPreferences", "dietary_preference"} {
			if s, ok := user[key].(string); ok && s != "" {
				src.Preference = s
				break
			}
		}
	}
	return src
}

func totalFrom(raw map[string]json.RawMessage) (int, bool) {
	var total float64
	if v, ok := raw["totalCalories"]; ok && json.Unmarshal(v, &total) == nil && total > 0 {
		return int(total), true
	}
	mealsRaw, ok := raw["meals"]
	if !ok {
		return 0, false
	}
	// 保存形式では meals の中に食事表全体が入っています
	var nested map[string]json.RawMessage
	if json.Unmarshal(mealsRaw, &nested) == nil {
		return totalFrom(nested)
	}
	var meals []MealEntry
	if json.Unmarshal(mealsRaw, &meals) == nil && len(meals) > 0 {
		if sum := SumMeals(meals); sum > 0 {
			return sum, true
		}
	}
	return 0, false
}

var mergeFoodDB = map[Slot]map[string]map[string][]string{
	SlotBreakfast: {
		prefVegetarian: {
			MergeWeightLoss:          {"Greek yogurt with berries and nuts", "Vegetable omelet with whole grain toast", "Oatmeal with protein powder and fruits"},
			MergeWeightGain:          {"Protein smoothie with banana and peanut butter", "Avocado toast with eggs", "Granola with full-fat yogurt and nuts"},
			MergeMuscleBuilding:      {"Protein pancakes with Greek yogurt", "Scrambled eggs with quinoa and vegetables", "Cottage cheese with fruits and nuts"},
			MergeMaintenance:         {"Balanced oatmeal with fruits and nuts", "Vegetable omelet with whole grain bread", "Greek yogurt parfait"},
			MergeAthleticPerformance: {"High-protein smoothie bowl", "Energy-dense oatmeal with nuts and seeds", "Protein-rich egg scramble"},
		},
		prefNonVegetarian: {
			MergeWeightLoss:          {"Egg white omelet with vegetables", "Grilled chicken with avocado", "Protein smoothie with berries"},
			MergeWeightGain:          {"Whole eggs with turkey bacon", "Protein pancakes with chicken sausage", "High-calorie smoothie with protein"},
			MergeMuscleBuilding:      {"Lean beef with sweet potato hash", "Chicken and egg scramble", "Protein-packed omelet with lean meat"},
			MergeMaintenance:         {"Balanced egg and meat breakfast", "Chicken with whole grain toast", "Protein smoothie with lean meat"},
			MergeAthleticPerformance: {"High-protein meat and egg combo", "Performance smoothie with whey", "Lean meat with complex carbs"},
		},
	},
	SlotMidMorning: {
		prefVegetarian: {
			MergeWeightLoss:          {"Apple with almond butter", "Greek yogurt with cucumber", "Mixed nuts and seeds"},
			MergeWeightGain:          {"Trail mix with dried fruits", "Protein bar with nuts", "Smoothie with protein powder"},
			MergeMuscleBuilding:      {"Protein shake with banana", "Cottage cheese with nuts", "Greek yogurt with granola"},
			MergeMaintenance:         {"Fresh fruit with nuts", "Yogurt with berries", "Healthy granola bar"},
			MergeAthleticPerformance: {"Energy balls with dates and nuts", "Protein smoothie", "Mixed nuts and dried fruits"},
		},
		prefNonVegetarian: {
			MergeWeightLoss:          {"Hard-boiled eggs", "Turkey jerky", "Protein shake"},
			MergeWeightGain:          {"Protein bar with nuts", "Chicken salad wrap", "High-calorie smoothie"},
			MergeMuscleBuilding:      {"Whey protein shake", "Lean meat snack", "Protein-rich energy bar"},
			MergeMaintenance:         {"Balanced protein snack", "Lean meat with crackers", "Protein smoothie"},
			MergeAthleticPerformance: {"Performance protein bar", "Lean meat snack", "High-protein smoothie"},
		},
	},
	SlotLunch: {
		prefVegetarian: {
			MergeWeightLoss:          {"Large salad with quinoa and chickpeas", "Vegetable curry with brown rice", "Lentil soup with whole grain bread"},
			MergeWeightGain:          {"Quinoa bowl with avocado and nuts", "Pasta with creamy vegetable sauce", "Rice and dal with ghee"},
			MergeMuscleBuilding:      {"Protein-rich lentil curry with quinoa", "Paneer with vegetables and rice", "High-protein pasta with cheese"},
			MergeMaintenance:         {"Balanced dal-rice with vegetables", "Quinoa salad with mixed vegetables", "Vegetable curry with roti"},
			MergeAthleticPerformance: {"Power bowl with quinoa and legumes", "High-energy vegetable curry", "Performance pasta with vegetables"},
		},
		prefNonVegetarian: {
			MergeWeightLoss:          {"Grilled chicken salad with vegetables", "Fish with steamed vegetables", "Lean meat with quinoa"},
			MergeWeightGain:          {"Chicken curry with rice", "Fish with sweet potato", "Meat with pasta and sauce"},
			MergeMuscleBuilding:      {"Grilled chicken with brown rice", "Salmon with quinoa and vegetables", "Lean beef with sweet potato"},
			MergeMaintenance:         {"Balanced chicken with rice and vegetables", "Fish with mixed grains", "Lean meat with balanced sides"},
			MergeAthleticPerformance: {"High-protein chicken bowl", "Performance fish with complex carbs", "Power meat and grain combo"},
		},
	},
	SlotEvening: {
		prefVegetarian: {
			MergeWeightLoss:          {"Roasted chickpeas", "Vegetable sticks with hummus", "Green tea with almonds"},
			MergeWeightGain:          {"Protein smoothie with nuts", "Granola with yogurt", "Nut butter with fruits"},
			MergeMuscleBuilding:      {"Protein bar with nuts", "Greek yogurt with granola", "Cottage cheese with fruits"},
			MergeMaintenance:         {"Mixed nuts and fruits", "Healthy snack bar", "Yogurt with berries"},
			MergeAthleticPerformance: {"Energy-dense nuts and seeds", "Performance snack bar", "High-protein smoothie"},
		},
		prefNonVegetarian: {
			MergeWeightLoss:          {"Grilled chicken strips", "Hard-boiled eggs", "Protein shake"},
			MergeWeightGain:          {"Protein bar with meat", "Chicken salad", "High-calorie smoothie"},
			MergeMuscleBuilding:      {"Lean meat snack", "Protein shake with extras", "Chicken with crackers"},
			MergeMaintenance:         {"Balanced protein snack", "Lean meat portion", "Protein smoothie"},
			MergeAthleticPerformance: {"Performance meat snack", "High-protein bar", "Power smoothie"},
		},
	},
	SlotDinner: {
		prefVegetarian: {
			MergeWeightLoss:          {"Vegetable curry with small roti", "Lentil soup with salad", "Grilled vegetables with quinoa"},
			MergeWeightGain:          {"Dal with rice and ghee", "Paneer curry with naan", "Pasta with creamy sauce"},
			MergeMuscleBuilding:      {"High-protein dal with quinoa", "Paneer with vegetables and rice", "Protein-rich curry with bread"},
			MergeMaintenance:         {"Balanced vegetable curry with roti", "Dal-rice with vegetables", "Quinoa with mixed curry"},
			MergeAthleticPerformance: {"Power vegetable curry", "High-energy dal-rice combo", "Performance quinoa bowl"},
		},
		prefNonVegetarian: {
			MergeWeightLoss:          {"Grilled fish with vegetables", "Chicken soup with salad", "Lean meat with steamed vegetables"},
			MergeWeightGain:          {"Chicken curry with rice", "Fish with creamy sauce", "Meat with pasta"},
			MergeMuscleBuilding:      {"Grilled chicken with sweet potato", "Salmon with quinoa", "Lean beef with vegetables"},
			MergeMaintenance:         {"Balanced chicken with rice", "Fish with mixed vegetables", "Lean meat with grains"},
			MergeAthleticPerformance: {"High-protein fish dinner", "Performance chicken bowl", "Power meat with complex carbs"},
		},
	},
}
