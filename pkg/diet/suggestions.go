package diet

import (
	"fmt"
	"strings"
)

// bullets は箇条書きを <br> 区切りのHTMLにします。
func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "• " + it
	}
	return strings.Join(lines, "<br>")
}

// ProfileSuggestions はBMI区分と目標から最初の行動項目を作ります。
func ProfileSuggestions(p Profile, m Metrics) []string {
	var out []string
	switch m.Category {
	case CategoryUnderweight:
		out = append(out,
			"Focus on calorie-dense, nutritious foods like nuts, avocados, and healthy oils",
			"Eat 5-6 smaller meals throughout the day to increase intake",
			"Add protein shakes between meals for muscle building",
		)
	case CategoryOverweight, CategoryObese:
		out = append(out,
			"Create a moderate calorie deficit (300-500 calories below maintenance)",
			"Focus on high-fiber, low-calorie foods like vegetables and lean proteins",
			"Practice portion control and mindful eating",
		)
	default:
		out = append(out,
			"Maintain current calorie balance with focus on nutrient quality",
			"Emphasize whole foods and balanced macronutrients",
		)
	}
	if strings.Contains(strings.ToLower(p.Goal), "muscle") {
		out = append(out,
			"Prioritize protein intake: 1.6-2.2g per kg body weight",
			"Time protein intake around workouts for optimal recovery",
		)
	}
	return out
}

// HealthSuggestions は基礎代謝・年齢・BMI区分から健康面の提案を作ります。
func HealthSuggestions(p Profile, m Metrics) []string {
	out := []string{fmt.Sprintf("Your BMR is %s calories - never eat below this for healthy metabolism", formatNumber(m.BMR))}
	if p.Age > 40 {
		out = append(out,
			"Include calcium-rich foods for bone health (dairy, leafy greens)",
			"Focus on anti-inflammatory foods (berries, fatty fish, turmeric)",
		)
	}
	switch m.Category {
	case CategoryUnderweight:
		out = append(out,
			"Eat every 2-3 hours to maintain steady energy levels",
			"Include healthy fats at each meal for calorie density",
		)
	case CategoryOverweight:
		out = append(out,
			"Start meals with a large salad to increase satiety",
			"Drink water 30 minutes before meals to aid portion control",
		)
	}
	return append(out,
		"Aim for 7-9 hours of sleep to support metabolic health",
		"Consider regular meal timing to optimize circadian rhythm",
	)
}

// CalorieSuggestions は目標カロリーの配分と、補正後の食事枠を示すHTMLを作ります。
func CalorieSuggestions(target int, adjusted []SlotCalories) string {
	t := float64(target)
	var b strings.Builder
	b.WriteString("<strong>Daily Calorie Distribution:</strong><br>")
	fmt.Fprintf(&b, "• Breakfast: %d calories (25%%) - Start strong with protein + complex carbs<br>", roundInt(t*0.25))
	fmt.Fprintf(&b, "• Lunch: %d calories (35%%) - Largest meal with balanced macros<br>", roundInt(t*0.35))
	fmt.Fprintf(&b, "• Dinner: %d calories (30%%) - Lighter, protein-focused meal<br>", roundInt(t*0.30))
	fmt.Fprintf(&b, "• Snacks: %d calories (10%%) - Healthy snacks between meals<br><br>", roundInt(t*0.10))
	if len(adjusted) > 0 {
		b.WriteString("<strong>Adjusted Slot Targets:</strong><br>")
		for _, s := range adjusted {
			fmt.Fprintf(&b, "• %s: %d calories<br>", s.Slot, s.Calories)
		}
		b.WriteString("<br>")
	}
	b.WriteString("<strong>Sample Timing:</strong><br>")
	b.WriteString("• 7:00 AM - Breakfast<br>")
	b.WriteString("• 10:00 AM - Morning snack<br>")
	b.WriteString("• 1:00 PM - Lunch<br>")
	b.WriteString("• 4:00 PM - Afternoon snack<br>")
	b.WriteString("• 7:00 PM - Dinner")
	return b.String()
}

// DietarySuggestions は食事スタイルとアレルギーに応じた提案を作ります。
func DietarySuggestions(p Profile) []string {
	var out []string
	switch NormalizeDiet(p.DietaryPreference) {
	case DietVegetarian, DietVegan:
		out = append(out,
			"Combine legumes + grains for complete protein (rice + beans, hummus + pita)",
			"Include B12 supplement and consider iron-rich foods with vitamin C",
			"Focus on quinoa, lentils, chickpeas, and tofu for protein variety",
		)
	case DietNonVegetarian:
		out = append(out,
			"Choose lean proteins: chicken breast, fish, turkey, lean beef",
			"Include fatty fish 2-3 times per week for omega-3s",
			"Balance animal proteins with plant-based options",
		)
	case DietPescatarian:
		out = append(out,
			"Focus on fish and seafood as primary protein sources",
			"Include plant-based proteins like legumes and quinoa",
			"Ensure adequate omega-3 intake from fatty fish",
		)
	case DietEggetarian:
		out = append(out,
			"Eggs are excellent complete protein sources",
			"Combine with dairy and plant proteins for variety",
			"Include 1-2 eggs daily for optimal nutrition",
		)
	}

	allergies := strings.ToLower(p.Allergies)
	if strings.Contains(allergies, "dairy") {
		out = append(out,
			"Use fortified plant milks (almond, soy, oat) for calcium",
			"Include tahini, leafy greens, and sardines for calcium sources",
		)
	}
	if strings.Contains(allergies, "nut") {
		out = append(out,
			"Avoid all tree nuts and peanuts",
			"Use seeds like sunflower, pumpkin for healthy fats",
		)
	}
	if strings.Contains(allergies, "gluten") {
		out = append(out,
			"Choose gluten-free grains: rice, quinoa, millet",
			"Check labels carefully for hidden gluten sources",
		)
	}
	return append(out,
		"Meal prep 2-3 days worth of proteins in advance",
		"Keep healthy snacks readily available to avoid poor choices",
		"Stay hydrated and eat mindfully",
	)
}

// RegionalSuggestions は地域の食事例と共通の提案を作ります。
func RegionalSuggestions(region Region) []string {
	ideas, ok := regionalMealIdeas[region]
	if !ok {
		ideas = regionalMealIdeas[RegionUnrecognized]
	}
	out := append([]string(nil), ideas...)
	return append(out,
		"Shop at local farmers markets for fresh, seasonal produce",
		"Learn to prepare 3-4 healthy versions of traditional dishes",
		"Stay hydrated and include regional herbs and spices",
	)
}

// ScheduledMeal は食事スケジュールの1枠です。
type ScheduledMeal struct {
	Slot     Slot   `json:"slot"`
	Time     string `json:"time"`
	Calories int    `json:"calories"`
}

var scheduleSplit = []struct {
	slot  Slot
	time  string
	share float64
}{
	{SlotBreakfast, "7:00 AM", 0.25},
	{SlotMidMorning, "10:00 AM", 0.05},
	{SlotLunch, "1:00 PM", 0.35},
	{SlotEvening, "4:00 PM", 0.05},
	{SlotDinner, "7:00 PM", 0.30},
}

// MealScheduleFor は目標カロリーから食事スケジュールを作ります。
func MealScheduleFor(target int) []ScheduledMeal {
	out := make([]ScheduledMeal, 0, len(scheduleSplit))
	for _, s := range scheduleSplit {
		out = append(out, ScheduledMeal{Slot: s.slot, Time: s.time, Calories: roundInt(float64(target) * s.share)})
	}
	return out
}

// Portions は1日の摂取目安です。
type Portions struct {
	Protein string `json:"protein"`
	Carbs   string `json:"carbs"`
	Fats    string `json:"fats"`
	Water   string `json:"water"`
	Fiber   string `json:"fiber"`
}

// PortionsFor は目標カロリーからPFCの1日量を計算します。
func PortionsFor(target int) Portions {
	m := MacroRatio{0.25, 0.45, 0.30}.Grams(float64(target))
	return Portions{
		Protein: fmt.Sprintf("%dg daily", m.Protein),
		Carbs:   fmt.Sprintf("%dg daily", m.Carbs),
		Fats:    fmt.Sprintf("%dg daily", m.Fat),
		Water:   "8-10 glasses daily",
		Fiber:   "25-35g daily",
	}
}

// MealPlanPreview は1日目のサンプルをHTMLで返します。
func MealPlanPreview(target int, preferences string) string {
	t := float64(target)
	var b strings.Builder
	b.WriteString(`<div class="meal-preview"><strong>Day 1 Sample:</strong><br>`)
	fmt.Fprintf(&b, "🌅 Breakfast (%d cal): Protein-rich start with complex carbs<br>", roundInt(t*0.25))
	fmt.Fprintf(&b, "🥪 Mid-Morning (%d cal): Light, nutritious snack<br>", roundInt(t*0.05))
	fmt.Fprintf(&b, "🍽️ Lunch (%d cal): Balanced meal with all macros<br>", roundInt(t*0.35))
	fmt.Fprintf(&b, "🍎 Afternoon (%d cal): Energy-boosting snack<br>", roundInt(t*0.05))
	fmt.Fprintf(&b, "🍽️ Dinner (%d cal): Light, protein-focused meal<br><br>", roundInt(t*0.30))
	fmt.Fprintf(&b, "<strong>Weekly Variety:</strong> 21 different meals planned with %s preferences<br>", preferences)
	b.WriteString("<strong>Prep Time:</strong> 2-3 hours weekly meal prep recommended</div>")
	return b.String()
}

// DetailedMealPlan はこれまでの分析結果から食事枠の説明を作ります。
func DetailedMealPlan(slot Slot, in Insight) string {
	pref := in.Preferences("balanced")
	region := in.RegionName("global")
	switch slot {
	case SlotBreakfast:
		return fmt.Sprintf("Optimized breakfast for %s diet with %s influences", pref, region)
	case SlotMidMorning:
		return fmt.Sprintf("Light snack aligned with %s preferences", pref)
	case SlotLunch:
		return fmt.Sprintf("Complete lunch incorporating %s foods and %s diet", region, pref)
	case SlotEvening:
		return fmt.Sprintf("Energy snack suitable for %s lifestyle", pref)
	case SlotDinner:
		return fmt.Sprintf("Light dinner with %s flavors and %s approach", region, pref)
	}
	return defaultFood
}

// OptimizationSummary はすべての段階の結果を要約します。
func OptimizationSummary(in Insight) string {
	goal := "General fitness"
	if in.Profile != nil && in.Profile.Goal != "" {
		goal = in.Profile.Goal
	}
	var b strings.Builder
	b.WriteString(`<div class="summary-points">`)
	fmt.Fprintf(&b, "✅ <strong>Profile Optimized:</strong> %s plan created<br>", goal)
	b.WriteString("✅ <strong>Health Considered:</strong> BMI and metabolic needs addressed<br>")
	fmt.Fprintf(&b, "✅ <strong>Calories Balanced:</strong> %d daily target set<br>", in.TargetCalories())
	fmt.Fprintf(&b, "✅ <strong>Diet Preferences:</strong> %s approach integrated<br>", in.Preferences("Balanced diet"))
	fmt.Fprintf(&b, "✅ <strong>Regional Foods:</strong> %s cuisine included<br>", in.RegionName("Global"))
	b.WriteString("✅ <strong>Complete Plan:</strong> 7-day structured meal schedule ready<br>")
	b.WriteString("</div>")
	return b.String()
}
