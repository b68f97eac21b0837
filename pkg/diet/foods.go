package diet

const defaultFood = "Balanced meal option"

var stageFoods = map[Slot]map[Stage]string{
	SlotBreakfast: {
		StageProfile:  "Oats with fruits and nuts",
		StageHealth:   "High-fiber oats with berries and almonds",
		StageCalories: "Portion-controlled oats with measured fruits",
	},
	SlotMidMorning: {
		StageProfile:  "Fresh fruit",
		StageHealth:   "Antioxidant-rich berries",
		StageCalories: "Measured fruit portion",
	},
	SlotLunch: {
		StageProfile:  "Balanced meal with protein and carbs",
		StageHealth:   "Nutrient-dense complete meal",
		StageCalories: "Calorie-optimized balanced meal",
	},
	SlotEvening: {
		StageProfile:  "Light snack",
		StageHealth:   "Energy-sustaining snack",
		StageCalories: "Portion-controlled snack",
	},
	SlotDinner: {
		StageProfile:  "Light protein meal",
		StageHealth:   "Easily digestible dinner",
		StageCalories: "Light, protein-focused meal",
	},
}

type dietGroup int

const (
	dietPlant dietGroup = iota
	dietNonVegetarian
	dietOther
)

var dietaryFoods = map[Slot]map[dietGroup]string{
	SlotBreakfast: {
		dietPlant:         "Plant-based protein smoothie with oats",
		dietNonVegetarian: "Eggs with whole grain toast",
		dietOther:         "Protein-rich breakfast option",
	},
	SlotMidMorning: {
		dietPlant:         "Mixed nuts and fruits",
		dietNonVegetarian: "Greek yogurt with berries",
		dietOther:         "Healthy snack option",
	},
	SlotLunch: {
		dietPlant:         "Lentil curry with brown rice and vegetables",
		dietNonVegetarian: "Grilled chicken with quinoa and vegetables",
		dietOther:         "Balanced protein and carb meal",
	},
	SlotEvening: {
		dietPlant:         "Hummus with vegetables",
		dietNonVegetarian: "Boiled eggs",
		dietOther:         "Healthy snack option",
	},
	SlotDinner: {
		dietPlant:         "Tofu stir-fry with vegetables",
		dietNonVegetarian: "Grilled fish with steamed vegetables",
		dietOther:         "Light protein-focused meal",
	},
}

// regionalCell は地域段階の1マスです。空の列は other を使います。
type regionalCell struct {
	plant string
	meat  string
	other string
}

var regionalFoods = map[Region]map[Slot]regionalCell{
	RegionIndia: {
		SlotBreakfast: {
			plant: "Poha (1 cup), mixed vegetables (1/2 cup), green tea (1 cup)",
			meat:  "Egg paratha (2 pieces), curd (1/2 cup), pickle (1 tsp)",
			other: "Upma (1 cup), sambar (1/2 cup), coconut chutney (2 tbsp)",
		},
		SlotMidMorning: {other: "Apple (1 medium), green tea (1 cup)"},
		SlotLunch: {
			plant: "Brown rice (1 cup), dal (1 cup), mixed vegetables (1 cup), salad (1 bowl), buttermilk (1 glass)",
			meat:  "Brown rice (1 cup), chicken curry (150g), vegetables (1/2 cup), salad (1 bowl)",
			other: "Roti (2 pieces), dal (1 cup), paneer curry (100g), vegetables (1/2 cup)",
		},
		SlotEvening: {other: "Roasted chana (1/4 cup), green tea (1 cup)"},
		SlotDinner: {
			plant: "Roti (2 pieces), dal (1/2 cup), mixed vegetables (1/2 cup), salad (1 small bowl)",
			meat:  "Roti (2 pieces), fish curry (100g), steamed vegetables (1/2 cup)",
			other: "Chapati (2 pieces), light curry (1/2 cup), steamed vegetables (1/2 cup)",
		},
	},
	RegionNorthAmerica: {
		SlotBreakfast: {
			plant: "Oatmeal (1 cup), blueberries (1/2 cup), almonds (10 pieces)",
			other: "Scrambled eggs (2), whole wheat toast (2 slices), avocado (1/2)",
		},
		SlotMidMorning: {other: "Greek yogurt (1/2 cup), berries (1/4 cup)"},
		SlotLunch: {
			plant: "Quinoa salad (1.5 cups), black beans (1/2 cup), avocado (1/2), mixed greens (2 cups)",
			other: "Grilled chicken breast (150g), quinoa (1 cup), steamed broccoli (1 cup)",
		},
		SlotEvening: {other: "Mixed nuts (10 pieces), herbal tea (1 cup)"},
		SlotDinner: {
			plant: "Baked sweet potato (1 medium), black bean salad (1/2 cup), steamed broccoli (1 cup)",
			other: "Baked salmon (120g), roasted vegetables (1 cup), quinoa (1/2 cup)",
		},
	},
	RegionUK: {
		SlotBreakfast:  {other: "Porridge (1 bowl), banana (1), walnuts (5 pieces)"},
		SlotMidMorning: {other: "Banana (1 medium), green tea (1 cup)"},
		SlotLunch:      {other: "Lentil soup (1 bowl), whole grain bread (2 slices), mixed salad (1 bowl)"},
		SlotEvening:    {other: "Oatcakes (2 pieces), herbal tea (1 cup)"},
		SlotDinner:     {other: "Grilled fish (120g), mashed cauliflower (1/2 cup), steamed green beans (1/2 cup)"},
	},
	RegionJapan: {
		SlotBreakfast:  {other: "Miso soup (1 bowl), steamed rice (1/2 cup), grilled fish (100g)"},
		SlotMidMorning: {other: "Green tea (1 cup), rice crackers (3 pieces)"},
		SlotLunch:      {other: "Bento box: rice (1 cup), grilled fish (100g), pickled vegetables (1/2 cup), miso soup (1 bowl)"},
		SlotEvening:    {other: "Edamame (1/4 cup), green tea (1 cup)"},
		SlotDinner:     {other: "Grilled fish (100g), steamed rice (1/2 cup), miso soup (1 bowl), pickled vegetables (1/4 cup)"},
	},
	RegionChina: {
		SlotBreakfast:  {other: "Congee (1 bowl), steamed vegetables (1/2 cup), green tea (1 cup)"},
		SlotMidMorning: {other: "Green tea (1 cup), steamed bun (1 small)"},
		SlotLunch:      {other: "Stir-fried tofu (150g), brown rice (1 cup), mixed vegetables (1 cup), green tea (1 cup)"},
		SlotEvening:    {other: "Herbal tea (1 cup), dried fruits (2 tbsp)"},
		SlotDinner:     {other: "Steamed fish (100g), brown rice (1/2 cup), stir-fried vegetables (1/2 cup)"},
	},
	RegionUnrecognized: {
		SlotBreakfast:  {other: "Oats (1 cup), seasonal fruits (1/2 cup), nuts (10 pieces)"},
		SlotMidMorning: {other: "Seasonal fruit (1 medium), green tea (1 cup)"},
		SlotLunch:      {other: "Brown rice (1 cup), lentils (1 cup), mixed vegetables (1 cup), salad (1 bowl)"},
		SlotEvening:    {other: "Mixed nuts (10 pieces), herbal tea (1 cup)"},
		SlotDinner:     {other: "Grilled protein (100g), steamed vegetables (1 cup), whole grains (1/2 cup)"},
	},
}

// completeCell は完成プラン段階の1マスです。
type completeCell struct {
	plant string
	other string
}

// sameForAll は目標によらず同じ内容の行を作ります。
func sameForAll(c completeCell) map[Goal]completeCell {
	return map[Goal]completeCell{GoalLoss: c, GoalGain: c, GoalMaintain: c}
}

var completeFoods = map[Region]map[Slot]map[Goal]completeCell{
	RegionIndia: {
		SlotBreakfast: {
			GoalLoss: {
				plant: "Vegetable upma (3/4 cup), green tea (1 cup), cucumber slices (1/2 cup)",
				other: "Egg white omelette (3 whites), whole wheat toast (1 slice), green tea (1 cup)",
			},
			GoalGain: {
				plant: "Moong dal chilla (3 pieces), mint chutney (2 tbsp), banana (1 medium), milk (1 glass)",
				other: "Egg paratha (2 pieces), curd (1/2 cup), banana (1 medium), milk (1 glass)",
			},
			GoalMaintain: {
				plant: "Oats upma (1 cup), mixed vegetables (1/2 cup), almonds (8 pieces), green tea (1 cup)",
				other: "Scrambled eggs (2), whole wheat toast (2 slices), orange juice (1 glass)",
			},
		},
		SlotMidMorning: sameForAll(completeCell{
			plant: "Apple (1 medium), almonds (6 pieces), green tea (1 cup)",
			other: "Banana (1 medium), boiled egg (1), green tea (1 cup)",
		}),
		SlotLunch: {
			GoalLoss: {
				plant: "Brown rice (1/2 cup), moong dal (1 cup), mixed vegetables (1 cup), cucumber salad (1 bowl), buttermilk (1 glass)",
				other: "Brown rice (1/2 cup), chicken curry (100g), mixed vegetables (1 cup), salad (1 bowl), lemon water (1 glass)",
			},
			GoalGain: {
				plant: "Brown rice (1.5 cups), dal (1.5 cups), paneer curry (150g), mixed vegetables (1/2 cup), curd (1/2 cup), ghee (1 tsp)",
				other: "Brown rice (1.5 cups), chicken curry (200g), dal (1 cup), vegetables (1/2 cup), curd (1/2 cup)",
			},
			GoalMaintain: {
				plant: "Brown rice (1 cup), dal (1 cup), seasonal vegetables (3/4 cup), salad (1 bowl), buttermilk (1 glass)",
				other: "Brown rice (1 cup), fish curry (150g), dal (1/2 cup), vegetables (3/4 cup), salad (1 bowl)",
			},
		},
		SlotEvening: sameForAll(completeCell{
			plant: "Roasted chana (1/4 cup), green tea (1 cup)",
			other: "Greek yogurt (1/2 cup), mixed nuts (8 pieces)",
		}),
		SlotDinner: {
			GoalLoss: {
				plant: "Roti (1 piece), moong dal (1/2 cup), steamed vegetables (1 cup), cucumber salad (1 small bowl)",
				other: "Roti (1 piece), grilled fish (100g), steamed vegetables (1 cup), mint chutney (1 tbsp)",
			},
			GoalGain: {
				plant: "Roti (3 pieces), paneer curry (150g), dal (1/2 cup), vegetables (1/2 cup), curd (1/2 cup)",
				other: "Roti (3 pieces), chicken curry (150g), dal (1/2 cup), vegetables (1/2 cup)",
			},
			GoalMaintain: {
				plant: "Roti (2 pieces), dal (3/4 cup), mixed vegetables (3/4 cup), small salad (1 bowl)",
				other: "Roti (2 pieces), fish curry (120g), vegetables (3/4 cup), small salad (1 bowl)",
			},
		},
	},
	RegionNorthAmerica: {
		SlotBreakfast: {
			GoalLoss:     {other: "Greek yogurt (1/2 cup), berries (1/2 cup), chia seeds (1 tbsp), green tea (1 cup)"},
			GoalGain:     {other: "Protein smoothie (1 cup), oatmeal (1 cup), banana (1), peanut butter (2 tbsp)"},
			GoalMaintain: {other: "Oatmeal (1 cup), blueberries (1/2 cup), walnuts (6 pieces), coffee (1 cup)"},
		},
		SlotMidMorning: sameForAll(completeCell{other: "Greek yogurt (1/2 cup), berries (1/4 cup), honey (1 tsp)"}),
		SlotLunch: {
			GoalLoss:     {other: "Grilled chicken breast (120g), quinoa (1/2 cup), steamed broccoli (1 cup), mixed greens salad (2 cups)"},
			GoalGain:     {other: "Grilled chicken breast (200g), quinoa (1.5 cups), sweet potato (1 medium), avocado (1/2)"},
			GoalMaintain: {other: "Grilled salmon (150g), quinoa (1 cup), roasted vegetables (1 cup), mixed salad (1 bowl)"},
		},
		SlotEvening: sameForAll(completeCell{other: "Apple slices (1 medium), almond butter (1 tbsp)"}),
		SlotDinner: {
			GoalLoss:     {other: "Grilled chicken breast (100g), steamed broccoli (1 cup), quinoa (1/3 cup)"},
			GoalGain:     {other: "Baked salmon (150g), sweet potato (1 medium), asparagus (1 cup), olive oil (1 tbsp)"},
			GoalMaintain: {other: "Baked cod (120g), roasted vegetables (1 cup), brown rice (1/2 cup)"},
		},
	},
	RegionUK: {
		SlotBreakfast: {
			GoalLoss:     {other: "Porridge (1/2 cup), strawberries (1/2 cup), green tea (1 cup)"},
			GoalGain:     {other: "Full English breakfast: eggs (2), baked beans (1/2 cup), whole grain toast (2 slices)"},
			GoalMaintain: {other: "Porridge (3/4 cup), banana (1), honey (1 tsp), tea (1 cup)"},
		},
		SlotMidMorning: sameForAll(completeCell{other: "Banana (1 medium), handful of nuts (8 pieces), tea (1 cup)"}),
		SlotLunch: {
			GoalLoss:     {other: "Grilled fish (120g), new potatoes (3 small), steamed vegetables (1 cup), side salad (1 bowl)"},
			GoalGain:     {other: "Roast chicken (200g), mashed potatoes (1 cup), roasted vegetables (1 cup), gravy (2 tbsp)"},
			GoalMaintain: {other: "Baked cod (150g), boiled potatoes (4 medium), steamed carrots (1/2 cup), peas (1/2 cup)"},
		},
		SlotEvening: sameForAll(completeCell{other: "Oatcakes (2 pieces), cottage cheese (2 tbsp), herbal tea (1 cup)"}),
		SlotDinner: {
			GoalLoss:     {other: "Grilled fish (100g), steamed vegetables (1 cup), new potatoes (2 small)"},
			GoalGain:     {other: "Roast beef (150g), mashed potatoes (3/4 cup), steamed broccoli (1 cup)"},
			GoalMaintain: {other: "Baked chicken (120g), roasted root vegetables (1 cup), gravy (1 tbsp)"},
		},
	},
	RegionJapan: {
		SlotMidMorning: sameForAll(completeCell{other: "Green tea (1 cup), rice crackers (4 pieces), edamame (2 tbsp)"}),
		SlotEvening:    sameForAll(completeCell{other: "Miso soup (1 small bowl), seaweed snack (1 pack)"}),
	},
	RegionChina: {
		SlotMidMorning: sameForAll(completeCell{other: "Green tea (1 cup), steamed bun (1 small), walnuts (4 pieces)"}),
		SlotEvening:    sameForAll(completeCell{other: "Herbal tea (1 cup), dried fruits (2 tbsp), almonds (6 pieces)"}),
	},
	RegionUnrecognized: {
		SlotBreakfast: {
			GoalLoss:     {other: "High-protein breakfast (300 cal): Greek yogurt (1/2 cup), berries (1/2 cup), nuts (5 pieces)"},
			GoalGain:     {other: "High-calorie breakfast (500 cal): Oats (1 cup), banana (1), protein powder (1 scoop), milk (1 cup)"},
			GoalMaintain: {other: "Balanced breakfast (400 cal): Oats (3/4 cup), seasonal fruit (1/2 cup), nuts (8 pieces), green tea (1 cup)"},
		},
		SlotMidMorning: sameForAll(completeCell{other: "Seasonal fruit (1 medium), nuts (8 pieces), green tea (1 cup)"}),
		SlotLunch: {
			GoalLoss:     {other: "Lean protein (120g), complex carbs (1/2 cup), vegetables (1.5 cups), salad (1 bowl)"},
			GoalGain:     {other: "Protein source (200g), complex carbs (1.5 cups), vegetables (1 cup), healthy fats (1 tbsp)"},
			GoalMaintain: {other: "Balanced protein (150g), whole grains (1 cup), vegetables (1 cup), salad (1 bowl)"},
		},
		SlotEvening: sameForAll(completeCell{other: "Mixed nuts (10 pieces), herbal tea (1 cup)"}),
		SlotDinner: {
			GoalLoss:     {other: "Lean protein (100g), steamed vegetables (1.5 cups), small portion carbs (1/3 cup)"},
			GoalGain:     {other: "Protein source (150g), complex carbs (3/4 cup), vegetables (1 cup), healthy fats (1 tbsp)"},
			GoalMaintain: {other: "Balanced protein (120g), vegetables (1 cup), whole grains (1/2 cup)"},
		},
	},
}

var proteinSources = map[Diet][]string{
	DietVegetarian:    {"Eggs", "Dairy", "Legumes", "Nuts"},
	DietVegan:         {"Tofu", "Tempeh", "Legumes", "Nuts"},
	DietNonVegetarian: {"Chicken", "Fish", "Eggs", "Dairy"},
	DietPescatarian:   {"Fish", "Seafood", "Eggs", "Dairy"},
	DietEggetarian:    {"Eggs", "Dairy", "Legumes", "Quinoa"},
}

// ProteinSources は食事スタイルに合うたんぱく源を返します。
func ProteinSources(diet Diet) []string {
	if s, ok := proteinSources[diet]; ok {
		return append([]string(nil), s...)
	}
	return []string{"Varied protein sources", "Legumes", "Dairy", "Eggs"}
}

var healthRisks = map[BMICategory][]string{
	CategoryUnderweight: {"Nutrient deficiencies", "Weak immune system", "Osteoporosis risk"},
	CategoryNormal:      {"Low health risks", "Maintain current status"},
	CategoryOverweight:  {"Type 2 diabetes risk", "Heart disease risk", "High blood pressure"},
	CategoryObese:       {"High diabetes risk", "Cardiovascular disease", "Sleep apnea", "Joint problems"},
}

// HealthRisks はBMI区分ごとの注意点を返します。
func HealthRisks(category BMICategory) []string {
	if r, ok := healthRisks[category]; ok {
		return append([]string(nil), r...)
	}
	return []string{"Monitor health regularly"}
}

var regionalSuperfoods = map[Region][]string{
	RegionIndia:        {"Quinoa", "Millets", "Lentils", "Seasonal vegetables", "Coconut", "Turmeric"},
	RegionNorthAmerica: {"Quinoa", "Sweet potatoes", "Blueberries", "Salmon", "Avocado", "Almonds"},
	RegionUK:           {"Oats", "Barley", "Root vegetables", "Fish", "Berries", "Leafy greens"},
	RegionJapan:        {"Rice", "Fish", "Seaweed", "Soy products", "Green tea"},
	RegionChina:        {"Rice", "Tofu", "Vegetables", "Tea", "Ginger"},
}

// RegionalSuperfoods は地域で手に入りやすい食材を返します。
func RegionalSuperfoods(region Region) []string {
	if f, ok := regionalSuperfoods[region]; ok {
		return append([]string(nil), f...)
	}
	return []string{"Local seasonal produce", "Traditional grains", "Regional proteins"}
}

var regionalMealIdeas = map[Region][]string{
	RegionIndia: {
		"Breakfast: Oats upma with vegetables, or moong dal chilla",
		"Lunch: Brown rice + dal + sabzi + curd",
		"Dinner: Roti + lean curry + salad",
	},
	RegionNorthAmerica: {
		"Breakfast: Greek yogurt with berries and nuts",
		"Lunch: Quinoa salad with grilled chicken",
		"Dinner: Baked salmon with roasted vegetables",
	},
	RegionUK: {
		"Breakfast: Porridge with fruits and seeds",
		"Lunch: Lentil soup with whole grain bread",
		"Dinner: Grilled fish with steamed vegetables",
	},
	RegionJapan: {
		"Breakfast: Miso soup with rice and fish",
		"Lunch: Bento box with balanced portions",
		"Dinner: Grilled fish with steamed vegetables",
	},
	RegionChina: {
		"Breakfast: Congee with vegetables and protein",
		"Lunch: Stir-fried vegetables with tofu",
		"Dinner: Steamed fish with brown rice",
	},
	RegionUnrecognized: {
		"Focus on locally available seasonal fruits and vegetables",
		"Include traditional whole grains and legumes",
		"Adapt local dishes with healthier cooking methods",
	},
}
