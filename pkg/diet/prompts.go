package diet

import (
	"fmt"
	"strings"
	"text/template"
)

// PromptSet は段階ごとのプロンプトテンプレート(text/template)です。
type PromptSet map[StepID]string

// DefaultPrompts は組み込みのプロンプトテンプレートを返します。
func DefaultPrompts() PromptSet {
	return PromptSet{
		StepProfile: `Analyze this user's profile for diet planning:

Name: {{.Profile.Name}}
Age: {{.Profile.Age}} years
Height: {{num .Profile.Height}} cm
Weight: {{num .Profile.Weight}} kg
BMI: {{num .Metrics.BMI}} ({{.Metrics.Category}})
Goal: {{.Profile.Goal}}
Exercises: {{.Profile.Exercises}}

Provide detailed analysis with:
1. **Physical Assessment**: BMI interpretation and body composition insights
2. **Goal Analysis**: How realistic and achievable the fitness goal is
3. **Activity Evaluation**: Exercise routine effectiveness for the goal
4. **Initial Recommendations**: 3-4 specific dietary suggestions to start with
5. **Key Focus Areas**: What should be prioritized in diet planning

Format with clear sections and bullet points. Include specific actionable advice.`,

		StepHealth: `Based on the user profile analysis: "{{.Insight.Profile.Analysis}}"

Assess health status for: BMI {{num .Metrics.BMI}} ({{.Metrics.Category}}), Age {{.Profile.Age}}
BMR: {{num .Metrics.BMR}} calories

Provide comprehensive health assessment with:
1. **BMI Health Analysis**: Detailed implications and health risks/benefits
2. **Metabolic Rate Insights**: How BMR affects daily nutrition needs
3. **Health Recommendations**: Specific dietary adjustments for health optimization
4. **Warning Signs**: What to watch out for with current health status
5. **Sample Meal Timing**: When to eat based on metabolic needs

Include specific calorie ranges and meal frequency recommendations.`,

		StepCalories: `Based on previous analysis:
Profile: "{{.Insight.Profile.Analysis}}"
Health: "{{.Insight.Health.Recommendations}}"

Analyze calorie balance:
Daily Intake: {{num .Profile.CaloriesIntake}} calories
Daily Burn: {{num .Profile.CaloriesBurn}} calories
BMR: {{num .Metrics.BMR}} calories
Goal: {{.Profile.Goal}}

Provide comprehensive calorie optimization with:
1. **Current Balance Analysis**: Surplus/deficit breakdown and implications
2. **Optimal Target Calories**: Specific daily calorie goals for the fitness goal
3. **Meal Distribution Strategy**: How to split calories across meals (breakfast, lunch, dinner, snacks)
4. **Timing Optimization**: When to eat larger vs smaller meals
5. **Sample Daily Schedule**: Example calorie distribution with timing
6. **Adjustment Guidelines**: How to modify based on progress

Include specific numbers and meal examples.`,

		StepDietary: `Based on accumulated insights:
Profile: "{{.Insight.Profile.Analysis}}"
Health: "{{.Insight.Health.Recommendations}}"
Calories: "{{.Insight.Calories.Strategy}}"

Analyze dietary preferences:
Diet Type: {{.DietType}}
Allergies: {{.Profile.Allergies}}
Target Calories: {{.Target}}

Provide comprehensive dietary strategy with:
1. **Protein Strategy**: Best protein sources for this diet type and fitness goal
2. **Nutrient Optimization**: Key vitamins/minerals to focus on
3. **Food Restrictions Management**: How to work around allergies/restrictions
4. **Meal Variety Plan**: 7-day rotation ideas to prevent boredom
5. **Shopping List**: Top 15 foods to buy for this dietary approach
6. **Preparation Tips**: Easy meal prep ideas for busy days

Include specific food names and preparation methods.`,

		StepRegional: `Integrating regional preferences with established strategy:
Profile: "{{.Insight.Profile.Analysis}}"
Health: "{{.Insight.Health.Recommendations}}"
Calories: "{{.Insight.Calories.Strategy}}"
Dietary Strategy: "{{.Insight.Dietary.Strategy}}"
Region: {{.Region}}
Diet Type: {{.DietType}}
Target Calories: {{.Target}}

Provide comprehensive regional food integration with:
1. **Local Superfoods**: Top regional foods that align with fitness goals
2. **Cultural Meal Patterns**: Traditional eating schedules and how to optimize them
3. **Seasonal Menu Planning**: What to eat in different seasons for best results
4. **Regional Recipe Adaptations**: Healthy versions of traditional dishes
5. **Local Market Guide**: Where to find the best ingredients in this region
6. **Sample Regional Meals**: 3 breakfast, lunch, and dinner ideas using local foods

Include specific dish names, ingredients, and cooking methods from this region.`,

		StepPlanning: `Generate comprehensive meal plan using all insights:
Profile: {{.Goal}}
Calorie Target: {{.Target}}
Diet Type: {{.DietType}}
Region: {{.Region}}
Profile Analysis: "{{.Insight.Profile.Analysis}}"
Health: "{{.Insight.Health.Recommendations}}"
Calories: "{{.Insight.Calories.Strategy}}"
Dietary Strategy: "{{.Insight.Dietary.Strategy}}"
Regional Integration: "{{.Insight.Regional.Integration}}"

Create detailed meal plan with:
1. **7-Day Meal Schedule**: Complete breakfast, lunch, dinner, and snack plans
2. **Portion Size Guide**: Exact measurements and serving sizes
3. **Meal Timing Strategy**: Optimal eating schedule for metabolism
4. **Hydration Protocol**: Water intake recommendations throughout the day
5. **Supplement Plan**: Essential vitamins/minerals and timing
6. **Meal Prep Instructions**: How to prepare meals in advance
7. **Emergency Options**: Quick healthy meals for busy days

Include specific recipes, cooking times, and nutritional breakdowns.`,
	}
}

// promptData はテンプレートに渡す値です。
type promptData struct {
	Profile  Profile
	Metrics  Metrics
	Insight  Insight
	Target   int
	DietType string
	Region   string
	Goal     string
}

func newPromptData(st State) promptData {
	p := st.Profile
	dietType := p.DietaryPreference
	if dietType == "" {
		dietType = "vegetarian"
	}
	if st.Insight.Dietary != nil && st.Insight.Dietary.Preferences != "" {
		dietType = st.Insight.Dietary.Preferences
	}
	region := p.Country
	if region == "" {
		region = "Global"
	}
	goal := p.Goal
	if st.Insight.Profile != nil && st.Insight.Profile.Goal != "" {
		goal = st.Insight.Profile.Goal
	}
	if goal == "" {
		goal = "General fitness"
	}
	return promptData{
		Profile:  p,
		Metrics:  st.Metrics,
		Insight:  st.Insight,
		Target:   st.Insight.TargetCalories(),
		DietType: dietType,
		Region:   region,
		Goal:     goal,
	}
}

var promptFuncs = template.FuncMap{"num": formatNumber}

// compilePrompts は上書き分を既定に重ねてテンプレートを解析します。
func compilePrompts(overrides PromptSet) (map[StepID]*template.Template, error) {
	merged := DefaultPrompts()
	for id, text := range overrides {
		if strings.TrimSpace(text) != "" {
			merged[id] = text
		}
	}
	out := make(map[StepID]*template.Template, len(merged))
	for id, text := range merged {
		t, err := template.New(string(id)).Funcs(promptFuncs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompt template %q: %w", id, err)
		}
		out[id] = t
	}
	return out, nil
}
