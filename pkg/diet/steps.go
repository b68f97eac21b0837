package diet

import (
	"context"
	"fmt"
)

const (
	headingProfile  = "🎯 Immediate Action Items"
	headingHealth   = "🏥 Health-Based Diet Recommendations"
	headingCalories = "⚡ Calorie Strategy Implementation"
	headingDietary  = "🥗 Dietary Preference Action Plan"
	headingRegional = "🌍 Regional Integration Plan"
	headingPlanning = "📅 7-Day Meal Plan Preview"
)

func (p *Pipeline) stepTable() map[StepID]stepFuncs {
	return map[StepID]stepFuncs{
		StepProfile:      {run: p.profileStep, fallback: p.profileFallback},
		StepHealth:       {run: p.healthStep, fallback: p.healthFallback},
		StepCalories:     {run: p.caloriesStep, fallback: p.caloriesFallback},
		StepDietary:      {run: p.dietaryStep, fallback: p.dietaryFallback},
		StepRegional:     {run: p.regionalStep, fallback: p.regionalFallback},
		StepPlanning:     {run: p.planningStep, fallback: p.planningFallback},
		StepOptimization: {run: p.optimizationStep, fallback: p.optimizationFallback},
	}
}

// fragment は生成文章・提案・食事表を1つのHTML断片にまとめます。
func fragment(text, heading, body, chart string) string {
	out := fmt.Sprintf("%s<br><br><strong>%s:</strong><br>%s", text, heading, body)
	if chart != "" {
		out += "<br><br>" + chart
	}
	return out
}

// degradedFragment は段階が失敗したときのHTML断片です。
func degradedFragment(step int, heading, body, chart string) string {
	title := Steps[step-1].Title
	out := fmt.Sprintf("<strong>✅ %s Completed:</strong><br><br><strong>%s:</strong><br>%s", title, heading, body)
	if chart != "" {
		out += "<br><br>" + chart
	}
	return out
}

// refineFrom は前段階の食事表から指定段階の食事表を作ります。前段階が無ければ段階1から作り直します。
func refineFrom(st State, step int) (ProgressiveChart, error) {
	if prev, ok := st.Chart(step - 1); ok {
		return Refine(prev, step, st.Profile, st.Metrics)
	}
	chart := BaseChart(st.Profile, st.Metrics)
	for s := 2; s <= step; s++ {
		next, err := Refine(chart, s, st.Profile, st.Metrics)
		if err != nil {
			return ProgressiveChart{}, err
		}
		chart = next
	}
	return chart, nil
}

// chartOutput は食事表を State に追加し、描画したHTMLを返します。
func chartOutput(st State, step int) (State, string, error) {
	var chart ProgressiveChart
	if step == 1 {
		chart = BaseChart(st.Profile, st.Metrics)
	} else {
		c, err := refineFrom(st, step)
		if err != nil {
			return st, "", err
		}
		chart = c
	}
	return st.withChart(chart), RenderMiniChart(chart), nil
}

// 段階1: プロフィール分析

func (p *Pipeline) profileInsight(st State, analysis string) *ProfileInsight {
	return &ProfileInsight{
		BMI:           st.Metrics.BMI,
		Category:      st.Metrics.Category,
		Goal:          st.Profile.Goal,
		ActivityLevel: ExtractActivityLevel(st.Profile.Exercises),
		Analysis:      analysis,
		Suggestions:   ProfileSuggestions(st.Profile, st.Metrics),
	}
}

func (p *Pipeline) profileStep(ctx context.Context, st State) (stepOutput, error) {
	gen, err := p.ask(ctx, StepProfile, st)
	if err != nil {
		return stepOutput{}, err
	}
	st.Insight.Profile = p.profileInsight(st, gen.Text)
	st, chart, err := chartOutput(st, 1)
	if err != nil {
		return stepOutput{}, err
	}
	return stepOutput{
		state:        st,
		fragment:     fragment(gen.Text, headingProfile, bullets(st.Insight.Profile.Suggestions), chart),
		textFallback: gen.Fallback,
	}, nil
}

func (p *Pipeline) profileFallback(st State) (stepOutput, error) {
	profile := st.Profile
	st.Insight.Profile = p.profileInsight(st, FallbackText(&profile))
	st, chart, err := chartOutput(st, 1)
	if err != nil {
		chart = ""
	}
	return stepOutput{state: st, fragment: degradedFragment(1, headingProfile, bullets(st.Insight.Profile.Suggestions), chart)}, nil
}

// 段階2: 健康状態とBMIの評価

func (p *Pipeline) healthInsight(st State, recommendations string) *HealthInsight {
	return &HealthInsight{
		BMR:             st.Metrics.BMR,
		HealthRisks:     HealthRisks(st.Metrics.Category),
		Recommendations: recommendations,
		Suggestions:     HealthSuggestions(st.Profile, st.Metrics),
		AdjustedSlots:   p.allocator.AdjustedSlots(ChartTarget(st.Profile), st.Metrics.Category, st.Profile.Goal, StageHealthAdjust),
	}
}

func (p *Pipeline) healthStep(ctx context.Context, st State) (stepOutput, error) {
	gen, err := p.ask(ctx, StepHealth, st)
	if err != nil {
		return stepOutput{}, err
	}
	st.Insight.Health = p.healthInsight(st, gen.Text)
	st, chart, err := chartOutput(st, 2)
	if err != nil {
		return stepOutput{}, err
	}
	return stepOutput{
		state:        st,
		fragment:     fragment(gen.Text, headingHealth, bullets(st.Insight.Health.Suggestions), chart),
		textFallback: gen.Fallback,
	}, nil
}

func (p *Pipeline) healthFallback(st State) (stepOutput, error) {
	profile := st.Profile
	st.Insight.Health = p.healthInsight(st, FallbackText(&profile))
	st, chart, err := chartOutput(st, 2)
	if err != nil {
		chart = ""
	}
	return stepOutput{state: st, fragment: degradedFragment(2, headingHealth, bullets(st.Insight.Health.Suggestions), chart)}, nil
}

// 段階3: カロリー収支の分析

func (p *Pipeline) calorieInsight(st State, strategy string) *CalorieInsight {
	level := ExtractActivityLevel(st.Profile.Exercises)
	if st.Insight.Profile != nil && st.Insight.Profile.ActivityLevel != "" {
		level = st.Insight.Profile.ActivityLevel
	}
	target := OptimalCalories(st.Profile, level)
	adjusted := p.allocator.AdjustedSlots(ChartTarget(st.Profile), st.Metrics.Category, st.Profile.Goal, StageGoalAdjust)
	return &CalorieInsight{
		Balance:          st.Metrics.CalorieBalance,
		TargetCalories:   target,
		Strategy:         strategy,
		MealDistribution: CalorieSuggestions(target, adjusted),
		AdjustedSlots:    adjusted,
	}
}

func (p *Pipeline) caloriesStep(ctx context.Context, st State) (stepOutput, error) {
	gen, err := p.ask(ctx, StepCalories, st)
	if err != nil {
		return stepOutput{}, err
	}
	st.Insight.Calories = p.calorieInsight(st, gen.Text)
	st, chart, err := chartOutput(st, 3)
	if err != nil {
		return stepOutput{}, err
	}
	return stepOutput{
		state:        st,
		fragment:     fragment(gen.Text, headingCalories, st.Insight.Calories.MealDistribution, chart),
		textFallback: gen.Fallback,
	}, nil
}

func (p *Pipeline) caloriesFallback(st State) (stepOutput, error) {
	profile := st.Profile
	st.Insight.Calories = p.calorieInsight(st, FallbackText(&profile))
	st, chart, err := chartOutput(st, 3)
	if err != nil {
		chart = ""
	}
	return stepOutput{state: st, fragment: degradedFragment(3, headingCalories, st.Insight.Calories.MealDistribution, chart)}, nil
}

// 段階4: 食事スタイルの戦略

func dietaryInsight(st State, strategy string, sources []string) *DietaryInsight {
	pref := st.Profile.DietaryPreference
	if pref == "" {
		pref = "vegetarian"
	}
	tag := NormalizeDiet(pref)
	if sources == nil {
		sources = ProteinSources(tag)
	}
	return &DietaryInsight{
		Preferences:    pref,
		Diet:           tag,
		ProteinSources: sources,
		Restrictions:   st.Profile.Allergies,
		Strategy:       strategy,
		FoodList:       DietarySuggestions(st.Profile),
	}
}

func (p *Pipeline) dietaryStep(ctx context.Context, st State) (stepOutput, error) {
	gen, err := p.ask(ctx, StepDietary, st)
	if err != nil {
		return stepOutput{}, err
	}
	st.Insight.Dietary = dietaryInsight(st, gen.Text, nil)
	st, chart, err := chartOutput(st, 4)
	if err != nil {
		return stepOutput{}, err
	}
	return stepOutput{
		state:        st,
		fragment:     fragment(gen.Text, headingDietary, bullets(st.Insight.Dietary.FoodList), chart),
		textFallback: gen.Fallback,
	}, nil
}

func (p *Pipeline) dietaryFallback(st State) (stepOutput, error) {
	st.Insight.Dietary = dietaryInsight(st, "Dietary strategy analysis completed with basic recommendations.", []string{"Varied protein sources"})
	st, chart, err := chartOutput(st, 4)
	if err != nil {
		chart = ""
	}
	return stepOutput{state: st, fragment: degradedFragment(4, headingDietary, bullets(st.Insight.Dietary.FoodList), chart)}, nil
}

// 段階5: 地域の食材の取り込み

func regionalInsight(st State, integration string, localFoods []string) *RegionalInsight {
	region := st.Profile.Country
	if region == "" {
		region = "Global"
	}
	tag := NormalizeRegion(region)
	if localFoods == nil {
		localFoods = RegionalSuperfoods(tag)
	}
	return &RegionalInsight{
		Region:        region,
		RegionTag:     tag,
		LocalFoods:    localFoods,
		Integration:   integration,
		RegionalMeals: RegionalSuggestions(tag),
	}
}

func (p *Pipeline) regionalStep(ctx context.Context, st State) (stepOutput, error) {
	gen, err := p.ask(ctx, StepRegional, st)
	if err != nil {
		return stepOutput{}, err
	}
	st.Insight.Regional = regionalInsight(st, gen.Text, nil)
	st, chart, err := chartOutput(st, 5)
	if err != nil {
		return stepOutput{}, err
	}
	return stepOutput{
		state:        st,
		fragment:     fragment(gen.Text, headingRegional, bullets(st.Insight.Regional.RegionalMeals), chart),
		textFallback: gen.Fallback,
	}, nil
}

func (p *Pipeline) regionalFallback(st State) (stepOutput, error) {
	st.Insight.Regional = regionalInsight(st, "Regional food integration completed with basic recommendations.", []string{"Local seasonal foods"})
	st, chart, err := chartOutput(st, 5)
	if err != nil {
		chart = ""
	}
	return stepOutput{state: st, fragment: degradedFragment(5, "🌍 Regional Meal Suggestions", bullets(st.Insight.Regional.RegionalMeals), chart)}, nil
}

// 段階6: 食事プランの生成

func mealPlanInsight(st State, plan string) *MealPlanInsight {
	target := st.Insight.TargetCalories()
	return &MealPlanInsight{
		Schedule: MealScheduleFor(target),
		Portions: PortionsFor(target),
		Plan:     plan,
		Preview:  MealPlanPreview(target, st.Insight.Preferences("vegetarian")),
	}
}

func (p *Pipeline) planningStep(ctx context.Context, st State) (stepOutput, error) {
	gen, err := p.ask(ctx, StepPlanning, st)
	if err != nil {
		return stepOutput{}, err
	}
	st.Insight.MealPlan = mealPlanInsight(st, gen.Text)
	st, chart, err := chartOutput(st, 6)
	if err != nil {
		return stepOutput{}, err
	}
	return stepOutput{
		state:        st,
		fragment:     fragment(gen.Text, headingPlanning, st.Insight.MealPlan.Preview, chart),
		textFallback: gen.Fallback,
	}, nil
}

func (p *Pipeline) planningFallback(st State) (stepOutput, error) {
	st.Insight.MealPlan = mealPlanInsight(st, "Meal plan generation completed with basic structure.")
	st, chart, err := chartOutput(st, 6)
	if err != nil {
		chart = ""
	}
	return stepOutput{state: st, fragment: degradedFragment(6, headingPlanning, st.Insight.MealPlan.Preview, chart)}, nil
}

// 段階7: 最終調整。食事表は更新せず要約だけを作ります。

func (p *Pipeline) optimizationStep(_ context.Context, st State) (stepOutput, error) {
	summary := OptimizationSummary(st.Insight)
	st.Insight.Optimization = &OptimizationInsight{Summary: summary}
	html := `<div class="optimization-summary"><strong>🎯 Final Optimization Complete!</strong><br>` + summary + `</div>` +
		`<div class="completion-message"><h3>✅ AI Diet Analysis Complete!</h3>` +
		`<p>Your personalized diet recommendations have been generated through 7 comprehensive steps. Each step above contains specific insights and mini diet charts tailored to your profile.</p>` +
		`<p><strong>💡 Review each step above for detailed nutritional guidance and meal suggestions.</strong></p></div>`
	return stepOutput{state: st, fragment: html}, nil
}

func (p *Pipeline) optimizationFallback(st State) (stepOutput, error) {
	summary := OptimizationSummary(st.Insight)
	st.Insight.Optimization = &OptimizationInsight{Summary: summary}
	html := `<div class="optimization-summary"><strong>🎯 Final Optimization Complete!</strong><br>` + summary + `</div>` +
		`<div class="completion-message"><h3>✅ AI Diet Analysis Complete!</h3>` +
		`<p>Your personalized diet recommendations have been generated. Review the steps above for detailed guidance.</p></div>`
	return stepOutput{state: st, fragment: html}, nil
}
