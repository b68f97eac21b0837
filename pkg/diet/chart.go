package diet

import (
	"fmt"
	"math"
)

// MealEntry は食事表の1行です。
type MealEntry struct {
	Time     string `json:"time"`
	Name     Slot   `json:"name"`
	Calories int    `json:"calories"`
	Foods    string `json:"foods"`
	Macros   string `json:"macros"`
}

// ProgressiveChart は段階ごとに作られる食事表のスナップショットです。
// 一度作成したスナップショットは変更せず、次の段階は新しい値を作ります。
type ProgressiveChart struct {
	Meals         []MealEntry `json:"meals"`
	Refinements   []string    `json:"refinements"`
	TotalCalories int         `json:"totalCalories"`
	ChartType     string      `json:"chartType"`
	StepLevel     int         `json:"stepLevel"`
}

// clone は独立したコピーを返します。
func (c ProgressiveChart) clone() ProgressiveChart {
	out := c
	out.Meals = append([]MealEntry(nil), c.Meals...)
	out.Refinements = append([]string(nil), c.Refinements...)
	return out
}

// SumMeals は食事表の合計カロリーです。
func SumMeals(meals []MealEntry) int {
	total := 0
	for _, m := range meals {
		total += m.Calories
	}
	return total
}

// chartContext は食事表の更新に必要な入力です。
type chartContext struct {
	profile Profile
	metrics Metrics
	target  float64
	diet    Diet
	region  Region
	goal    Goal
}

func newChartContext(p Profile, m Metrics) chartContext {
	return chartContext{
		profile: p,
		metrics: m,
		target:  ChartTarget(p),
		diet:    NormalizeDiet(p.DietaryPreference),
		region:  NormalizeRegion(p.Country),
		goal:    NormalizeGoal(p.Goal),
	}
}

func (cc chartContext) food(slot Slot, stage Stage) string {
	return Lookup(slot, stage, cc.diet, cc.region, cc.goal)
}

// BaseChart は段階1の食事表を基本配分から作ります。
func BaseChart(p Profile, m Metrics) ProgressiveChart {
	cc := newChartContext(p, m)
	meals := make([]MealEntry, 0, len(Slots))
	for _, slot := range Slots {
		cal := Allocate(cc.target, slot)
		meals = append(meals, MealEntry{
			Time:     SlotTime(slot),
			Name:     slot,
			Calories: cal,
			Foods:    cc.food(slot, StageProfile),
			Macros:   BaseMacros(cal, slot).String(),
		})
	}
	goal := p.Goal
	if goal == "" {
		goal = "general fitness"
	}
	return ProgressiveChart{
		Meals:         meals,
		Refinements:   []string{fmt.Sprintf("Step 1: Basic meal structure created for %s's %s goal", p.withDefaults().Name, goal)},
		TotalCalories: SumMeals(meals),
		ChartType:     chartTypeFor(1),
		StepLevel:     1,
	}
}

// Refine は前段階の食事表から次の段階の食事表を作ります。prev は変更しません。
// 健康と目標によるカロリー係数はここでは掛けません。係数を反映した配分は
// HealthInsight と CalorieInsight の AdjustedSlots にだけ載り、食事表の合計は目標カロリーのまま保たれます。
func Refine(prev ProgressiveChart, step int, p Profile, m Metrics) (ProgressiveChart, error) {
	if step < 2 || step > 6 {
		return ProgressiveChart{}, fmt.Errorf("no chart refinement for step %d", step)
	}
	if len(prev.Meals) == 0 {
		return ProgressiveChart{}, fmt.Errorf("step %d: previous chart is empty", step)
	}
	cc := newChartContext(p, m)
	next := prev.clone()

	var note string
	macros := BaseMacros
	switch step {
	case 2:
		next.setFoods(cc, StageHealth)
		next.setCalories(SlotLunch, roundInt(cc.target*0.35))
		note = fmt.Sprintf("Step 2: Health-optimized portions for BMI %s (%s)", formatNumber(m.BMI), m.Category)
	case 3:
		next.setFoods(cc, StageCalories)
		if cc.goal == GoalLoss {
			// 合計を保ったまま昼食に寄せ、夕食を軽くします。
			next.setCalories(SlotLunch, roundInt(cc.target*0.40))
			next.setCalories(SlotDinner, roundInt(cc.target*0.15))
		}
		note = fmt.Sprintf("Step 3: Calorie distribution optimized for %s daily target", formatNumber(cc.target))
	case 4:
		next.setFoods(cc, StageDietary)
		pref := p.DietaryPreference
		if pref == "" {
			pref = "balanced"
		}
		note = fmt.Sprintf("Step 4: Food choices aligned with %s preferences", pref)
	case 5:
		next.setFoods(cc, StageRegional)
		country := p.Country
		if country == "" {
			country = "your region"
		}
		note = fmt.Sprintf("Step 5: Regional foods from %s integrated", country)
	case 6:
		next.setFoods(cc, StageComplete)
		macros = PlanMacros
		note = "Step 6: Complete meal plan with detailed portions and timing"
	}

	for i := range next.Meals {
		next.Meals[i].Macros = macros(next.Meals[i].Calories, next.Meals[i].Name).String()
	}
	next.Refinements = append(next.Refinements, note)
	next.TotalCalories = SumMeals(next.Meals)
	next.ChartType = chartTypeFor(step)
	next.StepLevel = step
	return next, nil
}

func (c *ProgressiveChart) setFoods(cc chartContext, stage Stage) {
	for i := range c.Meals {
		c.Meals[i].Foods = cc.food(c.Meals[i].Name, stage)
	}
}

func (c *ProgressiveChart) setCalories(slot Slot, calories int) {
	for i := range c.Meals {
		if c.Meals[i].Name == slot {
			c.Meals[i].Calories = int(math.Max(0, float64(calories)))
		}
	}
}

func chartTypeFor(step int) string {
	for _, def := range Steps {
		if def.Number == step {
			return def.ChartType
		}
	}
	return ""
}
