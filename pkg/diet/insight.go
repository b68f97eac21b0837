package diet

// Insight は各段階の分析結果を蓄積します。各段階は自分のフィールドだけを書き込み、前の段階の値は読むだけです。
type Insight struct {
	Profile      *ProfileInsight      `json:"userProfile,omitempty"`
	Health       *HealthInsight       `json:"healthAssessment,omitempty"`
	Calories     *CalorieInsight      `json:"calorieStrategy,omitempty"`
	Dietary      *DietaryInsight      `json:"dietaryStrategy,omitempty"`
	Regional     *RegionalInsight     `json:"regionalIntegration,omitempty"`
	MealPlan     *MealPlanInsight     `json:"mealPlan,omitempty"`
	Optimization *OptimizationInsight `json:"optimization,omitempty"`
}

type ProfileInsight struct {
	BMI           float64       `json:"bmi"`
	Category      BMICategory   `json:"bmiCategory"`
	Goal          string        `json:"goal"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Analysis      string        `json:"analysis"`
	Suggestions   []string      `json:"suggestions"`
}

type HealthInsight struct {
	BMR             float64        `json:"bmr"`
	HealthRisks     []string       `json:"healthRisks"`
	Recommendations string         `json:"recommendations"`
	Suggestions     []string       `json:"suggestions"`
	AdjustedSlots   []SlotCalories `json:"adjustedSlots"`
}

type CalorieInsight struct {
	Balance          float64        `json:"balance"`
	TargetCalories   int            `json:"targetCalories"`
	Strategy         string         `json:"strategy"`
	MealDistribution string         `json:"mealDistribution"`
	AdjustedSlots    []SlotCalories `json:"adjustedSlots"`
}

type DietaryInsight struct {
	Preferences    string   `json:"preferences"`
	Diet           Diet     `json:"diet"`
	ProteinSources []string `json:"proteinSources"`
	Restrictions   string   `json:"restrictions"`
	Strategy       string   `json:"strategy"`
	FoodList       []string `json:"foodList"`
}

type RegionalInsight struct {
	Region        string   `json:"region"`
	RegionTag     Region   `json:"regionTag"`
	LocalFoods    []string `json:"localFoods"`
	Integration   string   `json:"integration"`
	RegionalMeals []string `json:"regionalMeals"`
}

type MealPlanInsight struct {
	Schedule []ScheduledMeal `json:"schedule"`
	Portions Portions        `json:"portions"`
	Plan     string          `json:"plan"`
	Preview  string          `json:"preview"`
}

type OptimizationInsight struct {
	Summary string `json:"summary"`
}

// TargetCalories は段階3で決まった目標カロリーです。未確定なら2000を返します。
func (in Insight) TargetCalories() int {
	if in.Calories != nil && in.Calories.TargetCalories > 0 {
		return in.Calories.TargetCalories
	}
	return 2000
}

// Preferences は段階4で記録した食事スタイルです。
func (in Insight) Preferences(fallback string) string {
	if in.Dietary != nil && in.Dietary.Preferences != "" {
		return in.Dietary.Preferences
	}
	return fallback
}

// RegionName は段階5で記録した地域名です。
func (in Insight) RegionName(fallback string) string {
	if in.Regional != nil && in.Regional.Region != "" {
		return in.Regional.Region
	}
	return fallback
}
