package diet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_WeightLoss(t *testing.T) {
	sources := []MergeSource{
		{ChartID: 1, TotalCalories: 2000, Preference: "vegetarian"},
		{ChartID: 2, TotalCalories: 2400, Preference: "vegetarian"},
	}

	merged, err := Merge(sources, MergeWeightLoss)
	require.NoError(t, err)

	// (2000 + 2400) / 2 − 200
	assert.Equal(t, 2000, merged.TotalCalories)
	assert.Equal(t, 2, merged.ChartsUsed)
	assert.Equal(t, []int64{1, 2}, merged.MergedFrom)
	require.Len(t, merged.Meals, 5)
	assert.Equal(t, 600, merged.Meals[0].Calories)
	assert.Equal(t, 300, merged.Meals[4].Calories)
	assert.Equal(t, "10:00 AM", merged.Meals[1].Time)
	assert.Equal(t, "Greek yogurt with berries and nuts, Vegetable omelet with whole grain toast, Oatmeal with protein powder and fruits", merged.Meals[0].Foods)
	// 朝食: (0.25+0.35)/2, (0.50+0.35)/2, (0.25+0.30)/2
	assert.Equal(t, "P: 45g, C: 64g, F: 18g", merged.Meals[0].Macros)

	assert.Len(t, merged.OptimizationNotes, 9)
	assert.Equal(t, merged.OptimizationNotes, merged.OptimizationNotesSnake)
	assert.Contains(t, merged.OptimizationNotes[5], "2000 calories for sustainable weight loss")
	assert.Len(t, merged.Refinements, 5)
	assert.Equal(t, "Intelligently merged 2 diet charts for Weight Loss", merged.Refinements[0])
}

func TestMerge_NonVegetarianMuscleBuilding(t *testing.T) {
	merged, err := Merge([]MergeSource{{ChartID: 3, TotalCalories: 2250, Preference: "Non-Vegetarian"}}, MergeMuscleBuilding)
	require.NoError(t, err)

	assert.Equal(t, 2500, merged.TotalCalories)
	assert.Equal(t, 375, merged.Meals[1].Calories)
	assert.Contains(t, merged.Meals[2].Foods, "Grilled chicken with brown rice")
	assert.Contains(t, merged.Refinements[2], "non-vegetarian")
}

func TestMerge_UnknownGoalUsesMaintenance(t *testing.T) {
	merged, err := Merge([]MergeSource{{ChartID: 1, TotalCalories: 2000}}, "Flexibility")
	require.NoError(t, err)

	assert.Equal(t, 2000, merged.TotalCalories)
	assert.Equal(t, 500, merged.Meals[0].Calories)
	assert.Equal(t, "Balanced oatmeal with fruits and nuts, Vegetable omelet with whole grain bread, Greek yogurt parfait", merged.Meals[0].Foods)
	assert.Contains(t, merged.OptimizationNotes[5], "Balanced maintenance")
}

func TestMerge_NoCharts(t *testing.T) {
	_, err := Merge(nil, MergeMaintenance)
	assert.ErrorIs(t, err, ErrNoCharts)
}

func TestMergedName(t *testing.T) {
	assert.Equal(t, "Merged Diet Plan - Weight Gain (3 charts)", MergedName(MergeWeightGain, 3))
}

func TestParseChartSummary(t *testing.T) {
	user := []byte(`{"dietaryPreference":"non-vegetarian"}`)

	flat := []byte(`{"meals":[{"name":"Lunch","calories":700}],"totalCalories":1900}`)
	src := ParseChartSummary(1, flat, user, 1500)
	assert.Equal(t, 1900, src.TotalCalories)
	assert.Equal(t, "non-vegetarian", src.Preference)

	summed := []byte(`{"meals":[{"name":"Lunch","calories":700},{"name":"Dinner","calories":400}]}`)
	assert.Equal(t, 1100, ParseChartSummary(1, summed, nil, 1500).TotalCalories)

	nested, err := json.Marshal(ChartData{Meals: NormalizedMealPlan{TotalCalories: 2100}})
	require.NoError(t, err)
	assert.Equal(t, 2100, ParseChartSummary(1, nested, nil, 1500).TotalCalories)

	src = ParseChartSummary(1, []byte(`not json`), []byte(`{}`), 1500)
	assert.Equal(t, 1500, src.TotalCalories)
	assert.Equal(t, "vegetarian", src.Preference)
}
