package diet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator はプロンプトを記録し、固定の文章か指定されたエラーを返します。
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	failOn  string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", errors.New("connection refused")
	}
	return "**Advice** for this step\n\nEat well.", nil
}

func (f *fakeGenerator) promptContaining(s string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prompts {
		if strings.Contains(p, s) {
			return p
		}
	}
	return ""
}

func weightLossProfile() Profile {
	return Profile{
		Name:              "Asha",
		Age:               28,
		Height:            170,
		Weight:            65,
		CaloriesIntake:    2000,
		CaloriesBurn:      2200,
		Country:           "India",
		DietaryPreference: "vegetarian",
		Goal:              "weight loss",
		Exercises:         "regular yoga and walking",
		Allergies:         "none",
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{}
	p, err := NewPipeline(gen, Options{})
	require.NoError(t, err)

	st, err := p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)

	assert.Equal(t, 22.5, st.Metrics.BMI)
	assert.Equal(t, CategoryNormal, st.Metrics.Category)

	require.Len(t, st.Results, len(Steps))
	for i, res := range st.Results {
		assert.Equal(t, Steps[i].ID, res.Step)
		assert.Equal(t, StatusOK, res.Status, res.Step)
		assert.NotEmpty(t, res.Fragment, res.Step)
	}
	assert.Contains(t, st.Results[0].Fragment, "<strong>Advice</strong>")

	require.Len(t, st.Charts, 6)
	final, ok := st.Chart(6)
	require.True(t, ok)
	assert.InDelta(t, 2000, final.TotalCalories, 50)
	assert.Equal(t, "Complete-Meal-Plan", final.ChartType)
	for _, meal := range final.Meals {
		assert.Equal(t, PlanMacros(meal.Calories, meal.Name).String(), meal.Macros, meal.Name)
	}

	require.Len(t, final.Refinements, 6)
	for i, line := range final.Refinements {
		assert.True(t, strings.HasPrefix(line, "Step "+string(rune('1'+i))+":"), line)
	}

	assert.NotNil(t, st.Insight.Optimization)
	assert.Len(t, gen.prompts, 6)
}

func TestPipeline_WeightLossRedistributesCalories(t *testing.T) {
	p, err := NewPipeline(&fakeGenerator{}, Options{})
	require.NoError(t, err)

	st, err := p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)

	base, _ := st.Chart(1)
	assert.Equal(t, []int{500, 200, 700, 200, 400}, calories(base))
	tuned, _ := st.Chart(3)
	assert.Equal(t, []int{500, 200, 800, 200, 300}, calories(tuned))
	assert.Equal(t, 2000, tuned.TotalCalories)
	final, _ := st.Chart(6)
	assert.Equal(t, 2000, final.TotalCalories)

	// 補正後の枠ごとの値は分析結果として残ります
	require.NotNil(t, st.Insight.Calories)
	assert.Equal(t, 1700, SumSlots(st.Insight.Calories.AdjustedSlots))
}

func calories(c ProgressiveChart) []int {
	out := make([]int, 0, len(c.Meals))
	for _, m := range c.Meals {
		out = append(out, m.Calories)
	}
	return out
}

func TestPipeline_SnapshotsAreIndependent(t *testing.T) {
	p, err := NewPipeline(&fakeGenerator{}, Options{})
	require.NoError(t, err)

	st, err := p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)

	first, _ := st.Chart(1)
	assert.Len(t, first.Refinements, 1)
	assert.Equal(t, "Profile-Based", first.ChartType)
	assert.Equal(t, "Oats with fruits and nuts", first.Meals[0].Foods)
}

func TestPipeline_TextFailureAtCaloriesStep(t *testing.T) {
	gen := &fakeGenerator{failOn: "Analyze calorie balance"}
	p, err := NewPipeline(gen, Options{})
	require.NoError(t, err)

	st, err := p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)

	res := st.Results[2]
	assert.Equal(t, StepCalories, res.Step)
	assert.True(t, res.TextFallback)
	assert.NotEmpty(t, res.Fragment)

	require.NotNil(t, st.Insight.Calories)
	profile := st.Profile
	assert.Equal(t, FallbackText(&profile), st.Insight.Calories.Strategy)

	dietary := gen.promptContaining("Analyze dietary preferences")
	require.NotEmpty(t, dietary)
	assert.Contains(t, dietary, st.Insight.Calories.Strategy)
	assert.Equal(t, StatusOK, st.Results[3].Status)
}

func TestPipeline_StepErrorDegrades(t *testing.T) {
	p, err := NewPipeline(&fakeGenerator{}, Options{
		Prompts: PromptSet{StepHealth: "BMI {{.Insight.Missing}}"},
	})
	require.NoError(t, err)

	st, err := p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)

	res := st.Results[1]
	assert.Equal(t, StatusDegraded, res.Status)
	assert.NotEmpty(t, res.Reason)
	assert.Contains(t, res.Fragment, "Health & BMI Assessment Completed")

	// 以降の段階は通常どおり進みます
	assert.Len(t, st.Results, len(Steps))
	assert.Len(t, st.Charts, 6)
	assert.Equal(t, StatusOK, st.Results[2].Status)
}

func TestPipeline_NilGeneratorUsesFallbackText(t *testing.T) {
	p, err := NewPipeline(nil, Options{})
	require.NoError(t, err)

	st, err := p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)
	for _, res := range st.Results[:6] {
		assert.True(t, res.TextFallback, res.Step)
	}
}

func TestPipeline_InvalidProfile(t *testing.T) {
	p, err := NewPipeline(&fakeGenerator{}, Options{})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Profile{Age: 30, Weight: 70})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestNewPipeline_BadTemplate(t *testing.T) {
	_, err := NewPipeline(nil, Options{Prompts: PromptSet{StepProfile: "{{.Profile"}})
	assert.Error(t, err)
}

type recordingObserver struct {
	started  []StepID
	finished []StepStatus
}

func (r *recordingObserver) StepStarted(def StepDefinition) { r.started = append(r.started, def.ID) }
func (r *recordingObserver) StepFinished(_ StepDefinition, res StepResult) {
	r.finished = append(r.finished, res.Status)
}

func TestPipeline_Observer(t *testing.T) {
	obs := &recordingObserver{}
	p, err := NewPipeline(&fakeGenerator{}, Options{Observer: obs})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)

	require.Len(t, obs.started, len(Steps))
	assert.Equal(t, StepProfile, obs.started[0])
	assert.Equal(t, StepOptimization, obs.started[6])
	assert.Len(t, obs.finished, len(Steps))
}

// markerGenerator は呼び出し順に番号付きの文章を返します。
type markerGenerator struct {
	mu      sync.Mutex
	prompts []string
}

func (m *markerGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return fmt.Sprintf("stepmarker%d", len(m.prompts)), nil
}

func TestPipeline_PromptsCarryEarlierStepText(t *testing.T) {
	gen := &markerGenerator{}
	p, err := NewPipeline(gen, Options{})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), weightLossProfile())
	require.NoError(t, err)
	require.Len(t, gen.prompts, 6)

	tests := []struct {
		name string
		step int
	}{
		{"health", 2},
		{"calories", 3},
		{"dietary", 4},
		{"regional", 5},
		{"planning", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := gen.prompts[tt.step-1]
			for earlier := 1; earlier < tt.step; earlier++ {
				assert.Contains(t, prompt, fmt.Sprintf("stepmarker%d", earlier), "step %d prompt is missing step %d text", tt.step, earlier)
			}
			assert.NotContains(t, prompt, fmt.Sprintf("stepmarker%d", tt.step))
		})
	}
}

func TestPipeline_ObserverSeesFailedFallback(t *testing.T) {
	obs := &recordingObserver{}
	p, err := NewPipeline(&fakeGenerator{}, Options{Observer: obs})
	require.NoError(t, err)
	p.steps[StepProfile] = stepFuncs{
		run:      func(context.Context, State) (stepOutput, error) { return stepOutput{}, errors.New("boom") },
		fallback: func(State) (stepOutput, error) { return stepOutput{}, errors.New("no fallback") },
	}

	_, err = p.Run(context.Background(), weightLossProfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback failed")

	assert.Equal(t, []StepID{StepProfile}, obs.started)
	assert.Equal(t, []StepStatus{StatusDegraded}, obs.finished)
}
