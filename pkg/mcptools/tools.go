package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/services"
)

// DietTools は食事プランのツールが使うサービスです。
type DietTools struct {
	Pipeline *services.PipelineService
}

// ExerciseTools は運動説明のツールが使うサービスです。
type ExerciseTools struct {
	Chatbot *services.ChatbotService
}

// --- Input types ---

type ProfileInput struct {
	Name              string  `json:"name,omitempty" jsonschema:"Display name"`
	Age               int     `json:"age" jsonschema:"Age in years"`
	Height            float64 `json:"height" jsonschema:"Height in centimetres"`
	Weight            float64 `json:"weight" jsonschema:"Weight in kilograms"`
	Gender            string  `json:"gender,omitempty" jsonschema:"male or female, defaults to male"`
	CaloriesIntake    float64 `json:"caloriesIntake,omitempty" jsonschema:"Daily calorie intake"`
	CaloriesBurn      float64 `json:"caloriesBurn,omitempty" jsonschema:"Daily calories burned"`
	Country           string  `json:"country,omitempty" jsonschema:"Country or region"`
	DietaryPreference string  `json:"dietaryPreference,omitempty" jsonschema:"For example vegetarian, vegan or non-vegetarian"`
	Goal              string  `json:"goal,omitempty" jsonschema:"For example weight loss or muscle gain"`
	Exercises         string  `json:"exercises,omitempty" jsonschema:"Free text description of regular exercise"`
	Allergies         string  `json:"allergies,omitempty" jsonschema:"Free text allergies"`
}

func (in ProfileInput) profile() diet.Profile {
	return diet.Profile{
		Name:              in.Name,
		Age:               in.Age,
		Height:            in.Height,
		Weight:            in.Weight,
		Gender:            in.Gender,
		CaloriesIntake:    in.CaloriesIntake,
		CaloriesBurn:      in.CaloriesBurn,
		Country:           in.Country,
		DietaryPreference: in.DietaryPreference,
		Goal:              in.Goal,
		Exercises:         in.Exercises,
		Allergies:         in.Allergies,
	}
}

type AllocateMealsInput struct {
	Target      float64 `json:"target" jsonschema:"Daily calorie target"`
	BMICategory string  `json:"bmiCategory,omitempty" jsonschema:"Underweight, Normal weight, Overweight or Obese"`
	Goal        string  `json:"goal,omitempty" jsonschema:"Goal text used for the goal adjustment"`
	Mode        string  `json:"mode,omitempty" jsonschema:"reset (default) or compose"`
}

type LookupFoodInput struct {
	Slot   string `json:"slot" jsonschema:"Breakfast, Mid-Morning, Lunch, Evening or Dinner"`
	Stage  string `json:"stage" jsonschema:"profile, health, calories, dietary, regional or complete"`
	Diet   string `json:"diet,omitempty" jsonschema:"Dietary preference text"`
	Region string `json:"region,omitempty" jsonschema:"Country or region text"`
	Goal   string `json:"goal,omitempty" jsonschema:"Goal text"`
}

type RunDietPipelineInput struct {
	SessionID string       `json:"sessionId,omitempty" jsonschema:"Session id; runs in the same session never overlap"`
	Profile   ProfileInput `json:"profile" jsonschema:"User profile"`
}

type ExerciseInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name, for example push-up"`
}

// --- Output types ---

type profileAnalysis struct {
	diet.Metrics
	ActivityLevel   diet.ActivityLevel `json:"activityLevel"`
	OptimalCalories int                `json:"optimalCalories"`
	ChartTarget     int                `json:"chartTarget"`
}

type mealAllocation struct {
	Target         float64             `json:"target"`
	Mode           diet.AdjustMode     `json:"mode"`
	Base           []diet.SlotCalories `json:"base"`
	HealthAdjusted []diet.SlotCalories `json:"healthAdjusted"`
	GoalAdjusted   []diet.SlotCalories `json:"goalAdjusted"`
	BaseTotal      int                 `json:"baseTotal"`
	AdjustedTotal  int                 `json:"adjustedTotal"`
}

type pipelineSummary struct {
	RunID      string                  `json:"runId"`
	SessionID  string                  `json:"sessionId"`
	Metrics    diet.Metrics            `json:"metrics"`
	Steps      []diet.StepResult       `json:"steps"`
	FinalChart diet.NormalizedMealPlan `json:"finalChart"`
}

var stages = []diet.Stage{diet.StageProfile, diet.StageHealth, diet.StageCalories, diet.StageDietary, diet.StageRegional, diet.StageComplete}

var categories = []diet.BMICategory{diet.CategoryUnderweight, diet.CategoryNormal, diet.CategoryOverweight, diet.CategoryObese}

// --- Handlers ---

func (t *DietTools) AnalyzeProfile(_ context.Context, _ *mcp.CallToolRequest, input ProfileInput) (*mcp.CallToolResult, any, error) {
	p := input.profile()
	if err := p.Validate(); err != nil {
		return toolError("Invalid profile: %v", err), nil, nil
	}
	level := diet.ExtractActivityLevel(p.Exercises)
	return toolJSON(profileAnalysis{
		Metrics:         p.Metrics(),
		ActivityLevel:   level,
		OptimalCalories: diet.OptimalCalories(p, level),
		ChartTarget:     int(diet.ChartTarget(p)),
	})
}

func (t *DietTools) AllocateMeals(_ context.Context, _ *mcp.CallToolRequest, input AllocateMealsInput) (*mcp.CallToolResult, any, error) {
	if input.Target <= 0 {
		return toolError("Target must be positive"), nil, nil
	}
	category := diet.CategoryNormal
	if input.BMICategory != "" {
		category = diet.BMICategory(input.BMICategory)
		if !slices.Contains(categories, category) {
			return toolError("Unknown BMI category %q", input.BMICategory), nil, nil
		}
	}
	mode, err := diet.ParseAdjustMode(input.Mode)
	if err != nil {
		return toolError("Invalid mode: %v", err), nil, nil
	}

	alloc := diet.Allocator{Mode: mode}
	base := diet.AllocateAll(input.Target)
	adjusted := alloc.AdjustedSlots(input.Target, category, input.Goal, diet.StageGoalAdjust)
	return toolJSON(mealAllocation{
		Target:         input.Target,
		Mode:           mode,
		Base:           base,
		HealthAdjusted: alloc.AdjustedSlots(input.Target, category, input.Goal, diet.StageHealthAdjust),
		GoalAdjusted:   adjusted,
		BaseTotal:      diet.SumSlots(base),
		AdjustedTotal:  diet.SumSlots(adjusted),
	})
}

func (t *DietTools) LookupFood(_ context.Context, _ *mcp.CallToolRequest, input LookupFoodInput) (*mcp.CallToolResult, any, error) {
	slot := diet.Slot(input.Slot)
	if !slices.Contains(diet.Slots, slot) {
		return toolError("Unknown meal slot %q", input.Slot), nil, nil
	}
	stage := diet.Stage(input.Stage)
	if !slices.Contains(stages, stage) {
		return toolError("Unknown stage %q", input.Stage), nil, nil
	}
	return toolText(diet.LookupText(slot, stage, input.Diet, input.Region, input.Goal)), nil, nil
}

func (t *DietTools) RunDietPipeline(ctx context.Context, _ *mcp.CallToolRequest, input RunDietPipelineInput) (*mcp.CallToolResult, any, error) {
	run, err := t.Pipeline.Run(ctx, input.SessionID, input.Profile.profile())
	switch {
	case errors.Is(err, diet.ErrInvalidProfile):
		return toolError("Invalid profile: %v", err), nil, nil
	case errors.Is(err, services.ErrRunInProgress):
		return toolError("A diet plan is already being generated for session %s", input.SessionID), nil, nil
	case err != nil:
		return toolError("Failed to generate diet plan: %v", err), nil, nil
	}
	return toolJSON(pipelineSummary{
		RunID:      run.ID,
		SessionID:  run.SessionID,
		Metrics:    run.State.Metrics,
		Steps:      run.Steps,
		FinalChart: run.FinalChart,
	})
}

func (t *ExerciseTools) ExerciseInstructions(ctx context.Context, _ *mcp.CallToolRequest, input ExerciseInput) (*mcp.CallToolResult, any, error) {
	reply, err := t.Chatbot.Reply(ctx, input.Exercise)
	if errors.Is(err, services.ErrEmptyMessage) {
		return toolError("Exercise name is required"), nil, nil
	}
	if err != nil {
		return toolError("Failed to explain exercise: %v", err), nil, nil
	}
	return toolText(reply), nil, nil
}

// --- Helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return toolText(string(data)), nil, nil
}
