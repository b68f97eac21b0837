package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/services"
)

type stubGenerator struct{ text string }

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, nil }

type stubChat struct{ reply string }

func (s stubChat) Chat(context.Context, string) (string, error) { return s.reply, nil }

// connect はメモリ上のトランスポートでサーバーに接続したクライアントを返します。
func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	pipeline, err := diet.NewPipeline(stubGenerator{text: "Stay consistent."}, diet.Options{})
	require.NoError(t, err)
	chatbot, err := services.NewChatbotService(stubChat{reply: "1. Brace your core"}, `Explain "{{.Exercise}}"`, nil)
	require.NoError(t, err)
	srv := New(services.NewPipelineService(pipeline, 0), chatbot)

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err = srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

// callTool はツールを呼び出し、本文とエラーかどうかを返します。
func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text, result.IsError
}

func profileArgs() map[string]any {
	return map[string]any{
		"name":              "Asha",
		"age":               28,
		"height":            170,
		"weight":            65,
		"caloriesIntake":    2000,
		"dietaryPreference": "vegetarian",
		"goal":              "weight loss",
		"exercises":         "regular yoga",
	}
}

func TestListTools(t *testing.T) {
	session := connect(t)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"analyze_profile", "allocate_meals", "lookup_food", "run_diet_pipeline", "exercise_instructions"}, names)
}

func TestAnalyzeProfile(t *testing.T) {
	session := connect(t)

	text, isErr := callTool(t, session, "analyze_profile", profileArgs())
	require.False(t, isErr, text)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.InDelta(t, 22.5, out["bmi"], 0.1)
	assert.Equal(t, "Normal weight", out["bmiCategory"])
	assert.Equal(t, "Moderate", out["activityLevel"])
	assert.Equal(t, float64(2000), out["optimalCalories"])

	args := profileArgs()
	args["height"] = 0
	text, isErr = callTool(t, session, "analyze_profile", args)
	assert.True(t, isErr)
	assert.Contains(t, text, "height must be positive")
}

func TestAllocateMeals(t *testing.T) {
	session := connect(t)

	text, isErr := callTool(t, session, "allocate_meals", map[string]any{"target": 1000, "bmiCategory": "Overweight", "goal": "weight loss", "mode": "compose"})
	require.False(t, isErr, text)

	var out mealAllocation
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Len(t, out.Base, 5)
	assert.Equal(t, 250, out.Base[0].Calories)
	assert.Equal(t, 1000, out.BaseTotal)
	// 250 × 0.90 × 0.85
	assert.Equal(t, 191, out.GoalAdjusted[0].Calories)
	assert.Equal(t, 225, out.HealthAdjusted[0].Calories)

	_, isErr = callTool(t, session, "allocate_meals", map[string]any{"target": 2000, "bmiCategory": "Heavy"})
	assert.True(t, isErr)
	_, isErr = callTool(t, session, "allocate_meals", map[string]any{"target": 0})
	assert.True(t, isErr)
}

func TestLookupFood(t *testing.T) {
	session := connect(t)

	text, isErr := callTool(t, session, "lookup_food", map[string]any{"slot": "Lunch", "stage": "complete", "diet": "carnivore", "region": "Atlantis"})
	assert.False(t, isErr)
	assert.NotEmpty(t, text)

	_, isErr = callTool(t, session, "lookup_food", map[string]any{"slot": "Brunch", "stage": "complete"})
	assert.True(t, isErr)
	_, isErr = callTool(t, session, "lookup_food", map[string]any{"slot": "Lunch", "stage": "final"})
	assert.True(t, isErr)
}

func TestRunDietPipeline(t *testing.T) {
	session := connect(t)

	text, isErr := callTool(t, session, "run_diet_pipeline", map[string]any{"sessionId": "mcp-1", "profile": profileArgs()})
	require.False(t, isErr, text)

	var out pipelineSummary
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "mcp-1", out.SessionID)
	assert.NotEmpty(t, out.RunID)
	assert.Len(t, out.Steps, 7)
	assert.NotEmpty(t, out.FinalChart.Meals)
}

func TestExerciseInstructions(t *testing.T) {
	session := connect(t)

	text, isErr := callTool(t, session, "exercise_instructions", map[string]any{"exercise": "plank"})
	assert.False(t, isErr)
	assert.Equal(t, "1. Brace your core", text)

	_, isErr = callTool(t, session, "exercise_instructions", map[string]any{"exercise": " "})
	assert.True(t, isErr)
}
