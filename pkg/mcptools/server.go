// Package mcptools は食事プランの計算と生成をMCPのツールとして公開します。
package mcptools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"workoutvibes-api/pkg/services"
)

// Version はMCPサーバーとして名乗るバージョンです。
const Version = "0.1.0"

// New は全ツールを登録したMCPサーバーを返します。
func New(pipeline *services.PipelineService, chatbot *services.ChatbotService) *mcp.Server {
	dt := &DietTools{Pipeline: pipeline}
	et := &ExerciseTools{Chatbot: chatbot}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "workoutvibes-mcp",
		Version: Version,
	}, nil)

	// 計算のみのツール
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_profile",
		Description: "Compute BMI, BMI category, BMR, calorie balance, activity level and optimal calories for a user profile",
	}, dt.AnalyzeProfile)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "allocate_meals",
		Description: "Split a daily calorie target across the five meal slots, with BMI and goal adjustments",
	}, dt.AllocateMeals)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "lookup_food",
		Description: "Look up the food description for a meal slot at a pipeline stage, diet, region and goal",
	}, dt.LookupFood)

	// 生成AIを使うツール
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "run_diet_pipeline",
		Description: "Run the 7-step diet pipeline for a profile and return the step results and the final meal plan",
	}, dt.RunDietPipeline)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "exercise_instructions",
		Description: "Explain how to perform an exercise step by step",
	}, et.ExerciseInstructions)

	return srv
}
