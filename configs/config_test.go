package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workoutvibes-api/pkg/diet"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	testCases := map[string]string{
		"PORT":                "9090",
		"ENVIRONMENT":         "test",
		"GEMINI_API_KEY":      "test-key",
		"GEMINI_MODEL":        "gemini-test",
		"GEMINI_TIMEOUT":      "5s",
		"DATABASE_PATH":       ":memory:",
		"QDRANT_URL":          "localhost:6334",
		"PIPELINE_STEP_DELAY": "250ms",
		"DIET_ADJUST_MODE":    "compose",
	}
	for key, value := range testCases {
		t.Setenv(key, value)
	}

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-test", cfg.GeminiModel)
	assert.Equal(t, 5*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, "localhost:6334", cfg.QdrantURL)
	assert.Equal(t, 250*time.Millisecond, cfg.PipelineStepDelay)
	assert.Equal(t, "compose", cfg.DietAdjustMode)
}

func TestLoadConfigDefaults(t *testing.T) {
	// 環境変数をクリア
	vars := []string{
		"PORT", "ENVIRONMENT", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_TIMEOUT",
		"DATABASE_PATH", "QDRANT_URL", "API_KEY", "PIPELINE_STEP_DELAY", "DIET_ADJUST_MODE",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, "workoutvibes.db", cfg.DatabasePath)
	assert.Empty(t, cfg.QdrantURL)
	assert.Equal(t, "default_secret_key", cfg.APIKey)
	assert.Zero(t, cfg.PipelineStepDelay)
	assert.Equal(t, "reset", cfg.DietAdjustMode)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT", "soon")
	t.Setenv("PIPELINE_STEP_DELAY", "-1s")

	cfg := LoadConfig()

	assert.Equal(t, 30*time.Second, cfg.GeminiTimeout)
	assert.Zero(t, cfg.PipelineStepDelay)
}

func TestLoadPrompts_Embedded(t *testing.T) {
	cfg, err := LoadPrompts("")
	require.NoError(t, err)

	assert.Contains(t, cfg.Chatbot.Template, "{{.Exercise}}")
	assert.Contains(t, cfg.Chatbot.Template, "Sorry, I don't know about that exercise.")
	assert.Contains(t, cfg.Chatbot.Template, "8. YouTube video link")
	assert.Empty(t, cfg.StepPrompts())

	again, err := LoadPrompts("")
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestLoadPrompts_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	yamlText := "diet_steps:\n  health: \"Health check for {{.Profile.Name}}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0o600))

	cfg, err := LoadPrompts(path)
	require.NoError(t, err)

	assert.Equal(t, diet.PromptSet{diet.StepHealth: "Health check for {{.Profile.Name}}"}, cfg.StepPrompts())
	// チャットボットのテンプレートは組み込みのものが補われる
	assert.Contains(t, cfg.Chatbot.Template, "{{.Exercise}}")
}

func TestLoadPrompts_Errors(t *testing.T) {
	_, err := LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParsePrompts([]byte("diet_steps:\n  dessert: \"x\"\n"))
	assert.Error(t, err)

	_, err = ParsePrompts([]byte("chatbot: [unclosed"))
	assert.Error(t, err)
}

func TestCheckSpecialCommand(t *testing.T) {
	cfg, err := LoadPrompts("")
	require.NoError(t, err)

	ok, reply := cfg.CheckSpecialCommand("  /HELP ")
	assert.True(t, ok)
	assert.Contains(t, reply, "exercise")

	ok, _ = cfg.CheckSpecialCommand("help me with squats")
	assert.False(t, ok)
}
