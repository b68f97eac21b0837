package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/app"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestApplicationSetup(t *testing.T) {
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("QDRANT_URL", "")
	t.Setenv("GEMINI_API_KEY", "")

	// 設定の読み込みテスト
	cfg := config.LoadConfig()
	require.NotNil(t, cfg, "Config should not be nil")

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Engine)
	assert.Nil(t, a.ChartIndex, "search index should be disabled without QDRANT_URL")

	// ヘルスチェックのテスト
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	// 生成AIのキーがなくても段階定義は返る
	req, _ = http.NewRequest(http.MethodGet, "/api/diet-plan/steps", nil)
	w = httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User Profile Analysis")
}
