package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "workoutvibes-api/configs"
)

// fakeGemini は固定の文章を返す Generative Language API です。
func fakeGemini(t *testing.T, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Port:                 "0",
		GeminiAPIKey:         "test-key",
		GeminiModel:          "gemini-1.5-flash",
		GeminiEmbeddingModel: "text-embedding-004",
		GeminiBaseURL:        baseURL,
		GeminiTimeout:        5 * time.Second,
		DatabasePath:         ":memory:",
		APIKey:               "default_secret_key",
		AdminUsername:        "admin",
		AdminPassword:        "secret",
		DietAdjustMode:       "reset",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	var decoded map[string]any
	json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestNewWiresRoutes(t *testing.T) {
	gem := fakeGemini(t, "1. Stand tall\n2. Lower slowly")
	a := newTestApp(t, testConfig(gem.URL))
	assert.Nil(t, a.ChartIndex)

	w, body := serve(a, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	_, body = serve(a, http.MethodPost, "/api/chatbot", gin.H{"message": "squat"}, nil)
	assert.Equal(t, "1. Stand tall\n2. Lower slowly", body["reply"])

	_, body = serve(a, http.MethodPost, "/api/chatbot", gin.H{"message": "/help"}, nil)
	assert.NotEqual(t, "1. Stand tall\n2. Lower slowly", body["reply"])

	_, body = serve(a, http.MethodGet, "/api/diet-plan/steps", nil, nil)
	assert.Len(t, body["steps"], 7)

	_, body = serve(a, http.MethodGet, "/api/v1/admin/health-status", nil, nil)
	assert.Equal(t, "ok", body["database"])
}

func TestDietPlanRecordsStepStatistics(t *testing.T) {
	gem := fakeGemini(t, "Eat a balanced breakfast with oats.")
	a := newTestApp(t, testConfig(gem.URL))

	profile := gin.H{"name": "Asha", "age": 28, "height": 170, "weight": 65, "caloriesIntake": 2000, "caloriesBurn": 400, "dietaryPreference": "vegetarian", "goal": "weight loss"}
	_, body := serve(a, http.MethodPost, "/api/diet-plan/run", gin.H{"profile": profile}, nil)
	require.Equal(t, true, body["success"], body)

	stats := a.Monitoring.StepStatistics()
	require.Len(t, stats, 7)
	for _, st := range stats {
		assert.Equal(t, 1, st.Runs, st.Step)
	}
}

func TestAPIKeyProtectsAdminRoutes(t *testing.T) {
	gem := fakeGemini(t, "ok")
	cfg := testConfig(gem.URL)
	cfg.APIKey = "s3cret"
	a := newTestApp(t, cfg)

	w, _ := serve(a, http.MethodGet, "/api/v1/monitoring/logs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = serve(a, http.MethodGet, "/api/v1/monitoring/logs", nil, http.Header{"X-Api-Key": {"s3cret"}})
	assert.Equal(t, http.StatusOK, w.Code)

	// 利用者向けAPIにはキーが不要
	w, _ = serve(a, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRejectsInvalidAdjustMode(t *testing.T) {
	cfg := testConfig("")
	cfg.DietAdjustMode = "sideways"

	_, err := New(cfg)

	assert.Error(t, err)
}
