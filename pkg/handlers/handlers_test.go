package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/services"
	"workoutvibes-api/pkg/storage"
)

const testEmail = "asha@example.com"

type stubGenerator struct{ text string }

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, nil }

type stubChat struct{ reply string }

func (s stubChat) Chat(context.Context, string) (string, error) { return s.reply, nil }

// fakeIndex は呼び出しを記録するだけの類似検索インデックスです。
type fakeIndex struct {
	indexed []int64
	removed []int64
	matches []services.ChartMatch
}

func (f *fakeIndex) IndexChart(_ context.Context, chart storage.Chart) error {
	f.indexed = append(f.indexed, chart.ID)
	return nil
}

func (f *fakeIndex) RemoveCharts(_ context.Context, ids ...int64) error {
	f.removed = append(f.removed, ids...)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, string, uint64) ([]services.ChartMatch, error) {
	return f.matches, nil
}

type testEnv struct {
	router      *gin.Engine
	store       *storage.Store
	index       *fakeIndex
	maintenance *Maintenance
	monitoring  *services.MonitoringService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	chatbot, err := services.NewChatbotService(stubChat{reply: "1. Push-up"}, `Explain "{{.Exercise}}"`, nil)
	require.NoError(t, err)

	env := &testEnv{
		store:       store,
		index:       &fakeIndex{},
		maintenance: &Maintenance{},
		monitoring:  services.NewMonitoringService(0),
	}

	pipeline, err := diet.NewPipeline(stubGenerator{text: "Keep a steady routine."}, diet.Options{Observer: env.monitoring})
	require.NoError(t, err)

	r := gin.New()
	r.Use(env.monitoring.LoggingMiddleware())
	r.Use(env.maintenance.Middleware())

	auth := NewAuthHandler(store)
	shop := NewShopHandler(store)
	membership := NewMembershipHandler(store)
	charts := NewDietChartHandler(store, env.index)
	plan := NewDietPlanHandler(services.NewPipelineService(pipeline, 0))
	chat := NewChatbotHandler(chatbot)
	admin := NewAdminHandler("admin", "secret", env.maintenance, store)
	monitoring := NewMonitoringHandler(env.monitoring)

	r.GET("/health", env.maintenance.HealthCheck)
	r.POST("/api/signup", auth.Signup)
	r.POST("/api/login", auth.Login)
	r.GET("/api/products", shop.ListProducts)
	r.GET("/api/demo-products", shop.SeedDemoProducts)
	r.POST("/api/cart", shop.AddToCart)
	r.GET("/api/cart", shop.GetCart)
	r.DELETE("/api/cart", shop.RemoveFromCart)
	r.POST("/api/order", shop.PlaceOrder)
	r.GET("/api/history", shop.OrderHistory)
	r.POST("/api/membership/buy", membership.Buy)
	r.GET("/api/membership/history", membership.History)
	r.POST("/api/diet-chart/save", charts.Save)
	r.GET("/api/diet-chart/list", charts.List)
	r.DELETE("/api/diet-chart/delete", charts.Delete)
	r.POST("/api/diet-chart/merge", charts.Merge)
	r.GET("/api/diet-chart/similar", charts.Similar)
	r.GET("/api/diet-chart/export", charts.Export)
	r.POST("/api/diet-plan/run", plan.Run)
	r.GET("/api/diet-plan/run/:id", plan.GetRun)
	r.GET("/api/diet-plan/run/:id/final", plan.GetFinal)
	r.GET("/api/diet-plan/steps", plan.Steps)
	r.POST("/api/chatbot", chat.Chat)
	r.GET("/api/v1/admin/health-status", admin.GetHealthStatus)
	r.POST("/api/v1/admin/maintenance/start", admin.StartMaintenance)
	r.POST("/api/v1/admin/maintenance/stop", admin.StopMaintenance)
	r.GET("/api/v1/monitoring/logs", monitoring.GetLogs)
	r.GET("/api/v1/monitoring/diet-steps", monitoring.GetDietSteps)

	env.router = r
	return env
}

// request はJSONリクエストを送り、レスポンスとデコードしたボディを返します。
func (e *testEnv) request(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (e *testEnv) signup(t *testing.T, email string) {
	t.Helper()
	_, body := e.request(t, http.MethodPost, "/api/signup", gin.H{"name": "Asha", "email": email, "password": "pw123"})
	require.Equal(t, true, body["success"])
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.request(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestFlexInt(t *testing.T) {
	cases := map[string]int64{`12`: 12, `"12"`: 12, `12.0`: 12, `null`: 0, `""`: 0}
	for input, want := range cases {
		var n FlexInt
		require.NoError(t, json.Unmarshal([]byte(input), &n), input)
		assert.Equal(t, FlexInt(want), n, input)
	}

	var n FlexInt
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}

func TestEmptyJSON(t *testing.T) {
	for _, raw := range []string{"", "null", "{}", "[]", `""`, " {} "} {
		assert.True(t, emptyJSON(json.RawMessage(raw)), raw)
	}
	assert.False(t, emptyJSON(json.RawMessage(`{"meals":[]}`)))
}
