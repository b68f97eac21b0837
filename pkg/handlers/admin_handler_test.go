package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMaintenanceRequiresCredentials(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.request(t, http.MethodPost, "/api/v1/admin/maintenance/start", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = env.request(t, http.MethodPost, "/api/v1/admin/maintenance/start", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.maintenance.Enabled())
}

func TestMaintenanceBlocksPublicAPI(t *testing.T) {
	env := newTestEnv(t)
	creds := gin.H{"username": "admin", "password": "secret"}

	w, body := env.request(t, http.MethodPost, "/api/v1/admin/maintenance/start", creds)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maintenance mode started", body["message"])

	w, _ = env.request(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w, _ = env.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	_, body = env.request(t, http.MethodGet, "/api/v1/admin/health-status", nil)
	assert.Equal(t, true, body["isMaintenanceMode"])
	assert.Equal(t, "ok", body["database"])

	w, _ = env.request(t, http.MethodPost, "/api/v1/admin/maintenance/stop", creds)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.request(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminWithoutPasswordRejectsEveryone(t *testing.T) {
	m := &Maintenance{}
	h := NewAdminHandler("admin", "", m, nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/start", h.StartMaintenance)
	env := &testEnv{router: r}

	w, _ := env.request(t, http.MethodPost, "/start", gin.H{"username": "admin", "password": "x"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, m.Enabled())
}
