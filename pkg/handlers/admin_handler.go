package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Maintenance はサーバーのメンテナンス状態です。
// atomic.Boolを使用して、スレッドセーフな読み書きを保証します。
type Maintenance struct {
	on atomic.Bool
}

// Enabled はメンテナンス中かどうかを返します。
func (m *Maintenance) Enabled() bool { return m.on.Load() }

// Set はメンテナンス状態を切り替えます。
func (m *Maintenance) Set(on bool) { m.on.Store(on) }

// Middleware はメンテナンス中に /api 配下の利用者向けAPIを 503 で止めます。管理系APIは止めません。
func (m *Maintenance) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if m.Enabled() && strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, "/api/v1/") {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Server is in maintenance mode"})
			return
		}
		c.Next()
	}
}

// HealthCheck は外部のヘルスチェッカー（例: ロードバランサー）からのリクエストに応答します。
func (m *Maintenance) HealthCheck(c *gin.Context) {
	if m.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Pinger は依存先の疎通確認です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminHandler は管理者向け操作のハンドラです。
type AdminHandler struct {
	username    string
	password    string
	maintenance *Maintenance
	db          Pinger
}

// NewAdminHandler は新しいAdminHandlerを生成します。
func NewAdminHandler(username, password string, maintenance *Maintenance, db Pinger) *AdminHandler {
	return &AdminHandler{username: username, password: password, maintenance: maintenance, db: db}
}

// AdminCredentials は管理者認証のためのリクエストボディです。
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authorize は管理者の資格情報を確認します。パスワード未設定の場合は誰も認証しません。
func (h *AdminHandler) authorize(c *gin.Context) bool {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return false
	}
	if h.password == "" || input.Username != h.username || input.Password != h.password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return false
	}
	return true
}

// StartMaintenance はメンテナンスモードを開始します。
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	h.maintenance.Set(true)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance はメンテナンスモードを停止します。
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	h.maintenance.Set(false)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// GetHealthStatus は現在のサーバーの状態とデータベースの疎通を返します。
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	dbStatus := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = err.Error()
		}
	}
	c.JSON(http.StatusOK, gin.H{"isMaintenanceMode": h.maintenance.Enabled(), "database": dbStatus})
}
