package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/services"
)

// MonitoringHandler はモニタリング関連の操作のハンドラです。
type MonitoringHandler struct {
	service *services.MonitoringService
}

// NewMonitoringHandler は新しいMonitoringHandlerを生成します。
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: service}
}

// periodHours は期間の指定(1h, 24h, 7d)を時間数にします。
func periodHours(period string) int {
	switch period {
	case "1h":
		return 1
	case "7d":
		return 24 * 7
	default:
		return 24
	}
}

// GetLogs は集計されたログデータを返します。
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetDashboardData(periodHours(c.DefaultQuery("period", "24h"))))
}

// GetDietSteps は食事プランの段階ごとの統計を返します。
func (h *MonitoringHandler) GetDietSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"steps": h.service.StepStatistics()})
}
