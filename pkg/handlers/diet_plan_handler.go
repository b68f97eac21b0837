package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/services"
)

// DietPlanHandler は7段階の食事プラン生成のハンドラです。
type DietPlanHandler struct {
	service *services.PipelineService
}

// NewDietPlanHandler は新しいDietPlanHandlerを生成します。
func NewDietPlanHandler(service *services.PipelineService) *DietPlanHandler {
	return &DietPlanHandler{service: service}
}

type runPlanRequest struct {
	SessionID string        `json:"session_id"`
	Profile   *diet.Profile `json:"profile"`
}

// Run はプロフィールから食事プランを生成します。生成AIが失敗した段階は代替結果で補います。
func (h *DietPlanHandler) Run(c *gin.Context) {
	var req runPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Profile == nil {
		fail(c, msgMissingData)
		return
	}

	run, err := h.service.Run(c.Request.Context(), req.SessionID, *req.Profile)
	switch {
	case errors.Is(err, services.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		return
	case errors.Is(err, diet.ErrInvalidProfile):
		fail(c, err.Error())
		return
	case err != nil:
		log.Printf("❌ 食事プランの生成に失敗しました: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate diet plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"run_id":      run.ID,
		"session_id":  run.SessionID,
		"metrics":     run.State.Metrics,
		"steps":       run.Steps,
		"final_chart": run.FinalChart,
		"save_data":   run.SaveData,
	})
}

// GetRun は保存済みの実行結果を返します。
func (h *DietPlanHandler) GetRun(c *gin.Context) {
	run, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "run": run})
}

// GetFinal は実行結果の最終食事表だけを返します。
func (h *DietPlanHandler) GetFinal(c *gin.Context) {
	run, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run.FinalChart)
}

// Steps は段階の定義を返します。
func (h *DietPlanHandler) Steps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "steps": diet.Steps})
}
