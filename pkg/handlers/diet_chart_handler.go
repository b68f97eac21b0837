package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/services"
	"workoutvibes-api/pkg/storage"
)

// ChartIndexer は保存済み食事表の類似検索インデックスです。
type ChartIndexer interface {
	IndexChart(ctx context.Context, chart storage.Chart) error
	RemoveCharts(ctx context.Context, chartIDs ...int64) error
	Search(ctx context.Context, userEmail, query string, limit uint64) ([]services.ChartMatch, error)
}

// DietChartHandler は保存済み食事表のハンドラです。index が nil の場合は類似検索を使いません。
type DietChartHandler struct {
	store *storage.Store
	index ChartIndexer
}

// NewDietChartHandler は新しいDietChartHandlerを生成します。
func NewDietChartHandler(store *storage.Store, index ChartIndexer) *DietChartHandler {
	return &DietChartHandler{store: store, index: index}
}

type saveChartRequest struct {
	UserEmail      string          `json:"user_email"`
	ChartName      string          `json:"chart_name"`
	ChartData      json.RawMessage `json:"chart_data"`
	UserData       json.RawMessage `json:"user_data"`
	Goal           string          `json:"goal"`
	TargetCalories FlexInt         `json:"target_calories"`
}

// Save は食事表を保存します。
func (h *DietChartHandler) Save(c *gin.Context) {
	var req saveChartRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireUser(c, h.store, req.UserEmail, msgNotAuthenticated) {
		return
	}
	if req.ChartName == "" || req.Goal == "" || req.TargetCalories == 0 || emptyJSON(req.ChartData) || emptyJSON(req.UserData) {
		fail(c, msgMissingData)
		return
	}

	chart, err := h.store.SaveChart(c.Request.Context(), storage.Chart{
		UserEmail:      req.UserEmail,
		Name:           req.ChartName,
		Goal:           req.Goal,
		TargetCalories: int(req.TargetCalories),
		ChartData:      req.ChartData,
		UserData:       req.UserData,
	})
	if err != nil {
		log.Printf("❌ 食事表の保存に失敗しました: %v", err)
		fail(c, "Failed to save diet chart")
		return
	}
	h.indexChart(c.Request.Context(), chart)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Diet chart saved successfully", "chart_id": chart.ID})
}

// List は有効な食事表を新しい順に返します。
func (h *DietChartHandler) List(c *gin.Context) {
	email := c.Query("user_email")
	if !requireUser(c, h.store, email, msgNotAuthenticated) {
		return
	}
	charts, err := h.store.ListActiveCharts(c.Request.Context(), email)
	if err != nil {
		log.Printf("❌ 食事表一覧の取得に失敗しました: %v", err)
		fail(c, "Failed to fetch diet charts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "charts": charts})
}

type deleteChartRequest struct {
	UserEmail string  `json:"user_email"`
	ChartID   FlexInt `json:"chart_id"`
}

// Delete は食事表を無効にします。行は残します。
func (h *DietChartHandler) Delete(c *gin.Context) {
	var req deleteChartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ChartID == 0 {
		fail(c, "Not authenticated or missing chart ID")
		return
	}
	if !requireUser(c, h.store, req.UserEmail, "Not authenticated or missing chart ID") {
		return
	}

	err := h.store.DeactivateChart(c.Request.Context(), req.UserEmail, int64(req.ChartID))
	if errors.Is(err, storage.ErrChartNotFound) {
		fail(c, "Diet chart not found")
		return
	}
	if err != nil {
		log.Printf("❌ 食事表の削除に失敗しました: %v", err)
		fail(c, "Failed to remove diet chart")
		return
	}
	h.removeFromIndex(c.Request.Context(), int64(req.ChartID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Diet chart removed successfully"})
}

type mergeChartsRequest struct {
	UserEmail        string    `json:"user_email"`
	SelectedChartIDs []FlexInt `json:"selected_chart_ids"`
	MergeGoal        string    `json:"merge_goal"`
}

// Merge は選んだ食事表を目標に合わせて1つにまとめ、それ以外の食事表を無効にします。
func (h *DietChartHandler) Merge(c *gin.Context) {
	var req mergeChartsRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.SelectedChartIDs) == 0 || req.MergeGoal == "" {
		fail(c, msgMissingData)
		return
	}
	if !requireUser(c, h.store, req.UserEmail, msgMissingData) {
		return
	}
	ctx := c.Request.Context()

	ids := make([]int64, 0, len(req.SelectedChartIDs))
	for _, id := range req.SelectedChartIDs {
		ids = append(ids, int64(id))
	}
	selected, err := h.store.ActiveCharts(ctx, req.UserEmail, ids)
	if err != nil {
		log.Printf("❌ 統合対象の食事表の取得に失敗しました: %v", err)
		fail(c, fmt.Sprintf("Failed to merge diet charts: %v", err))
		return
	}
	if len(selected) == 0 {
		fail(c, "No valid charts found")
		return
	}

	sources := make([]diet.MergeSource, 0, len(selected))
	targetSum := 0
	for _, ch := range selected {
		sources = append(sources, diet.ParseChartSummary(ch.ID, ch.ChartData, ch.UserData, ch.TargetCalories))
		targetSum += ch.TargetCalories
	}
	merged, err := diet.Merge(sources, req.MergeGoal)
	if err != nil {
		fail(c, fmt.Sprintf("Failed to merge diet charts: %v", err))
		return
	}
	chartData, err := json.Marshal(merged)
	if err != nil {
		fail(c, fmt.Sprintf("Failed to merge diet charts: %v", err))
		return
	}

	// 無効になる食事表をインデックスから外すために、保存前の有効な食事表を控えておく
	previous, err := h.store.ListActiveCharts(ctx, req.UserEmail)
	if err != nil {
		log.Printf("⚠️ 統合前の食事表一覧の取得に失敗しました: %v", err)
	}

	saved, err := h.store.SaveMergedChart(ctx, storage.Chart{
		UserEmail:      req.UserEmail,
		Name:           diet.MergedName(req.MergeGoal, len(selected)),
		Goal:           req.MergeGoal,
		TargetCalories: targetSum / len(selected),
		ChartData:      chartData,
		UserData:       selected[0].UserData,
	})
	if err != nil {
		log.Printf("❌ 統合した食事表の保存に失敗しました: %v", err)
		fail(c, fmt.Sprintf("Failed to merge diet charts: %v", err))
		return
	}
	log.Printf("🟢 %d 件の食事表を統合しました (chart=%d)", len(selected), saved.ID)

	previousIDs := make([]int64, 0, len(previous))
	for _, ch := range previous {
		previousIDs = append(previousIDs, ch.ID)
	}
	h.removeFromIndex(ctx, previousIDs...)
	h.indexChart(ctx, saved)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Diet charts merged successfully",
		"merged_chart": gin.H{
			"id":              saved.ID,
			"chart_name":      saved.Name,
			"goal":            saved.Goal,
			"target_calories": saved.TargetCalories,
			"chart_data":      merged,
		},
	})
}

// Similar は質問文に近いユーザーの食事表を返します。無効化済みの食事表は除きます。
func (h *DietChartHandler) Similar(c *gin.Context) {
	email := c.Query("user_email")
	query := c.Query("q")
	if query == "" {
		fail(c, msgMissingData)
		return
	}
	if !requireUser(c, h.store, email, msgNotAuthenticated) {
		return
	}
	if h.index == nil {
		fail(c, "Chart search is not configured")
		return
	}
	limit, err := strconv.ParseUint(c.DefaultQuery("limit", "5"), 10, 64)
	if err != nil || limit == 0 {
		limit = 5
	}

	matches, err := h.index.Search(c.Request.Context(), email, query, limit)
	if err != nil {
		log.Printf("❌ 食事表の類似検索に失敗しました: %v", err)
		fail(c, "Failed to search diet charts")
		return
	}

	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ChartID)
	}
	active, err := h.store.ActiveCharts(c.Request.Context(), email, ids)
	if err != nil {
		log.Printf("❌ 検索結果の食事表の取得に失敗しました: %v", err)
		fail(c, "Failed to search diet charts")
		return
	}
	activeIDs := make(map[int64]bool, len(active))
	for _, ch := range active {
		activeIDs[ch.ID] = true
	}
	results := make([]services.ChartMatch, 0, len(matches))
	for _, m := range matches {
		if activeIDs[m.ChartID] {
			results = append(results, m)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "charts": results})
}

// Export は食事表をExcelファイルとして返します。
func (h *DietChartHandler) Export(c *gin.Context) {
	email := c.Query("user_email")
	id, err := strconv.ParseInt(c.Query("chart_id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, "Not authenticated or missing chart ID")
		return
	}
	if !requireUser(c, h.store, email, msgNotAuthenticated) {
		return
	}

	chart, err := h.store.GetChart(c.Request.Context(), email, id)
	if errors.Is(err, storage.ErrChartNotFound) {
		fail(c, "Diet chart not found")
		return
	}
	if err != nil {
		log.Printf("❌ 食事表の取得に失敗しました: %v", err)
		fail(c, "Failed to export diet chart")
		return
	}

	meals, notes := diet.ParseSavedChart(chart.ChartData)
	var buf bytes.Buffer
	if err := diet.WriteXLSX(&buf, chart.Name, meals, notes); err != nil {
		log.Printf("❌ Excelファイルの作成に失敗しました: %v", err)
		fail(c, "Failed to export diet chart")
		return
	}
	filename := fmt.Sprintf("diet-chart-%d.xlsx", chart.ID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// indexChart はインデックスに登録します。失敗しても保存処理は成功として扱います。
func (h *DietChartHandler) indexChart(ctx context.Context, chart storage.Chart) {
	if h.index == nil {
		return
	}
	if err := h.index.IndexChart(ctx, chart); err != nil {
		log.Printf("⚠️ 食事表 %d のインデックス登録に失敗しました: %v", chart.ID, err)
	}
}

func (h *DietChartHandler) removeFromIndex(ctx context.Context, ids ...int64) {
	if h.index == nil || len(ids) == 0 {
		return
	}
	if err := h.index.RemoveCharts(ctx, ids...); err != nil {
		log.Printf("⚠️ 食事表のインデックス削除に失敗しました: %v", err)
	}
}
