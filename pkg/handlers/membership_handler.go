package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/storage"
)

// MembershipHandler は会員プランのハンドラです。
type MembershipHandler struct {
	store *storage.Store
	now   func() time.Time
}

// NewMembershipHandler は新しいMembershipHandlerを生成します。
func NewMembershipHandler(store *storage.Store) *MembershipHandler {
	return &MembershipHandler{store: store, now: time.Now}
}

type membershipRequest struct {
	UserEmail string `json:"user_email"`
	Plan      string `json:"plan"`
}

// Buy は会員プランを購入します。1month, 6months, 1year 以外は1か月として扱います。
func (h *MembershipHandler) Buy(c *gin.Context) {
	var req membershipRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Plan == "" {
		fail(c, msgNotAuthenticated)
		return
	}
	if !requireUser(c, h.store, req.UserEmail, msgNotAuthenticated) {
		return
	}
	m, err := h.store.BuyMembership(c.Request.Context(), req.UserEmail, req.Plan)
	if err != nil {
		log.Printf("❌ 会員プランの購入に失敗しました: %v", err)
		fail(c, "")
		return
	}
	log.Printf("🟢 会員プラン %s を登録しました (%s まで)", m.Plan, m.End.Format(time.DateOnly))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// History は会員履歴を、現在時刻での状態と残り時間付きで返します。
func (h *MembershipHandler) History(c *gin.Context) {
	email := c.Query("user_email")
	if !requireUser(c, h.store, email, msgNotAuthenticated) {
		return
	}
	history, err := h.store.MembershipHistory(c.Request.Context(), email, h.now())
	if err != nil {
		log.Printf("❌ 会員履歴の取得に失敗しました: %v", err)
		fail(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}
