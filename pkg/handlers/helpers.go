package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/storage"
)

// 共通の応答メッセージ
const (
	msgNotAuthenticated = "Not authenticated"
	msgMissingData      = "Missing required data"
	msgInvalidJSON      = "Invalid JSON body"
)

// fail は業務上の失敗を HTTP 200 と success:false で返します。
func fail(c *gin.Context, message string) {
	body := gin.H{"success": false}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

// bindJSON はリクエストボディを読み込みます。JSONとして解釈できない場合は 400 を返して false になります。
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgInvalidJSON})
		return false
	}
	return true
}

// requireUser は登録済みユーザーかを確認し、そうでなければ失敗を返します。
func requireUser(c *gin.Context, store *storage.Store, email, message string) bool {
	ok, err := store.IsRegistered(c.Request.Context(), email)
	if err != nil {
		log.Printf("❌ ユーザー確認に失敗しました: %v", err)
	}
	if !ok {
		fail(c, message)
		return false
	}
	return true
}

// FlexInt は数値でも文字列でも受け付ける整数です。画面側は ID を文字列で送ることがあります。
type FlexInt int64

// UnmarshalJSON は 12, 12.0, "12" のいずれも 12 として読み込みます。
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*n = 0
		return nil
	}
	text = strings.Trim(text, `"`)
	if text == "" {
		*n = 0
		return nil
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		*n = FlexInt(v)
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", text)
	}
	*n = FlexInt(int64(f))
	return nil
}

// emptyJSON は値が未指定か空のオブジェクト・配列・文字列かを判定します。
func emptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]", `""`, "false", "0":
		return true
	}
	return false
}
