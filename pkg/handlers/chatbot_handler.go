package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/services"
)

// ChatbotHandler は運動説明チャットボットのハンドラです。
type ChatbotHandler struct {
	service *services.ChatbotService
}

// NewChatbotHandler は新しいChatbotHandlerを生成します。
func NewChatbotHandler(service *services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{service: service}
}

type chatbotRequest struct {
	Message string `json:"message"`
}

// Chat は運動名を受け取り、説明を返します。
func (h *ChatbotHandler) Chat(c *gin.Context) {
	var req chatbotRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.service.Reply(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, "Message is required")
			return
		}
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reply": reply})
}
