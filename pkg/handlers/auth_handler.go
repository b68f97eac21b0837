package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/storage"
)

// AuthHandler はユーザー登録とログインのハンドラです。
type AuthHandler struct {
	store *storage.Store
}

// NewAuthHandler は新しいAuthHandlerを生成します。
func NewAuthHandler(store *storage.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup はユーザーを登録します。
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		fail(c, "All fields required.")
		return
	}

	if _, err := h.store.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			fail(c, "Email already registered.")
			return
		}
		log.Printf("❌ ユーザー登録に失敗しました: %v", err)
		fail(c, "Signup failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login はメールアドレスとパスワードを確認し、ユーザー名を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(c, "All fields required.")
		return
	}

	user, err := h.store.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		fail(c, "User not found.")
	case errors.Is(err, storage.ErrWrongPassword):
		fail(c, "Incorrect password.")
	case err != nil:
		log.Printf("❌ ログイン処理に失敗しました: %v", err)
		fail(c, "Login failed.")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "userName": user.Name})
	}
}
