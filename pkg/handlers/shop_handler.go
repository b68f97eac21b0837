package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workoutvibes-api/pkg/storage"
)

// ShopHandler は商品・カート・注文のハンドラです。
type ShopHandler struct {
	store *storage.Store
}

// NewShopHandler は新しいShopHandlerを生成します。
func NewShopHandler(store *storage.Store) *ShopHandler {
	return &ShopHandler{store: store}
}

// ListProducts は全商品を返します。
func (h *ShopHandler) ListProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		log.Printf("❌ 商品一覧の取得に失敗しました: %v", err)
		fail(c, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// SeedDemoProducts はデモ用の商品を登録します。登録済みの商品は追加しません。
func (h *ShopHandler) SeedDemoProducts(c *gin.Context) {
	added, err := h.store.SeedDemoProducts(c.Request.Context())
	if err != nil {
		log.Printf("❌ デモ商品の登録に失敗しました: %v", err)
		fail(c, "Failed to add demo products.")
		return
	}
	log.Printf("🟢 デモ商品を %d 件登録しました", added)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Demo products added."})
}

type cartRequest struct {
	UserEmail string  `json:"user_email"`
	ProductID FlexInt `json:"product_id"`
	Quantity  FlexInt `json:"quantity"`
}

// AddToCart はカートに商品を追加します。同じ商品があれば数量を加算します。
func (h *ShopHandler) AddToCart(c *gin.Context) {
	var req cartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProductID == 0 {
		fail(c, msgNotAuthenticated)
		return
	}
	if !requireUser(c, h.store, req.UserEmail, msgNotAuthenticated) {
		return
	}
	quantity := int(req.Quantity)
	if quantity <= 0 {
		quantity = 1
	}
	if err := h.store.AddToCart(c.Request.Context(), req.UserEmail, int64(req.ProductID), quantity); err != nil {
		log.Printf("❌ カートへの追加に失敗しました: %v", err)
		fail(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetCart はカートの中身を商品情報付きで返します。
func (h *ShopHandler) GetCart(c *gin.Context) {
	email := c.Query("user_email")
	if !requireUser(c, h.store, email, msgNotAuthenticated) {
		return
	}
	items, err := h.store.Cart(c.Request.Context(), email)
	if err != nil {
		log.Printf("❌ カートの取得に失敗しました: %v", err)
		fail(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": items})
}

// RemoveFromCart はカートから商品を取り除きます。
func (h *ShopHandler) RemoveFromCart(c *gin.Context) {
	var req cartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProductID == 0 {
		fail(c, msgNotAuthenticated)
		return
	}
	if !requireUser(c, h.store, req.UserEmail, msgNotAuthenticated) {
		return
	}
	if err := h.store.RemoveFromCart(c.Request.Context(), req.UserEmail, int64(req.ProductID)); err != nil {
		log.Printf("❌ カートからの削除に失敗しました: %v", err)
		fail(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type orderRequest struct {
	UserEmail string `json:"user_email"`
}

// PlaceOrder はカートの中身を注文にします。
func (h *ShopHandler) PlaceOrder(c *gin.Context) {
	var req orderRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireUser(c, h.store, req.UserEmail, msgNotAuthenticated) {
		return
	}
	orderID, err := h.store.PlaceOrder(c.Request.Context(), req.UserEmail)
	if err != nil {
		log.Printf("❌ 注文の作成に失敗しました: %v", err)
		fail(c, "")
		return
	}
	log.Printf("🟢 注文 %d を作成しました", orderID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// OrderHistory は注文履歴を新しい順に返します。
func (h *ShopHandler) OrderHistory(c *gin.Context) {
	email := c.Query("user_email")
	if !requireUser(c, h.store, email, msgNotAuthenticated) {
		return
	}
	history, err := h.store.OrderHistory(c.Request.Context(), email)
	if err != nil {
		log.Printf("❌ 注文履歴の取得に失敗しました: %v", err)
		fail(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}
