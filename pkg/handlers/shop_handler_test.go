package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, testEmail)

	_, body := env.request(t, http.MethodGet, "/api/demo-products", nil)
	assert.Equal(t, "Demo products added.", body["message"])
	// 2回目は追加されないが成功になる
	_, body = env.request(t, http.MethodGet, "/api/demo-products", nil)
	assert.Equal(t, true, body["success"])

	_, body = env.request(t, http.MethodGet, "/api/products", nil)
	products := body["products"].([]any)
	require.Len(t, products, 8)
	first := products[0].(map[string]any)
	productID := first["id"]

	_, body = env.request(t, http.MethodPost, "/api/cart", gin.H{"user_email": testEmail, "product_id": productID})
	assert.Equal(t, true, body["success"])
	// 画面から文字列で送られた ID も受け付ける
	_, body = env.request(t, http.MethodPost, "/api/cart", gin.H{"user_email": testEmail, "product_id": fmt.Sprint(productID), "quantity": 2})
	assert.Equal(t, true, body["success"])

	_, body = env.request(t, http.MethodGet, "/api/cart?user_email="+testEmail, nil)
	cart := body["cart"].([]any)
	require.Len(t, cart, 1)
	item := cart[0].(map[string]any)
	assert.Equal(t, float64(3), item["quantity"])
	assert.Equal(t, first["name"], item["name"])

	_, body = env.request(t, http.MethodPost, "/api/order", gin.H{"user_email": testEmail})
	assert.Equal(t, true, body["success"])

	_, body = env.request(t, http.MethodGet, "/api/cart?user_email="+testEmail, nil)
	assert.Empty(t, body["cart"])

	_, body = env.request(t, http.MethodGet, "/api/history?user_email="+testEmail, nil)
	history := body["history"].([]any)
	require.Len(t, history, 1)
	line := history[0].(map[string]any)
	assert.Equal(t, float64(3), line["quantity"])
	assert.NotEmpty(t, line["order_time"])
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, testEmail)
	env.request(t, http.MethodGet, "/api/demo-products", nil)
	env.request(t, http.MethodPost, "/api/cart", gin.H{"user_email": testEmail, "product_id": 2})

	_, body := env.request(t, http.MethodDelete, "/api/cart", gin.H{"user_email": testEmail, "product_id": 2})
	assert.Equal(t, true, body["success"])

	_, body = env.request(t, http.MethodGet, "/api/cart?user_email="+testEmail, nil)
	assert.Empty(t, body["cart"])
}

func TestShopRequiresRegisteredUser(t *testing.T) {
	env := newTestEnv(t)
	want := gin.H{"success": false, "message": "Not authenticated"}

	_, body := env.request(t, http.MethodPost, "/api/cart", gin.H{"user_email": "ghost@example.com", "product_id": 1})
	assert.Equal(t, want, gin.H(body))
	_, body = env.request(t, http.MethodPost, "/api/cart", gin.H{"user_email": testEmail})
	assert.Equal(t, want, gin.H(body))
	_, body = env.request(t, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, want, gin.H(body))
	_, body = env.request(t, http.MethodGet, "/api/history?user_email=ghost@example.com", nil)
	assert.Equal(t, want, gin.H(body))
	_, body = env.request(t, http.MethodPost, "/api/order", gin.H{"user_email": ""})
	assert.Equal(t, want, gin.H(body))
}
