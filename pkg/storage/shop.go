package storage

import (
	"context"
	"fmt"
	"time"
)

// Product はショップの商品です。
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// CartItem はカートの1行で、商品情報を結合したものです。
type CartItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// OrderLine は注文履歴の1行です。注文・注文明細・商品を結合しています。
type OrderLine struct {
	OrderID   int64   `json:"order_id"`
	OrderTime string  `json:"order_time"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

// ListProducts は全商品を返します。
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, image, price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AddProduct は商品を登録します。
func (s *Store) AddProduct(ctx context.Context, p Product) (Product, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO products (name, description, image, price) VALUES (?, ?, ?, ?)`,
		p.Name, p.Description, p.Image, p.Price)
	if err != nil {
		return Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return Product{}, fmt.Errorf("failed to read product id: %w", err)
	}
	return p, nil
}

// SeedDemoProducts はデモ商品のうち未登録のものを追加し、追加した件数を返します。名前で重複を判定します。
func (s *Store) SeedDemoProducts(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, p := range DemoProducts() {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM products WHERE name = ?`, p.Name).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to check product %q: %w", p.Name, err)
		}
		if n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO products (name, description, image, price) VALUES (?, ?, ?, ?)`,
			p.Name, p.Description, p.Image, p.Price); err != nil {
			return 0, fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
		added++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit demo products: %w", err)
	}
	return added, nil
}

// AddToCart はカートに商品を追加します。既にある場合は数量を加算します。
func (s *Store) AddToCart(ctx context.Context, email string, productID int64, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE cart SET quantity = quantity + ? WHERE user_email = ? AND product_id = ?`,
		quantity, email, productID)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO cart (user_email, product_id, quantity) VALUES (?, ?, ?)`,
			email, productID, quantity); err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}
	return tx.Commit()
}

// Cart はユーザーのカートを商品情報付きで返します。
func (s *Store) Cart(ctx context.Context, email string) ([]CartItem, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT c.id, p.id, p.name, p.price, p.image, c.quantity
        FROM cart c JOIN products p ON c.product_id = p.id
        WHERE c.user_email = ?
        ORDER BY c.id`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Price, &it.Image, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// RemoveFromCart はカートから商品を取り除きます。
func (s *Store) RemoveFromCart(ctx context.Context, email string, productID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart WHERE user_email = ? AND product_id = ?`, email, productID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// PlaceOrder はカートの内容を注文に移し、カートを空にします。
func (s *Store) PlaceOrder(ctx context.Context, email string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO orders (user_email, order_time) VALUES (?, ?)`, email, formatTime(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read order id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO order_items (order_id, product_id, quantity)
        SELECT ?, product_id, quantity FROM cart WHERE user_email = ? ORDER BY id`, orderID, email); err != nil {
		return 0, fmt.Errorf("failed to insert order items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart WHERE user_email = ?`, email); err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return orderID, nil
}

// OrderHistory は注文履歴を新しい順に返します。
func (s *Store) OrderHistory(ctx context.Context, email string) ([]OrderLine, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT o.id, o.order_time, p.id, i.quantity, p.name, p.price, p.image
        FROM orders o
        JOIN order_items i ON o.id = i.order_id
        JOIN products p ON i.product_id = p.id
        WHERE o.user_email = ?
        ORDER BY o.order_time DESC, o.id DESC, i.id`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	history := []OrderLine{}
	for rows.Next() {
		var l OrderLine
		var orderTime string
		if err := rows.Scan(&l.OrderID, &orderTime, &l.ProductID, &l.Quantity, &l.Name, &l.Price, &l.Image); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		t, err := parseTime(orderTime)
		if err != nil {
			return nil, err
		}
		l.OrderTime = t.Format(time.RFC3339)
		history = append(history, l)
	}
	return history, rows.Err()
}

// DemoProducts はデモ用の商品一覧です。
func DemoProducts() []Product {
	return []Product{
		{Name: "Creatine Monohydrate", Description: "Micronized creatine powder for muscle growth, strength, and performance. 100 servings.", Image: "https://m.media-amazon.com/images/I/61auT4jdRQL._UF1000,1000_QL80_.jpg", Price: 1399.00},
		{Name: "Whey Protein", Description: "High-quality whey protein for muscle recovery and building. 1kg, chocolate flavor.", Image: "https://m.media-amazon.com/images/I/71l2r6yqQ0L._AC_SL1500_.jpg", Price: 2499.00},
		{Name: "BCAA Powder", Description: "Branched-chain amino acids for muscle recovery and endurance. 30 servings.", Image: "https://m.media-amazon.com/images/I/71QKQ9mwV7L._AC_SL1500_.jpg", Price: 1199.00},
		{Name: "Electrol Hydration Drink", Description: "Electrolyte drink for instant hydration and energy during workouts.", Image: "https://m.media-amazon.com/images/I/61Q5p1QKQwL._AC_SL1000_.jpg", Price: 299.00},
		{Name: "Gym Shaker Bottle", Description: "Leak-proof shaker bottle for protein shakes and supplements. 700ml.", Image: "https://m.media-amazon.com/images/I/61Q5p1QKQwL._AC_SL1000_.jpg", Price: 349.00},
		{Name: "Gym Bag", Description: "Spacious and durable gym bag with shoe compartment and water-resistant material.", Image: "https://m.media-amazon.com/images/I/81Q5p1QKQwL._AC_SL1500_.jpg", Price: 899.00},
		{Name: "Resistance Bands Set", Description: "Set of 5 resistance bands for strength training, stretching, and mobility.", Image: "https://m.media-amazon.com/images/I/71QKQ9mwV7L._AC_SL1500_.jpg", Price: 499.00},
		{Name: "Yoga Mat", Description: "Non-slip yoga mat for workouts, pilates, and stretching. 6mm thick.", Image: "https://m.media-amazon.com/images/I/81Q5p1QKQwL._AC_SL1500_.jpg", Price: 599.00},
	}
}
