//go:build ignore

package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/storage"
)

func main() {
	log.Println("🚀 デモ商品の登録を開始します...")

	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env ファイルが見つかりません: %v", err)
	}

	// 設定を読み込む
	cfg := config.LoadConfig()
	log.Printf("接続先データベース: %s", cfg.DatabasePath)

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ データベースを開けませんでした: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	added, err := store.SeedDemoProducts(ctx)
	if err != nil {
		log.Fatalf("❌ デモ商品の登録に失敗しました: %v", err)
	}

	products, err := store.ListProducts(ctx)
	if err != nil {
		log.Fatalf("❌ 商品一覧の取得に失敗しました: %v", err)
	}
	for _, p := range products {
		log.Printf("  - [%d] %s (%.0f)", p.ID, p.Name, p.Price)
	}
	log.Printf("✅ %d 件を新たに登録しました (合計 %d 件)", added, len(products))
}
