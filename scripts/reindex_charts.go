//go:build ignore

package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/app"
	"workoutvibes-api/pkg/services"
	"workoutvibes-api/pkg/storage"
)

func main() {
	log.Println("🧹 食事表の検索インデックスの再構築を開始します...")

	// .env.localファイルを優先的に読み込み（本番環境用）
	if err := godotenv.Load(".env.local"); err != nil {
		log.Printf("⚠️ .env.local が見つからないため .env を読み込みます: %v", err)
		if err := godotenv.Load(); err != nil {
			log.Printf("⚠️ .env ファイルが見つかりません: %v", err)
		}
	}

	// 設定を読み込む
	cfg := config.LoadConfig()
	if cfg.QdrantURL == "" {
		log.Fatal("❌ QDRANT_URL が設定されていません")
	}
	log.Printf("接続先Qdrant: %s", cfg.QdrantURL)

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ データベースを開けませんでした: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	index, err := services.NewChartIndexService(connectCtx, app.NewGeminiService(cfg), cfg.QdrantURL, cfg.QdrantAPIKey)
	cancel()
	if err != nil {
		log.Fatalf("❌ Qdrantに接続できませんでした: %v", err)
	}
	defer index.Close()

	charts, err := store.AllCharts(ctx)
	if err != nil {
		log.Fatalf("❌ 食事表の取得に失敗しました: %v", err)
	}

	var inactive []int64
	indexed, failed := 0, 0
	for _, chart := range charts {
		if !chart.Active {
			inactive = append(inactive, chart.ID)
			continue
		}
		if err := index.IndexChart(ctx, chart); err != nil {
			log.Printf("⚠️ 食事表 %d の登録に失敗しました: %v", chart.ID, err)
			failed++
			continue
		}
		indexed++
	}

	// 無効化済みの食事表は検索結果に出さない
	if len(inactive) > 0 {
		if err := index.RemoveCharts(ctx, inactive...); err != nil {
			log.Printf("⚠️ 無効化済みの食事表の削除に失敗しました: %v", err)
		}
	}

	log.Printf("✅ 再構築が完了しました: 登録 %d 件, 失敗 %d 件, 削除 %d 件", indexed, failed, len(inactive))
}
