package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/app"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env ファイルを読み込めませんでした: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("❌ アプリケーションの初期化に失敗しました: %v", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.Engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 WorkoutVibes API を :%s で起動します", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("🟢 終了シグナルを受信しました")
	case err := <-errCh:
		log.Printf("❌ サーバーエラー: %v", err)
	}

	// 実行中の食事プラン生成を待つため長めに取る
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ シャットダウン中にエラーが発生しました: %v", err)
	}
}
