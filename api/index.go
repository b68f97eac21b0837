package handler

import (
	"log"
	"net/http"
	"os"
	"sync"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/app"
)

var (
	application *app.App
	setupErr    error
	once        sync.Once
)

// サーバーレス環境で書き込めるのは /tmp のみ
const serverlessDatabasePath = "/tmp/workoutvibes.db"

// setupApp はアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() (*app.App, error) {
	once.Do(func() {
		log.Printf("🟢 [setupApp] アプリケーションを初期化します")

		// .envファイルはVercelの環境変数設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		if os.Getenv("DATABASE_PATH") == "" {
			cfg.DatabasePath = serverlessDatabasePath
		}

		application, setupErr = app.New(cfg)
		if setupErr != nil {
			log.Printf("❌ [setupApp] 初期化に失敗しました: %v", setupErr)
			return
		}
		log.Printf("🟢 [setupApp] 初期化が完了しました")
	})
	return application, setupErr
}

// Handler はVercelのエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	a, err := setupApp()
	if err != nil {
		http.Error(w, `{"success":false,"message":"Server initialization failed"}`, http.StatusInternalServerError)
		return
	}
	a.Engine.ServeHTTP(w, r)
}
