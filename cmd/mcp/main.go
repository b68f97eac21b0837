package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/app"
	"workoutvibes-api/pkg/mcptools"
)

func main() {
	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	port := flag.String("port", "8082", "HTTP port (only used with --transport http)")
	flag.Parse()

	// stdio では標準出力をプロトコルが使うためログは標準エラーに出す
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env ファイルを読み込めませんでした: %v", err)
	}
	cfg := config.LoadConfig()

	core, err := app.NewCore(cfg, nil)
	if err != nil {
		log.Fatalf("❌ サービスの初期化に失敗しました: %v", err)
	}
	srv := mcptools.New(core.Pipeline, core.Chatbot)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *transport {
	case "stdio":
		log.Println("🚀 WorkoutVibes MCP サーバーを起動します (stdio)")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Fatalf("❌ サーバーエラー: %v", err)
		}
	case "http":
		addr := ":" + *port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		httpSrv := &http.Server{Addr: addr, Handler: handler}
		go func() {
			<-ctx.Done()
			httpSrv.Close()
		}()
		log.Printf("🚀 WorkoutVibes MCP サーバーを %s で起動します", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTPサーバーエラー: %v", err)
		}
	default:
		log.Fatalf("❌ 不明なトランスポートです: %s (stdio または http を指定してください)", *transport)
	}
}
