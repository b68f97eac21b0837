// Package app はサーバーとサーバーレス関数で共有するアプリケーションの組み立てを行います。
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "workoutvibes-api/configs"
	"workoutvibes-api/pkg/diet"
	"workoutvibes-api/pkg/gemini"
	"workoutvibes-api/pkg/handlers"
	"workoutvibes-api/pkg/services"
	"workoutvibes-api/pkg/storage"
)

// App は組み立て済みのサービスとルーターです。
type App struct {
	Engine      *gin.Engine
	Store       *storage.Store
	Gemini      *services.GeminiService
	Monitoring  *services.MonitoringService
	Pipeline    *services.PipelineService
	Chatbot     *services.ChatbotService
	ChartIndex  *services.ChartIndexService
	Maintenance *handlers.Maintenance
}

// Core はHTTPやデータベースに依存しない食事プランとチャットボットのサービス群です。
type Core struct {
	Gemini   *services.GeminiService
	Pipeline *services.PipelineService
	Chatbot  *services.ChatbotService
}

// NewCore はプロンプトと生成AIのクライアントからサービス群を組み立てます。observer は nil でも構いません。
func NewCore(cfg *config.Config, observer diet.Observer) (*Core, error) {
	prompts, err := config.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, err
	}
	mode, err := diet.ParseAdjustMode(cfg.DietAdjustMode)
	if err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️ GEMINI_API_KEY が設定されていません。生成AIを使う処理は代替結果になります。")
	}
	geminiService := NewGeminiService(cfg)

	pipeline, err := diet.NewPipeline(geminiService, diet.Options{
		StepDelay:  cfg.PipelineStepDelay,
		AdjustMode: mode,
		Prompts:    prompts.StepPrompts(),
		Observer:   observer,
	})
	if err != nil {
		return nil, fmt.Errorf("食事プランの初期化に失敗: %w", err)
	}

	chatbot, err := services.NewChatbotService(geminiService, prompts.Chatbot.Template, prompts)
	if err != nil {
		return nil, err
	}

	return &Core{
		Gemini:   geminiService,
		Pipeline: services.NewPipelineService(pipeline, 0),
		Chatbot:  chatbot,
	}, nil
}

// New は設定からアプリケーションを組み立てます。Qdrantに接続できない場合は類似検索なしで起動します。
func New(cfg *config.Config) (*App, error) {
	monitoring := services.NewMonitoringService(0)
	core, err := NewCore(cfg, monitoring)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Store:       store,
		Gemini:      core.Gemini,
		Monitoring:  monitoring,
		Pipeline:    core.Pipeline,
		Chatbot:     core.Chatbot,
		Maintenance: &handlers.Maintenance{},
	}

	if cfg.QdrantURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		index, err := services.NewChartIndexService(ctx, core.Gemini, cfg.QdrantURL, cfg.QdrantAPIKey)
		cancel()
		if err != nil {
			log.Printf("⚠️ Qdrantに接続できないため類似検索を無効にします: %v", err)
		} else {
			a.ChartIndex = index
		}
	}

	a.Engine = a.router(cfg)
	return a, nil
}

// NewGeminiService は設定からGeminiサービスを作ります。
func NewGeminiService(cfg *config.Config) *services.GeminiService {
	client := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEmbeddingModel)
	return services.NewGeminiService(client, cfg.GeminiTimeout)
}

// Close はデータベースと検索インデックスへの接続を閉じます。
func (a *App) Close() error {
	if a.ChartIndex != nil {
		if err := a.ChartIndex.Close(); err != nil {
			log.Printf("⚠️ Qdrantへの接続を閉じられませんでした: %v", err)
		}
	}
	return a.Store.Close()
}

// authMiddleware は X-API-KEY ヘッダーを確認します。キーが未設定か既定値の場合は確認しません。
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || apiKey == "default_secret_key" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (a *App) router(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// ミドルウェアの登録
	r.Use(a.Monitoring.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("X-API-KEY")
	r.Use(cors.New(corsConfig))
	r.Use(a.Maintenance.Middleware())

	// ハンドラーの初期化
	var index handlers.ChartIndexer
	if a.ChartIndex != nil {
		index = a.ChartIndex
	}
	authHandler := handlers.NewAuthHandler(a.Store)
	shopHandler := handlers.NewShopHandler(a.Store)
	membershipHandler := handlers.NewMembershipHandler(a.Store)
	chartHandler := handlers.NewDietChartHandler(a.Store, index)
	planHandler := handlers.NewDietPlanHandler(a.Pipeline)
	chatbotHandler := handlers.NewChatbotHandler(a.Chatbot)
	adminHandler := handlers.NewAdminHandler(cfg.AdminUsername, cfg.AdminPassword, a.Maintenance, a.Store)
	monitoringHandler := handlers.NewMonitoringHandler(a.Monitoring)

	// ヘルスチェックエンドポイント
	r.GET("/health", a.Maintenance.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)

		api.GET("/products", shopHandler.ListProducts)
		api.GET("/demo-products", shopHandler.SeedDemoProducts)
		api.POST("/cart", shopHandler.AddToCart)
		api.GET("/cart", shopHandler.GetCart)
		api.DELETE("/cart", shopHandler.RemoveFromCart)
		api.POST("/order", shopHandler.PlaceOrder)
		api.GET("/history", shopHandler.OrderHistory)

		api.POST("/membership/buy", membershipHandler.Buy)
		api.GET("/membership/history", membershipHandler.History)

		chart := api.Group("/diet-chart")
		{
			chart.POST("/save", chartHandler.Save)
			chart.GET("/list", chartHandler.List)
			chart.DELETE("/delete", chartHandler.Delete)
			chart.POST("/merge", chartHandler.Merge)
			chart.GET("/similar", chartHandler.Similar)
			chart.GET("/export", chartHandler.Export)
		}

		plan := api.Group("/diet-plan")
		{
			plan.POST("/run", planHandler.Run)
			plan.GET("/run/:id", planHandler.GetRun)
			plan.GET("/run/:id/final", planHandler.GetFinal)
			plan.GET("/steps", planHandler.Steps)
		}

		api.POST("/chatbot", chatbotHandler.Chat)
	}

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
			monitoring.GET("/diet-steps", monitoringHandler.GetDietSteps)
		}
	}

	return r
}
