package services

import (
	"context"
	"fmt"
	"time"

	"workoutvibes-api/pkg/gemini"
)

// GeminiService は Gemini API の呼び出しにタイムアウトを付けて提供します。
type GeminiService struct {
	client  *gemini.Client
	timeout time.Duration
}

// NewGeminiService 新しいGeminiサービスを作成
func NewGeminiService(client *gemini.Client, timeout time.Duration) *GeminiService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiService{client: client, timeout: timeout}
}

// Generate は食事プラン用のサンプリング設定でテキストを生成します。diet.TextGenerator を満たします。
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.GenerateContent(ctx, prompt, gemini.DietGenerationConfig())
	if err != nil {
		return "", fmt.Errorf("食事プラン用テキストの生成に失敗: %w", err)
	}
	return text, nil
}

// Chat はサンプリング設定を付けずにテキストを生成します。
func (s *GeminiService) Chat(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.GenerateContent(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("チャット応答の生成に失敗: %w", err)
	}
	return text, nil
}

// Embed はテキストのベクトル表現を返します。
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vector, err := s.client.EmbedContent(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("テキストのベクトル化に失敗: %w", err)
	}
	return vector, nil
}
