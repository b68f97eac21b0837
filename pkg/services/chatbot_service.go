package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"text/template"

	"workoutvibes-api/pkg/gemini"
)

// チャットボットの固定応答
const (
	ReplyNoResponse      = "Sorry, I couldn't get a response."
	ReplyConnectionError = "Error connecting to Gemini API."
)

// ErrEmptyMessage は空のメッセージが渡されたことを表します。
var ErrEmptyMessage = errors.New("message is required")

// ChatCompleter はプロンプトに対する応答を1回生成します。
type ChatCompleter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// SpecialCommander は生成AIに問い合わせずに答える特別なコマンドを判定します。
type SpecialCommander interface {
	CheckSpecialCommand(message string) (bool, string)
}

// ChatbotService は運動の説明を生成AIに問い合わせます。
type ChatbotService struct {
	chat     ChatCompleter
	prompt   *template.Template
	commands SpecialCommander
}

// NewChatbotService は新しいChatbotServiceを生成します。commands は nil でも構いません。
func NewChatbotService(chat ChatCompleter, promptTemplate string, commands SpecialCommander) (*ChatbotService, error) {
	tmpl, err := template.New("chatbot").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("チャットボットのプロンプトテンプレートの解析に失敗: %w", err)
	}
	return &ChatbotService{chat: chat, prompt: tmpl, commands: commands}, nil
}

// BuildPrompt は運動名を埋め込んだプロンプトを返します。
func (s *ChatbotService) BuildPrompt(exercise string) (string, error) {
	var b strings.Builder
	if err := s.prompt.Execute(&b, struct{ Exercise string }{exercise}); err != nil {
		return "", fmt.Errorf("プロンプトの生成に失敗: %w", err)
	}
	return b.String(), nil
}

// Reply は運動名に対する説明を返します。応答本文は整形せずにそのまま返します。
// 生成AIへの接続に失敗しても error にはせず、固定の応答文を返します。
func (s *ChatbotService) Reply(ctx context.Context, message string) (string, error) {
	exercise := strings.TrimSpace(message)
	if exercise == "" {
		return "", ErrEmptyMessage
	}
	if s.commands != nil {
		if ok, reply := s.commands.CheckSpecialCommand(exercise); ok {
			return reply, nil
		}
	}

	prompt, err := s.BuildPrompt(exercise)
	if err != nil {
		return "", err
	}

	text, err := s.chat.Chat(ctx, prompt)
	if err != nil {
		var apiErr *gemini.APIError
		if errors.Is(err, gemini.ErrEmptyResponse) || errors.As(err, &apiErr) {
			log.Printf("⚠️ チャットボットの応答が空です: %v", err)
			return ReplyNoResponse, nil
		}
		log.Printf("❌ チャットボットの問い合わせに失敗しました: %v", err)
		return ReplyConnectionError, nil
	}
	if strings.TrimSpace(text) == "" {
		return ReplyNoResponse, nil
	}
	return text, nil
}
