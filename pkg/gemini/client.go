package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL は Generative Language API のエンドポイントです。
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrMissingAPIKey はAPIキーが設定されていないことを表します。
	ErrMissingAPIKey = errors.New("gemini: API key が設定されていません")
	// ErrEmptyResponse はレスポンスに本文が含まれていないことを表します。
	ErrEmptyResponse = errors.New("gemini: レスポンスに本文がありません")
)

// Client は Gemini REST API へのリクエストを管理します。
type Client struct {
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
	httpClient     *http.Client
}

// NewClient は新しいGeminiクライアントを作成します。baseURL が空なら既定のエンドポイントを使います。
func NewClient(baseURL, apiKey, model, embeddingModel string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		model:          model,
		embeddingModel: embeddingModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- データ構造定義 ---

// Part はコンテンツの1要素です。
type Part struct {
	Text string `json:"text"`
}

// Content はパーツの集まりです。
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerationConfig はサンプリング設定です。
type GenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float32 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// DietGenerationConfig は食事プラン生成で使う固定のサンプリング設定です。
func DietGenerationConfig() *GenerationConfig {
	return &GenerationConfig{Temperature: 0.8, TopK: 40, TopP: 0.95, MaxOutputTokens: 2048}
}

// GenerateContentRequest は generateContent のリクエストです。
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerateContentResponse は generateContent のレスポンスです。
type GenerateContentResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *APIError `json:"error,omitempty"`
}

// EmbedContentRequest は embedContent のリクエストです。
type EmbedContentRequest struct {
	Model   string  `json:"model"`
	Content Content `json:"content"`
}

// EmbedContentResponse は embedContent のレスポンスです。
type EmbedContentResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// APIError はAPIが返したエラー本文です。
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Gemini API エラー (code: %d, status: %s): %s", e.Code, e.Status, e.Message)
}

// --- メソッド定義 ---

// GenerateContent はプロンプトを送信し、最初の候補の本文を返します。cfg が nil ならサンプリング設定を送りません。
func (c *Client) GenerateContent(ctx context.Context, prompt string, cfg *GenerationConfig) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	request := GenerateContentRequest{
		Contents:         []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: cfg,
	}

	var response GenerateContentResponse
	if err := c.doRequest(ctx, endpoint, request, &response); err != nil {
		return "", fmt.Errorf("Gemini generateContent 呼び出しに失敗: %w", err)
	}
	if response.Error != nil {
		return "", response.Error
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 ||
		response.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrEmptyResponse
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}

// EmbedContent はテキストのベクトル表現を生成します。
func (c *Client) EmbedContent(ctx context.Context, text string) ([]float32, error) {
	endpoint := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, c.embeddingModel)
	request := EmbedContentRequest{
		Model:   "models/" + c.embeddingModel,
		Content: Content{Parts: []Part{{Text: text}}},
	}

	var response EmbedContentResponse
	if err := c.doRequest(ctx, endpoint, request, &response); err != nil {
		return nil, fmt.Errorf("Gemini embedContent 呼び出しに失敗: %w", err)
	}
	if len(response.Embedding.Values) == 0 {
		return nil, ErrEmptyResponse
	}
	return response.Embedding.Values, nil
}

// doRequest はHTTPリクエストの実行と基本的なレスポンス処理を行う共通メソッドです。
func (c *Client) doRequest(ctx context.Context, endpoint string, requestData, responseData any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	requestBody, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("リクエストのJSON化に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(c.apiKey), bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// URLにAPIキーが含まれるため、url.Error の中身は出さない
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("HTTPリクエストの実行に失敗: %w", urlErr.Err)
		}
		return fmt.Errorf("HTTPリクエストの実行に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp struct {
			Error *APIError `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error != nil && errorResp.Error.Message != "" {
			return errorResp.Error
		}
		return fmt.Errorf("Gemini API エラー (status: %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, responseData); err != nil {
		return fmt.Errorf("レスポンスのJSON解析に失敗: %w", err)
	}
	return nil
}
