package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent_Success(t *testing.T) {
	var got GenerateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Eat more fiber"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-1.5-flash", "text-embedding-004")
	text, err := client.GenerateContent(context.Background(), "hello", DietGenerationConfig())

	require.NoError(t, err)
	assert.Equal(t, "Eat more fiber", text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, 40, got.GenerationConfig.TopK)
	assert.Equal(t, 2048, got.GenerationConfig.MaxOutputTokens)
}

func TestGenerateContent_OmitsConfigWhenNil(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "k", "m", "e").GenerateContent(context.Background(), "squat", nil)
	require.NoError(t, err)
	assert.NotContains(t, raw, "generationConfig")
}

func TestGenerateContent_Errors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		"api error body": {http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, func(t *testing.T, err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "API key not valid", apiErr.Message)
		}},
		"plain 500": {http.StatusInternalServerError, `oops`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "500")
		}},
		"no candidates": {http.StatusOK, `{"candidates":[]}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrEmptyResponse)
		}},
		"empty text": {http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrEmptyResponse)
		}},
		"malformed": {http.StatusOK, `{"candidates":`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "JSON")
		}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "k", "m", "e").GenerateContent(context.Background(), "p", nil)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestGenerateContent_MissingKey(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "", "m", "e").GenerateContent(context.Background(), "p", nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestEmbedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
		var req EmbedContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "models/text-embedding-004", req.Model)
		w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	}))
	defer server.Close()

	values, err := NewClient(server.URL, "k", "m", "text-embedding-004").EmbedContent(context.Background(), "lunch")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, values)
}
