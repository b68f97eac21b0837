package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workoutvibes-api/pkg/gemini"
)

const testChatTemplate = `Explain the exercise "{{.Exercise}}".
If "{{.Exercise}}" is not a known exercise, respond: "Sorry, I don't know about that exercise."`

type stubChat struct {
	reply  string
	err    error
	prompt string
}

func (s *stubChat) Chat(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

type helpCommand struct{}

func (helpCommand) CheckSpecialCommand(message string) (bool, string) {
	if message == "/help" {
		return true, "type an exercise"
	}
	return false, ""
}

func TestChatbotService_Reply(t *testing.T) {
	chat := &stubChat{reply: "1. **Push-up**\n2. Category: bodyweight"}
	svc, err := NewChatbotService(chat, testChatTemplate, nil)
	require.NoError(t, err)

	reply, err := svc.Reply(context.Background(), "  push-up ")
	require.NoError(t, err)

	// 応答は整形せずにそのまま返す
	assert.Equal(t, "1. **Push-up**\n2. Category: bodyweight", reply)
	assert.Contains(t, chat.prompt, `Explain the exercise "push-up"`)
	assert.Contains(t, chat.prompt, "Sorry, I don't know about that exercise.")
}

func TestChatbotService_FallbackReplies(t *testing.T) {
	cases := map[string]struct {
		reply string
		err   error
		want  string
	}{
		"empty text":      {reply: "   ", want: ReplyNoResponse},
		"no candidates":   {err: fmt.Errorf("wrap: %w", gemini.ErrEmptyResponse), want: ReplyNoResponse},
		"api error":       {err: fmt.Errorf("wrap: %w", &gemini.APIError{Code: 400, Message: "bad key"}), want: ReplyNoResponse},
		"transport error": {err: errors.New("dial tcp: connection refused"), want: ReplyConnectionError},
		"missing api key": {err: gemini.ErrMissingAPIKey, want: ReplyConnectionError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, err := NewChatbotService(&stubChat{reply: tc.reply, err: tc.err}, testChatTemplate, nil)
			require.NoError(t, err)

			reply, err := svc.Reply(context.Background(), "squat")

			require.NoError(t, err)
			assert.Equal(t, tc.want, reply)
		})
	}
}

func TestChatbotService_EmptyMessage(t *testing.T) {
	svc, err := NewChatbotService(&stubChat{}, testChatTemplate, nil)
	require.NoError(t, err)

	_, err = svc.Reply(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatbotService_SpecialCommand(t *testing.T) {
	chat := &stubChat{reply: "should not be used"}
	svc, err := NewChatbotService(chat, testChatTemplate, helpCommand{})
	require.NoError(t, err)

	reply, err := svc.Reply(context.Background(), "/help")

	require.NoError(t, err)
	assert.Equal(t, "type an exercise", reply)
	assert.Empty(t, chat.prompt)
}

func TestNewChatbotService_BadTemplate(t *testing.T) {
	_, err := NewChatbotService(&stubChat{}, "{{.Exercise", nil)
	assert.Error(t, err)
}
