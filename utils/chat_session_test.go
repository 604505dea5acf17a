package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSession_Answer(t *testing.T) {
	llm := &MockLLMClient{
		InvokeFunc: func(ctx context.Context, prompt string) (string, error) {
			return "- The video says hello to the world.", nil
		},
	}
	chat := NewChatSession(llm)

	answer, err := chat.Answer(context.Background(), "hello world", "What is discussed?")
	require.NoError(t, err)
	assert.NotEmpty(t, answer)

	assert.Equal(t, []ChatMessage{
		{Role: RoleUser, Content: "What is discussed?"},
		{Role: RoleAssistant, Content: answer},
	}, chat.History())

	require.Equal(t, 1, llm.Calls())
	assert.Contains(t, llm.Prompts[0], "contexto: hello world")
	assert.Contains(t, llm.Prompts[0], "pergunta: What is discussed?")
}

func TestChatSession_FailureKeepsHistory(t *testing.T) {
	fail := true
	llm := &MockLLMClient{
		InvokeFunc: func(ctx context.Context, prompt string) (string, error) {
			if fail {
				return "", errors.New("503 service unavailable")
			}
			return "answer", nil
		},
	}
	chat := NewChatSession(llm)

	_, err := chat.Answer(context.Background(), "ctx", "first?")
	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, "first?", chatErr.Question)
	assert.Empty(t, chat.History())

	// The same question can be submitted again.
	fail = false
	_, err = chat.Answer(context.Background(), "ctx", chatErr.Question)
	require.NoError(t, err)
	require.Len(t, chat.History(), 2)

	fail = true
	_, err = chat.Answer(context.Background(), "ctx", "second?")
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, "second?", chatErr.Question)
	assert.Len(t, chat.History(), 2)
}

func TestChatSession_Validation(t *testing.T) {
	llm := &MockLLMClient{
		InvokeFunc: func(ctx context.Context, prompt string) (string, error) {
			t.Fatal("llm must not be called")
			return "", nil
		},
	}
	chat := NewChatSession(llm)

	_, err := chat.Answer(context.Background(), "ctx", " \n")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, llm.Calls())
}

func TestChatSession_NoLLM(t *testing.T) {
	chat := NewChatSession(nil)

	_, err := chat.Answer(context.Background(), "ctx", "question?")
	assert.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Empty(t, chat.History())
}

func TestChatSession_HistoryIsACopy(t *testing.T) {
	chat := NewChatSession(&MockLLMClient{
		InvokeFunc: func(ctx context.Context, prompt string) (string, error) { return "a", nil },
	})
	_, err := chat.Answer(context.Background(), "ctx", "q")
	require.NoError(t, err)

	history := chat.History()
	history[0].Content = "mutated"
	assert.Equal(t, "q", chat.History()[0].Content)

	chat.Reset()
	assert.Empty(t, chat.History())
}

func TestChatSession_AnswerInLanguage(t *testing.T) {
	llm := &MockLLMClient{
		InvokeFunc: func(ctx context.Context, prompt string) (string, error) {
			return "- Fala sobre o mundo.", nil
		},
	}
	chat := NewChatSession(llm)

	_, err := chat.AnswerInLanguage(context.Background(), "olá mundo", "Sobre o que é?", "Portuguese")
	require.NoError(t, err)
	_, err = chat.Answer(context.Background(), "olá mundo", "Sobre o que é?")
	require.NoError(t, err)

	require.Equal(t, 2, llm.Calls())
	assert.Contains(t, llm.Prompts[0], "pergunta: Sobre o que é?")
	assert.Contains(t, llm.Prompts[0], "Idioma da transcrição: Portuguese")
	assert.NotContains(t, llm.Prompts[1], "Idioma da transcrição")
	assert.Len(t, chat.History(), 4)
}
