package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAIClient возвращает заранее заданный ответ или ошибку
type fakeAIClient struct {
	response *Response
	err      error

	lastMessages []Message
	lastOptions  GenerationOptions
}

func (f *fakeAIClient) GenerateResponse(ctx context.Context, messages []Message, options GenerationOptions) (*Response, error) {
	f.lastMessages = messages
	f.lastOptions = options
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeAIClient) GetName() string {
	return "fake"
}

func TestEnhance(t *testing.T) {
	client := &fakeAIClient{
		response: &Response{
			Content:  `  "Это  переписанный **текст**."  `,
			Provider: "fake",
		},
	}

	enhancer := NewEnhancer(client, 1000, 0.7, zap.NewNop())

	got, err := enhancer.Enhance(context.Background(), "это исходный текст")
	require.NoError(t, err)
	assert.Equal(t, "Это переписанный текст.", got)

	// Системный промпт идет первым, исходный текст вторым
	require.Len(t, client.lastMessages, 2)
	assert.Equal(t, "system", client.lastMessages[0].Role)
	assert.Equal(t, "user", client.lastMessages[1].Role)
	assert.Equal(t, "это исходный текст", client.lastMessages[1].Content)

	assert.Equal(t, 1000, client.lastOptions.MaxTokens)
	assert.Equal(t, 0.7, client.lastOptions.Temperature)
}

func TestEnhance_ProviderError(t *testing.T) {
	providerErr := errors.New("сервис недоступен")
	client := &fakeAIClient{err: providerErr}

	enhancer := NewEnhancer(client, 1000, 0.7, zap.NewNop())

	_, err := enhancer.Enhance(context.Background(), "текст")
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
}

func TestEnhance_EmptyResponse(t *testing.T) {
	client := &fakeAIClient{response: &Response{Content: "   "}}

	enhancer := NewEnhancer(client, 1000, 0.7, zap.NewNop())

	_, err := enhancer.Enhance(context.Background(), "текст")
	assert.Error(t, err)
}

func TestCleanEnhancedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"обрамляющие кавычки", `"привет мир"`, "привет мир"},
		{"markdown выделение", "это **важный** текст", "это важный текст"},
		{"лишние пробелы", "  много   пробелов \n тут  ", "много пробелов тут"},
		{"чистый текст", "ничего менять не нужно", "ничего менять не нужно"},
		{"пустая строка", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanEnhancedText(tt.in))
		})
	}
}
