package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Enhancer переписывает фрагменты транскрипта в текст, пригодный для озвучки
type Enhancer struct {
	client      AIClient
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewEnhancer создает новый сервис улучшения текста
func NewEnhancer(client AIClient, maxTokens int, temperature float64, logger *zap.Logger) *Enhancer {
	return &Enhancer{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Enhance переписывает фрагмент транскрипта под устную речь.
// При ошибке провайдера возвращает ошибку, решение об откате
// на исходный текст принимает вызывающая сторона.
func (e *Enhancer) Enhance(ctx context.Context, text string) (string, error) {
	messages := []Message{
		{Role: "system", Content: GetEnhancePrompt()},
		{Role: "user", Content: text},
	}

	response, err := e.client.GenerateResponse(ctx, messages, GenerationOptions{
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка улучшения текста (%s): %w", e.client.GetName(), err)
	}

	enhanced := CleanEnhancedText(response.Content)
	if enhanced == "" {
		return "", fmt.Errorf("пустой ответ от %s", e.client.GetName())
	}

	e.logger.Debug("фрагмент переписан",
		zap.String("provider", response.Provider),
		zap.Int("original_length", len(text)),
		zap.Int("enhanced_length", len(enhanced)),
		zap.Int("total_tokens", response.Usage.TotalTokens))

	return enhanced, nil
}
