package ai

import (
	"context"
	"strings"
)

// Message представляет сообщение для AI
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response представляет ответ от AI
type Response struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	Usage        Usage  `json:"usage"`
	FinishReason string `json:"finish_reason"`
	Provider     string `json:"provider"`
}

// Usage представляет статистику использования токенов
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationOptions опции для генерации ответа
type GenerationOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// AIClient интерфейс для работы с AI провайдерами
type AIClient interface {
	// GenerateResponse генерирует ответ на основе сообщений
	GenerateResponse(ctx context.Context, messages []Message, options GenerationOptions) (*Response, error)

	// GetName возвращает название провайдера
	GetName() string
}

// AIConfig содержит конфигурацию для AI клиентов
type AIConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	DeepSeek    DeepSeekConfig
	OpenRouter  OpenRouterConfig
}

// DeepSeekConfig конфигурация DeepSeek
type DeepSeekConfig struct {
	APIKey  string
	BaseURL string
}

// OpenRouterConfig конфигурация OpenRouter
type OpenRouterConfig struct {
	APIKey   string
	SiteURL  string
	SiteName string
}

// GetEnhancePrompt возвращает системный промпт для переписывания
// фрагмента транскрипта под озвучку
func GetEnhancePrompt() string {
	return `Ты редактор текста для озвучки.

Перепиши фрагмент транскрипта видео так, чтобы он естественно звучал в устной речи.
СТРОГО сохраняй смысл и порядок изложения.
НЕ добавляй новых фактов, приветствий и комментариев от себя.
НЕ используй разметку, списки и спецсимволы — только обычный текст.

В ответе верни только переписанный фрагмент.`
}

// CleanEnhancedText убирает из ответа AI артефакты, мешающие озвучке:
// обрамляющие кавычки, markdown-разметку и лишние пробелы
func CleanEnhancedText(text string) string {
	text = strings.TrimSpace(text)

	// Модели иногда заключают весь ответ в кавычки
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}

	// Убираем markdown-выделение
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "`", "")

	// Убираем лишние пробелы
	text = strings.Join(strings.Fields(text), " ")

	return text
}
