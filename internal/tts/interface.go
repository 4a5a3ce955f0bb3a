package tts

import (
	"context"

	"voxtube/pkg/models"
)

// TTSService интерфейс для сервисов синтеза речи
type TTSService interface {
	// SynthesizeText преобразует текст в аудио MP3
	SynthesizeText(ctx context.Context, text, voiceID string, settings models.VoiceSettings) ([]byte, error)

	// ListVoices возвращает список доступных голосов
	ListVoices(ctx context.Context) ([]models.Voice, error)
}
