package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"voxtube/pkg/models"
)

// ElevenLabsService предоставляет функциональность Text-to-Speech через ElevenLabs API
type ElevenLabsService struct {
	logger     *zap.Logger
	baseURL    string
	apiKey     string
	modelID    string
	httpClient *http.Client
}

// NewElevenLabsService создает новый ElevenLabs TTS сервис
func NewElevenLabsService(logger *zap.Logger, baseURL, apiKey, modelID string) *ElevenLabsService {
	return &ElevenLabsService{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		modelID: modelID,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// synthesizeRequest представляет запрос к ElevenLabs text-to-speech API
type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// voicesResponse представляет ответ ElevenLabs voices API
type voicesResponse struct {
	Voices []struct {
		VoiceID string `json:"voice_id"`
		Name    string `json:"name"`
	} `json:"voices"`
}

// SynthesizeText преобразует текст в аудио MP3 через ElevenLabs API
func (s *ElevenLabsService) SynthesizeText(ctx context.Context, text, voiceID string, settings models.VoiceSettings) ([]byte, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("некорректные параметры голоса: %w", err)
	}

	s.logger.Info("🎵 генерируем аудио через ElevenLabs",
		zap.String("voice_id", voiceID),
		zap.Int("text_length", len(text)))

	request := synthesizeRequest{
		Text:    text,
		ModelID: s.modelID,
		VoiceSettings: voiceSettings{
			Stability:       settings.Stability,
			SimilarityBoost: settings.SimilarityBoost,
			Style:           settings.Style,
			UseSpeakerBoost: settings.UseSpeakerBoost,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs вернул ошибку %d: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио данных: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("ElevenLabs вернул пустое аудио")
	}

	s.logger.Info("🎵 аудио успешно сгенерировано",
		zap.String("voice_id", voiceID),
		zap.Int("audio_size", len(audioData)))

	return audioData, nil
}

// ListVoices возвращает список доступных голосов
func (s *ElevenLabsService) ListVoices(ctx context.Context) ([]models.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка голосов: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs вернул ошибку %d: %s", resp.StatusCode, string(body))
	}

	var response voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	voices := make([]models.Voice, 0, len(response.Voices))
	for _, v := range response.Voices {
		voices = append(voices, models.Voice{
			ID:   v.VoiceID,
			Name: v.Name,
		})
	}

	return voices, nil
}
