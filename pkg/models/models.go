package models

import (
	"fmt"
	"time"
)

// Chunk представляет фрагмент исходного текста для обработки
type Chunk struct {
	Index int    `json:"index"` // порядковый номер фрагмента в исходном тексте
	Text  string `json:"text"`
}

// ChunkResult представляет результат обработки одного фрагмента.
// Audio == nil означает, что синтез фрагмента не удался и фрагмент
// исключается из итогового аудио.
type ChunkResult struct {
	Index int    `json:"index"`
	Audio []byte `json:"-"`
}

// HasAudio проверяет, есть ли у фрагмента готовое аудио
func (r *ChunkResult) HasAudio() bool {
	return len(r.Audio) > 0
}

// VoiceSettings содержит параметры голоса для синтеза речи.
// Передаются без изменений в каждый запрос синтеза внутри одной задачи.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`         // стабильность голоса [0, 1]
	SimilarityBoost float64 `json:"similarity_boost"`  // схожесть с оригинальным голосом [0, 1]
	Style           float64 `json:"style"`             // выраженность стиля [0, 1]
	UseSpeakerBoost bool    `json:"use_speaker_boost"` // усиление голоса диктора
}

// Validate проверяет корректность параметров голоса
func (s *VoiceSettings) Validate() error {
	if s.Stability < 0 || s.Stability > 1 {
		return fmt.Errorf("stability должен быть в диапазоне [0, 1], получено %f", s.Stability)
	}
	if s.SimilarityBoost < 0 || s.SimilarityBoost > 1 {
		return fmt.Errorf("similarity_boost должен быть в диапазоне [0, 1], получено %f", s.SimilarityBoost)
	}
	if s.Style < 0 || s.Style > 1 {
		return fmt.Errorf("style должен быть в диапазоне [0, 1], получено %f", s.Style)
	}
	return nil
}

// Voice представляет голос из каталога TTS провайдера
type Voice struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// TranscriptSegment представляет один сегмент субтитров видео
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`    // смещение от начала видео в секундах
	Duration float64 `json:"duration"` // длительность сегмента в секундах
}

// Job представляет одну задачу преобразования транскрипта в аудио.
// Фрагменты и их результаты живут только внутри задачи.
type Job struct {
	VideoURL  string        `json:"video_url"`
	VoiceID   string        `json:"voice_id"`
	Settings  VoiceSettings `json:"settings"`
	CreatedAt time.Time     `json:"created_at"`
}
