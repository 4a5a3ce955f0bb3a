package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voxtube/internal/metrics"
	"voxtube/internal/pipeline"
	"voxtube/internal/transcript"
	"voxtube/pkg/models"
)

// TranscriptFetcher получает субтитры видео по ссылке
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoURL string) ([]models.TranscriptSegment, error)
}

// ChunkProcessor обрабатывает фрагменты и возвращает итоговое аудио
type ChunkProcessor interface {
	ProcessChunks(ctx context.Context, chunks []models.Chunk, voiceID string, settings models.VoiceSettings, progress pipeline.ProgressFunc) ([]byte, error)
}

// Service преобразует транскрипт YouTube видео в озвученное аудио
type Service struct {
	fetcher        TranscriptFetcher
	processor      ChunkProcessor
	metrics        *metrics.Metrics
	logger         *zap.Logger
	maxChunkLength int
}

// NewService создает новый сервис преобразования
func NewService(fetcher TranscriptFetcher, processor ChunkProcessor, m *metrics.Metrics, logger *zap.Logger, maxChunkLength int) *Service {
	if maxChunkLength <= 0 {
		maxChunkLength = 500
	}

	return &Service{
		fetcher:        fetcher,
		processor:      processor,
		metrics:        m,
		logger:         logger,
		maxChunkLength: maxChunkLength,
	}
}

// Convert выполняет полный цикл: субтитры, разбиение на фрагменты,
// озвучка и сборка итогового аудио
func (s *Service) Convert(ctx context.Context, job models.Job, progress pipeline.ProgressFunc) ([]byte, error) {
	start := time.Now()
	s.metrics.RecordJobStart()

	audio, err := s.convert(ctx, job, progress)

	s.metrics.RecordJobFinish(err == nil, time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("задача завершилась с ошибкой",
			zap.String("video_url", job.VideoURL),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("задача выполнена",
		zap.String("video_url", job.VideoURL),
		zap.Int("audio_size", len(audio)),
		zap.Duration("duration", time.Since(start)))

	return audio, nil
}

func (s *Service) convert(ctx context.Context, job models.Job, progress pipeline.ProgressFunc) ([]byte, error) {
	segments, err := s.fetcher.Fetch(ctx, job.VideoURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения субтитров: %w", err)
	}

	text := transcript.FullText(segments)
	chunks := pipeline.SplitIntoChunks(text, s.maxChunkLength)

	s.logger.Info("транскрипт разбит на фрагменты",
		zap.String("video_url", job.VideoURL),
		zap.Int("text_length", len(text)),
		zap.Int("chunks", len(chunks)))

	return s.processor.ProcessChunks(ctx, chunks, job.VoiceID, job.Settings, progress)
}

// IsInputError проверяет, вызвана ли ошибка входными данными пользователя.
// Такие ошибки показываются пользователю как есть, остальные считаются
// внутренними.
func IsInputError(err error) bool {
	return errors.Is(err, transcript.ErrInvalidURL) ||
		errors.Is(err, transcript.ErrNoTranscript) ||
		errors.Is(err, pipeline.ErrNoChunks)
}
