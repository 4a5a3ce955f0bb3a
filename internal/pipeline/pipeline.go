package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"voxtube/internal/cache"
	"voxtube/internal/metrics"
	"voxtube/pkg/models"
)

// ErrNoChunks возвращается, когда на вход конвейера не пришло ни одного фрагмента
var ErrNoChunks = errors.New("нет фрагментов для обработки")

// Enhancer переписывает фрагмент текста под устную речь
type Enhancer interface {
	Enhance(ctx context.Context, text string) (string, error)
}

// Synthesizer преобразует текст в аудио MP3
type Synthesizer interface {
	SynthesizeText(ctx context.Context, text, voiceID string, settings models.VoiceSettings) ([]byte, error)
}

// Combiner объединяет аудио фрагменты в один файл
type Combiner interface {
	Combine(ctx context.Context, parts [][]byte) ([]byte, error)
}

// ProgressFunc уведомляет о прогрессе обработки. Вызывается строго
// последовательно, completed не убывает между вызовами.
type ProgressFunc func(completed, total int)

// Options содержит настройки конвейера
type Options struct {
	ConcurrentTasks int           // лимит одновременных обращений к внешним API
	CacheTTL        time.Duration // время жизни записей кэша
	GatewayTimeout  time.Duration // таймаут одного обращения к внешнему API
}

// Pipeline обрабатывает фрагменты текста: переписывает каждый под озвучку,
// синтезирует аудио и собирает фрагменты в один файл в исходном порядке
type Pipeline struct {
	enhancer Enhancer
	synth    Synthesizer
	combiner Combiner
	store    cache.Store
	metrics  *metrics.Metrics
	logger   *zap.Logger
	opts     Options
}

// New создает новый конвейер обработки фрагментов
func New(enhancer Enhancer, synth Synthesizer, combiner Combiner, store cache.Store, m *metrics.Metrics, logger *zap.Logger, opts Options) *Pipeline {
	if opts.ConcurrentTasks <= 0 {
		opts.ConcurrentTasks = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}
	if opts.GatewayTimeout <= 0 {
		opts.GatewayTimeout = 60 * time.Second
	}

	return &Pipeline{
		enhancer: enhancer,
		synth:    synth,
		combiner: combiner,
		store:    store,
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
}

// ProcessChunks обрабатывает фрагменты с ограниченным параллелизмом и
// возвращает итоговое аудио. Фрагменты, для которых синтез не удался,
// молча исключаются из результата. Порядок фрагментов в итоговом аудио
// всегда совпадает с порядком в исходном тексте.
func (p *Pipeline) ProcessChunks(ctx context.Context, chunks []models.Chunk, voiceID string, settings models.VoiceSettings, progress ProgressFunc) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	p.logger.Info("начинаем обработку фрагментов",
		zap.Int("chunks", len(chunks)),
		zap.Int("concurrency", p.opts.ConcurrentTasks),
		zap.String("voice_id", voiceID))

	results := make([]models.ChunkResult, len(chunks))

	// Семафор ограничивает количество одновременных обращений к внешним API
	semaphore := make(chan struct{}, p.opts.ConcurrentTasks)

	var wg sync.WaitGroup
	var progressMu sync.Mutex
	completed := 0

	for i, chunk := range chunks {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(i int, chunk models.Chunk) {
			defer wg.Done()
			defer func() { <-semaphore }()

			results[i] = p.processChunk(ctx, chunk, voiceID, settings)

			if progress != nil {
				progressMu.Lock()
				completed++
				progress(completed, len(chunks))
				progressMu.Unlock()
			}
		}(i, chunk)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Собираем аудио строго в порядке исходных индексов
	parts := make([][]byte, 0, len(results))
	dropped := 0
	for _, result := range results {
		if !result.HasAudio() {
			dropped++
			continue
		}
		parts = append(parts, result.Audio)
	}

	if dropped > 0 {
		p.logger.Warn("часть фрагментов исключена из итогового аудио",
			zap.Int("dropped", dropped),
			zap.Int("total", len(chunks)))
	}

	audio, err := p.combiner.Combine(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("ошибка объединения аудио: %w", err)
	}

	p.logger.Info("обработка фрагментов завершена",
		zap.Int("chunks", len(chunks)),
		zap.Int("dropped", dropped),
		zap.Int("audio_size", len(audio)))

	return audio, nil
}

// processChunk обрабатывает один фрагмент: переписывает текст и синтезирует
// аудио, используя кэш для обоих шагов. При ошибке синтеза возвращает
// результат без аудио.
func (p *Pipeline) processChunk(ctx context.Context, chunk models.Chunk, voiceID string, settings models.VoiceSettings) models.ChunkResult {
	result := models.ChunkResult{Index: chunk.Index}

	enhanced := p.enhanceChunk(ctx, chunk)

	audio, ok := p.synthesizeChunk(ctx, enhanced, voiceID, settings)
	if !ok {
		p.metrics.RecordChunk("dropped")
		p.logger.Warn("фрагмент исключен из итогового аудио",
			zap.Int("index", chunk.Index))
		return result
	}

	result.Audio = audio
	p.metrics.RecordChunk("success")
	return result
}

// enhanceChunk переписывает текст фрагмента под озвучку. При ошибке
// провайдера возвращает исходный текст, откат не кэшируется.
func (p *Pipeline) enhanceChunk(ctx context.Context, chunk models.Chunk) string {
	key := cache.CreateKey("enhanced", chunk.Text)

	if value, ok := p.store.Get(ctx, key); ok {
		p.metrics.RecordCacheOperation("get", "hit")
		return string(value)
	}
	p.metrics.RecordCacheOperation("get", "miss")

	callCtx, cancel := context.WithTimeout(ctx, p.opts.GatewayTimeout)
	defer cancel()

	start := time.Now()
	enhanced, err := p.enhancer.Enhance(callCtx, chunk.Text)
	p.metrics.RecordGatewayRequest("enhance", err == nil, time.Since(start).Seconds())

	if err != nil {
		p.metrics.RecordChunk("fallback")
		p.logger.Warn("не удалось переписать фрагмент, используем исходный текст",
			zap.Int("index", chunk.Index),
			zap.Error(err))
		return chunk.Text
	}

	p.store.Set(ctx, key, []byte(enhanced), p.opts.CacheTTL)
	p.metrics.RecordCacheOperation("set", "ok")

	return enhanced
}

// synthesizeChunk синтезирует аудио для текста фрагмента. Ключ кэша
// учитывает текст, голос и параметры голоса.
func (p *Pipeline) synthesizeChunk(ctx context.Context, text, voiceID string, settings models.VoiceSettings) ([]byte, bool) {
	keyData := fmt.Sprintf("%s|%s|%v|%v|%v|%t",
		text, voiceID,
		settings.Stability, settings.SimilarityBoost, settings.Style, settings.UseSpeakerBoost)
	key := cache.CreateKey("speech", keyData)

	if value, ok := p.store.Get(ctx, key); ok {
		p.metrics.RecordCacheOperation("get", "hit")
		return value, true
	}
	p.metrics.RecordCacheOperation("get", "miss")

	callCtx, cancel := context.WithTimeout(ctx, p.opts.GatewayTimeout)
	defer cancel()

	start := time.Now()
	audio, err := p.synth.SynthesizeText(callCtx, text, voiceID, settings)
	p.metrics.RecordGatewayRequest("synthesize", err == nil, time.Since(start).Seconds())

	if err != nil {
		p.logger.Error("ошибка синтеза фрагмента", zap.Error(err))
		return nil, false
	}

	p.store.Set(ctx, key, audio, p.opts.CacheTTL)
	p.metrics.RecordCacheOperation("set", "ok")

	return audio, true
}
