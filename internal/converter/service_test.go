package converter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voxtube/internal/metrics"
	"voxtube/internal/pipeline"
	"voxtube/internal/transcript"
	"voxtube/pkg/models"
)

var testMetrics = metrics.New(zap.NewNop())

type fakeFetcher struct {
	segments []models.TranscriptSegment
	err      error
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoURL string) ([]models.TranscriptSegment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

type fakeProcessor struct {
	audio      []byte
	err        error
	lastChunks []models.Chunk
}

func (f *fakeProcessor) ProcessChunks(ctx context.Context, chunks []models.Chunk, voiceID string, settings models.VoiceSettings, progress pipeline.ProgressFunc) ([]byte, error) {
	f.lastChunks = chunks
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func TestConvert(t *testing.T) {
	fetcher := &fakeFetcher{
		segments: []models.TranscriptSegment{
			{Text: "привет", Start: 0, Duration: 1},
			{Text: "мир", Start: 1, Duration: 1},
		},
	}
	processor := &fakeProcessor{audio: []byte("mp3-данные")}

	service := NewService(fetcher, processor, testMetrics, zap.NewNop(), 500)

	job := models.Job{
		VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VoiceID:  "voice-1",
	}

	audio, err := service.Convert(context.Background(), job, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-данные"), audio)

	// Текст сегментов объединяется и разбивается на фрагменты
	require.Len(t, processor.lastChunks, 1)
	assert.Equal(t, "привет мир", processor.lastChunks[0].Text)
}

func TestConvert_ChunkLimitRespected(t *testing.T) {
	var segments []models.TranscriptSegment
	for i := 0; i < 100; i++ {
		segments = append(segments, models.TranscriptSegment{Text: fmt.Sprintf("сегмент%d", i)})
	}

	fetcher := &fakeFetcher{segments: segments}
	processor := &fakeProcessor{audio: []byte("x")}

	service := NewService(fetcher, processor, testMetrics, zap.NewNop(), 100)

	_, err := service.Convert(context.Background(), models.Job{VideoURL: "url"}, nil)
	require.NoError(t, err)

	require.Greater(t, len(processor.lastChunks), 1)
	for _, chunk := range processor.lastChunks {
		assert.LessOrEqual(t, len(chunk.Text), 100)
	}
}

func TestConvert_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: transcript.ErrNoTranscript}
	processor := &fakeProcessor{}

	service := NewService(fetcher, processor, testMetrics, zap.NewNop(), 500)

	_, err := service.Convert(context.Background(), models.Job{VideoURL: "url"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, transcript.ErrNoTranscript)
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(transcript.ErrInvalidURL))
	assert.True(t, IsInputError(transcript.ErrNoTranscript))
	assert.True(t, IsInputError(pipeline.ErrNoChunks))
	assert.True(t, IsInputError(fmt.Errorf("обертка: %w", transcript.ErrNoTranscript)))
	assert.False(t, IsInputError(errors.New("внутренняя ошибка")))
	assert.False(t, IsInputError(nil))
}
