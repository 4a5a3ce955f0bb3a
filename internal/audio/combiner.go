package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrNoAudio возвращается, когда объединять нечего
var ErrNoAudio = errors.New("нет аудио для объединения")

// Combiner объединяет MP3 фрагменты в один файл через FFmpeg
type Combiner struct {
	logger *zap.Logger
}

// NewCombiner создает новый объединитель аудио
func NewCombiner(logger *zap.Logger) *Combiner {
	return &Combiner{
		logger: logger,
	}
}

// Combine объединяет MP3 фрагменты в один файл, сохраняя порядок.
// Каждый фрагмент проверяется на корректность заголовка MP3 до запуска FFmpeg.
// Единственный фрагмент возвращается как есть, без перекодирования.
func (c *Combiner) Combine(ctx context.Context, parts [][]byte) ([]byte, error) {
	if len(parts) == 0 {
		return nil, ErrNoAudio
	}

	for i, part := range parts {
		if !isValidMP3(part) {
			return nil, fmt.Errorf("фрагмент %d не является корректным MP3", i)
		}
	}

	// Один фрагмент склеивать не нужно
	if len(parts) == 1 {
		return parts[0], nil
	}

	c.logger.Info("объединяем аудио фрагменты", zap.Int("parts", len(parts)))

	tempDir, err := os.MkdirTemp("", "voxtube_combine_*")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временной директории: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Записываем фрагменты во временные файлы и готовим список
	// для concat демуксера FFmpeg
	var listContent []byte
	for i, part := range parts {
		partFile := filepath.Join(tempDir, fmt.Sprintf("part_%04d.mp3", i))
		if err := os.WriteFile(partFile, part, 0o600); err != nil {
			return nil, fmt.Errorf("ошибка записи фрагмента %d: %w", i, err)
		}
		listContent = append(listContent, []byte(fmt.Sprintf("file '%s'\n", partFile))...)
	}

	listFile := filepath.Join(tempDir, "list.txt")
	if err := os.WriteFile(listFile, listContent, 0o600); err != nil {
		return nil, fmt.Errorf("ошибка записи списка фрагментов: %w", err)
	}

	outputFile := filepath.Join(tempDir, "combined.mp3")

	// Перекодируем при склейке: фрагменты могут иметь разные битрейты
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:a", "libmp3lame",
		"-q:a", "2",
		"-y",
		outputFile)

	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.Error("FFmpeg завершился с ошибкой",
			zap.Error(err),
			zap.String("output", string(output)))
		return nil, fmt.Errorf("ошибка объединения аудио: %w", err)
	}

	combined, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения результата: %w", err)
	}

	c.logger.Info("аудио фрагменты объединены",
		zap.Int("parts", len(parts)),
		zap.Int("audio_size", len(combined)))

	return combined, nil
}

// isValidMP3 проверяет, что данные начинаются с ID3 тега или MP3 frame sync
func isValidMP3(data []byte) bool {
	if len(data) < 3 {
		return false
	}

	// ID3v2 тег
	if data[0] == 'I' && data[1] == 'D' && data[2] == '3' {
		return true
	}

	// Frame sync: 11 единичных бит подряд
	return data[0] == 0xFF && data[1]&0xE0 == 0xE0
}
