package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxtube/pkg/models"
)

// Типизированные ошибки источника субтитров. Обе относятся к ошибкам
// входных данных и показываются пользователю как есть.
var (
	ErrInvalidURL   = errors.New("некорректная ссылка на YouTube видео")
	ErrNoTranscript = errors.New("у видео нет субтитров")
)

// videoIDPattern извлекает 11-символьный идентификатор видео из ссылки
var videoIDPattern = regexp.MustCompile(`(?:v=|\/)([0-9A-Za-z_-]{11})`)

// Client представляет клиент для получения субтитров YouTube видео
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создает новый клиент субтитров
func NewClient(baseURL, language string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ExtractVideoID извлекает идентификатор видео из ссылки YouTube
func ExtractVideoID(videoURL string) (string, error) {
	matches := videoIDPattern.FindStringSubmatch(videoURL)
	if matches == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, videoURL)
	}
	return matches[1], nil
}

// timedTextResponse представляет ответ YouTube timedtext API в формате json3
type timedTextResponse struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch получает субтитры видео в исходном порядке
func (c *Client) Fetch(ctx context.Context, videoURL string) ([]models.TranscriptSegment, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", c.language)
	params.Set("fmt", "json3")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	c.logger.Info("запрашиваем субтитры видео",
		zap.String("video_id", videoID),
		zap.String("lang", c.language))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения субтитров: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w (video_id: %s)", ErrNoTranscript, videoID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("timedtext API вернул ошибку %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	// Пустое тело означает, что субтитров на запрошенном языке нет
	if len(body) == 0 {
		return nil, fmt.Errorf("%w (video_id: %s)", ErrNoTranscript, videoID)
	}

	var response timedTextResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	var segments []models.TranscriptSegment
	for _, event := range response.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}

		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}

		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Start:    float64(event.TStartMs) / 1000,
			Duration: float64(event.DDurationMs) / 1000,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w (video_id: %s)", ErrNoTranscript, videoID)
	}

	c.logger.Info("субтитры получены",
		zap.String("video_id", videoID),
		zap.Int("segments", len(segments)))

	return segments, nil
}

// FullText объединяет тексты сегментов в исходном порядке через пробел
func FullText(segments []models.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, segment.Text)
	}
	return strings.Join(parts, " ")
}
