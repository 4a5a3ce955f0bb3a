package transcript

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"voxtube/pkg/models"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "обычная ссылка",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "короткая ссылка",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "ссылка с дополнительными параметрами",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want: "dQw4w9WgXcQ",
		},
		{
			name:    "не ссылка на видео",
			url:     "https://example.com/page",
			wantErr: true,
		},
		{
			name:    "пустая строка",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ожидалась ошибка для '%s'", tt.url)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ожидалась ошибка ErrInvalidURL, получена '%v'", err)
				}
				return
			}

			if err != nil {
				t.Errorf("неожиданная ошибка: %v", err)
			}
			if got != tt.want {
				t.Errorf("ожидался ID '%s', получен '%s'", tt.want, got)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	logger := zap.NewNop()
	client := NewClient("https://www.youtube.com/api/timedtext", "en", logger)

	if client == nil {
		t.Fatal("клиент не должен быть nil")
	}

	if client.baseURL != "https://www.youtube.com/api/timedtext" {
		t.Errorf("ожидался baseURL 'https://www.youtube.com/api/timedtext', получен '%s'", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("httpClient не должен быть nil")
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	logger := zap.NewNop()
	client := NewClient("http://localhost:1", "en", logger)

	ctx := context.Background()
	_, err := client.Fetch(ctx, "https://example.com/page")

	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("ожидалась ошибка ErrInvalidURL, получена '%v'", err)
	}
}

func TestFetch_ServerUnavailable(t *testing.T) {
	logger := zap.NewNop()
	client := NewClient("http://localhost:1", "en", logger)

	// Тест с несуществующим сервером должен вернуть ошибку
	ctx := context.Background()
	_, err := client.Fetch(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	if err == nil {
		t.Error("ожидалась ошибка при запросе к несуществующему серверу")
	}
}

func TestFullText(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Text: "Привет,", Start: 0, Duration: 1.5},
		{Text: "это", Start: 1.5, Duration: 0.7},
		{Text: "тест", Start: 2.2, Duration: 0.9},
	}

	got := FullText(segments)
	want := "Привет, это тест"

	if got != want {
		t.Errorf("ожидался текст '%s', получен '%s'", want, got)
	}

	if FullText(nil) != "" {
		t.Error("для пустого списка сегментов ожидалась пустая строка")
	}
}
