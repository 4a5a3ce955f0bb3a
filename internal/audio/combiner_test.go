package audio

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestCombine_NoAudio(t *testing.T) {
	combiner := NewCombiner(zap.NewNop())

	_, err := combiner.Combine(context.Background(), nil)
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("ожидалась ошибка ErrNoAudio, получена '%v'", err)
	}
}

func TestCombine_CorruptPart(t *testing.T) {
	combiner := NewCombiner(zap.NewNop())

	parts := [][]byte{
		{0xFF, 0xFB, 0x90, 0x00},
		[]byte("это не mp3"),
	}

	_, err := combiner.Combine(context.Background(), parts)
	if err == nil {
		t.Error("ожидалась ошибка для некорректного фрагмента")
	}
}

func TestCombine_SinglePart(t *testing.T) {
	combiner := NewCombiner(zap.NewNop())

	part := []byte{0xFF, 0xFB, 0x90, 0x00, 0x01, 0x02}
	got, err := combiner.Combine(context.Background(), [][]byte{part})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if string(got) != string(part) {
		t.Error("единственный фрагмент должен возвращаться без изменений")
	}
}

func TestIsValidMP3(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"ID3 тег", []byte("ID3\x04\x00"), true},
		{"frame sync", []byte{0xFF, 0xFB, 0x90}, true},
		{"пустые данные", nil, false},
		{"слишком короткие данные", []byte{0xFF}, false},
		{"произвольные данные", []byte("hello"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidMP3(tt.data); got != tt.want {
				t.Errorf("isValidMP3() = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}
