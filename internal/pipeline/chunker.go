package pipeline

import (
	"strings"

	"voxtube/pkg/models"
)

// SplitIntoChunks разбивает текст на фрагменты не длиннее maxLength символов.
// Разбиение идет по словам, порядок слов сохраняется. Слово длиннее maxLength
// попадает в отдельный фрагмент целиком.
func SplitIntoChunks(text string, maxLength int) []models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []models.Chunk
	var current []string
	currentLength := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, models.Chunk{
			Index: len(chunks),
			Text:  strings.Join(current, " "),
		})
		current = current[:0]
		currentLength = 0
	}

	for _, word := range words {
		// Учитываем пробел между словами внутри фрагмента
		if currentLength+len(word)+1 <= maxLength || len(current) == 0 {
			current = append(current, word)
			currentLength += len(word) + 1
			continue
		}
		flush()
		current = append(current, word)
		currentLength = len(word) + 1
	}
	flush()

	return chunks
}
