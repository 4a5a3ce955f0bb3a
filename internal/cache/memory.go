package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStore реализует кэш в памяти процесса.
// Просроченные записи удаляются лениво при чтении, фоновая очистка
// доступна через DeleteExpired.
type MemoryStore struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// memoryEntry представляет одну запись кэша в памяти
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore создает новый кэш в памяти
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger:  logger,
		entries: make(map[string]memoryEntry),
	}
}

// Get возвращает значение по ключу, удаляя запись если её TTL истек
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		// Перепроверяем под write-блокировкой: запись могли перезаписать
		if current, ok := s.entries[key]; ok && time.Now().After(current.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()

		s.logger.Debug("запись кэша просрочена и удалена", zap.String("key", key))
		return nil, false
	}

	return entry.value, true
}

// Set сохраняет значение с абсолютным сроком жизни now + ttl
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
}

// DeleteExpired удаляет все просроченные записи и возвращает их количество
func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now()
	var deleted int64

	s.mu.Lock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			deleted++
		}
	}
	s.mu.Unlock()

	return deleted, nil
}

// Len возвращает текущее количество записей в кэше
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
