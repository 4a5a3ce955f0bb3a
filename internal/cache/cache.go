package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// DefaultTTL время жизни записи кэша по умолчанию (24 часа)
const DefaultTTL = 86400 * time.Second

// Store представляет интерфейс кэша для результатов внешних API.
// Кэш является вспомогательным: любая ошибка бэкенда логируется и
// превращается в промах (Get) или в no-op (Set), конвейер от кэша
// никогда не зависит.
type Store interface {
	// Get возвращает значение по ключу. Второй результат false, если
	// ключ не установлен или его TTL истек.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set сохраняет значение с абсолютным сроком жизни now + ttl,
	// перезаписывая существующую запись.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Sweeper представляет бэкенд, умеющий удалять просроченные записи пачкой.
// Используется фоновой задачей очистки; ленивое удаление при чтении
// работает и без него.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CreateKey создает детерминированный ключ кэша вида "{prefix}:{hash}".
// Одинаковые (prefix, data) всегда дают одинаковый ключ.
func CreateKey(prefix, data string) string {
	hash := md5.Sum([]byte(data))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
