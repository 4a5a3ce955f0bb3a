package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCreateKey(t *testing.T) {
	// Одинаковые данные дают одинаковый ключ
	key1 := CreateKey("enhanced", "hello world")
	key2 := CreateKey("enhanced", "hello world")
	assert.Equal(t, key1, key2)

	// Разные данные дают разные ключи
	key3 := CreateKey("enhanced", "hello world!")
	assert.NotEqual(t, key1, key3)

	// Разные префиксы дают разные ключи
	key4 := CreateKey("speech", "hello world")
	assert.NotEqual(t, key1, key4)

	// Формат ключа: "{prefix}:{md5hex}"
	assert.Equal(t, "enhanced:5eb63bbbe01eeed093cb22bb8f5acdc3", key1)
}

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	key := CreateKey("enhanced", "какой-то текст")
	value := []byte("улучшенный текст")

	// До записи — промах
	_, ok := store.Get(ctx, key)
	assert.False(t, ok)

	// Запись и чтение до истечения TTL возвращают значение без изменений
	store.Set(ctx, key, value, time.Minute)
	got, ok := store.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, value, got)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	store.Set(ctx, "key", []byte("первое"), time.Minute)
	store.Set(ctx, "key", []byte("второе"), time.Minute)

	got, ok := store.Get(ctx, "key")
	assert.True(t, ok)
	assert.Equal(t, []byte("второе"), got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	// TTL <= 0 означает уже просроченную запись — немедленный промах
	store.Set(ctx, "expired", []byte("значение"), -time.Second)
	_, ok := store.Get(ctx, "expired")
	assert.False(t, ok)

	// Просроченная запись удаляется при чтении
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	store.Set(ctx, "alive", []byte("a"), time.Minute)
	store.Set(ctx, "dead1", []byte("b"), -time.Second)
	store.Set(ctx, "dead2", []byte("c"), -time.Second)

	deleted, err := store.DeleteExpired(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	// Параллельные записи и чтения не должны гонять данные
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := CreateKey("speech", fmt.Sprintf("chunk-%d", i))
			store.Set(ctx, key, []byte{byte(i)}, time.Minute)
			got, ok := store.Get(ctx, key)
			assert.True(t, ok)
			assert.Equal(t, []byte{byte(i)}, got)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}
