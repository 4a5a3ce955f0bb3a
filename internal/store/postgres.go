package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voxtube/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store представляет интерфейс для работы с базой данных
type Store interface {
	Cache() *CacheRepository
	DB() *pgxpool.Pool
	Close() error
}

// store реализует интерфейс Store
type store struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	cache  *CacheRepository
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Настройка пула
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	// Создание пула
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Проверка подключения
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	logger.Info("успешное подключение к базе данных PostgreSQL")

	s := &store{
		db:     db,
		logger: logger,
	}

	// Инициализация репозиториев
	s.cache = NewCacheRepository(db, logger)

	return s, nil
}

// Cache возвращает репозиторий кэша
func (s *store) Cache() *CacheRepository {
	return s.cache
}

// DB возвращает подключение к базе данных
func (s *store) DB() *pgxpool.Pool {
	return s.db
}

// Close закрывает подключение к базе данных
func (s *store) Close() error {
	s.logger.Info("закрытие подключения к базе данных")
	s.db.Close()
	return nil
}

// CacheRepository хранит записи кэша в таблице cache_entries.
// Ошибки базы данных не поднимаются наверх: кэш вспомогательный,
// Get деградирует до промаха, Set до no-op.
type CacheRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCacheRepository создает новый репозиторий кэша
func NewCacheRepository(db *pgxpool.Pool, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает значение по ключу. Просроченная запись удаляется при чтении.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool) {
	query := `SELECT value, expires_at FROM cache_entries WHERE key = $1`

	var value []byte
	var expiresAt time.Time
	err := r.db.QueryRow(ctx, query, key).Scan(&value, &expiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		r.logger.Error("ошибка чтения из кэша", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	if time.Now().After(expiresAt) {
		if _, err := r.db.Exec(ctx, `DELETE FROM cache_entries WHERE key = $1`, key); err != nil {
			r.logger.Error("ошибка удаления просроченной записи кэша",
				zap.String("key", key),
				zap.Error(err))
		}
		return nil, false
	}

	return value, true
}

// Set сохраняет значение с абсолютным сроком жизни now + ttl,
// перезаписывая существующую запись
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	query := `
		INSERT INTO cache_entries (key, value, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`

	now := time.Now()
	if _, err := r.db.Exec(ctx, query, key, value, now.Add(ttl), now); err != nil {
		r.logger.Error("ошибка записи в кэш", zap.String("key", key), zap.Error(err))
	}
}

// DeleteExpired удаляет все просроченные записи и возвращает их количество
func (r *CacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки просроченных записей кэша: %w", err)
	}

	return result.RowsAffected(), nil
}
