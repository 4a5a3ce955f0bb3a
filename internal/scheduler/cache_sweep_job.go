package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voxtube/internal/cache"
)

// CacheSweepJob удаляет просроченные записи кэша пачкой.
// Ленивое удаление при чтении работает и без этой задачи, она лишь
// не дает кэшу накапливать мертвые записи.
type CacheSweepJob struct {
	sweeper cache.Sweeper
	logger  *zap.Logger
}

// NewCacheSweepJob создает новую задачу очистки кэша
func NewCacheSweepJob(sweeper cache.Sweeper, logger *zap.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		sweeper: sweeper,
		logger:  logger,
	}
}

// Run удаляет все просроченные записи кэша
func (j *CacheSweepJob) Run(ctx context.Context) error {
	deleted, err := j.sweeper.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("ошибка очистки кэша: %w", err)
	}

	if deleted > 0 {
		j.logger.Info("просроченные записи кэша удалены", zap.Int64("deleted", deleted))
	}

	return nil
}
