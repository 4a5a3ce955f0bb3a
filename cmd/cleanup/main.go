package main

import (
	"context"
	"flag"
	"log"

	"voxtube/internal/config"
	"voxtube/internal/store"

	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Показать количество просроченных записей без фактического удаления")
	flag.Parse()

	// Инициализация логгера
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	if !cfg.Cache.UsesDatabase() {
		logger.Fatal("Очистка применима только к CACHE_BACKEND=postgres")
	}

	// Подключение к базе данных
	dbStore, err := store.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("Ошибка подключения к базе данных", zap.Error(err))
	}
	defer dbStore.Close()

	ctx := context.Background()

	if *dryRun {
		var count int64
		err := dbStore.DB().QueryRow(ctx,
			`SELECT count(*) FROM cache_entries WHERE expires_at < now()`).Scan(&count)
		if err != nil {
			logger.Fatal("Ошибка подсчета просроченных записей", zap.Error(err))
		}

		logger.Info("DRY RUN: Будет удалено записей кэша", zap.Int64("count", count))
		return
	}

	deleted, err := dbStore.Cache().DeleteExpired(ctx)
	if err != nil {
		logger.Fatal("Ошибка очистки кэша", zap.Error(err))
	}

	logger.Info("Очистка кэша завершена успешно", zap.Int64("deleted", deleted))
}
