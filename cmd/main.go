package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxtube/internal/ai"
	"voxtube/internal/audio"
	"voxtube/internal/bot"
	"voxtube/internal/cache"
	"voxtube/internal/config"
	"voxtube/internal/converter"
	"voxtube/internal/metrics"
	"voxtube/internal/migrations"
	"voxtube/internal/pipeline"
	"voxtube/internal/scheduler"
	"voxtube/internal/store"
	"voxtube/internal/transcript"
	"voxtube/internal/tts"
	"voxtube/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	logger, err := initLogger()
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("запуск приложения VoxTube")

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("ошибка загрузки конфигурации", zap.Error(err))
	}

	// Инициализация кэша: Postgres для переживающего рестарты кэша,
	// иначе кэш в памяти процесса
	var cacheStore cache.Store
	var sweeper cache.Sweeper

	if cfg.Cache.UsesDatabase() {
		dbStore, err := store.NewStore(cfg, logger)
		if err != nil {
			logger.Fatal("ошибка инициализации базы данных", zap.Error(err))
		}
		defer dbStore.Close()

		// Применение миграций
		if err := migrations.RunMigrations(cfg, logger); err != nil {
			logger.Fatal("ошибка применения миграций", zap.Error(err))
		}

		cacheStore = dbStore.Cache()
		sweeper = dbStore.Cache()
		logger.Info("кэш инициализирован", zap.String("backend", "postgres"))
	} else {
		memStore := cache.NewMemoryStore(logger)
		cacheStore = memStore
		sweeper = memStore
		logger.Info("кэш инициализирован", zap.String("backend", "memory"))
	}

	// Инициализация AI клиента
	logger.Info("конфигурация AI",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model))

	aiClient, err := ai.NewAIClient(&ai.AIConfig{
		Provider:    cfg.AI.Provider,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		DeepSeek: ai.DeepSeekConfig{
			APIKey:  cfg.AI.DeepSeek.APIKey,
			BaseURL: cfg.AI.DeepSeek.BaseURL,
		},
		OpenRouter: ai.OpenRouterConfig{
			APIKey:   cfg.AI.OpenRouter.APIKey,
			SiteURL:  cfg.AI.OpenRouter.SiteURL,
			SiteName: cfg.AI.OpenRouter.SiteName,
		},
	}, logger)
	if err != nil {
		logger.Fatal("ошибка создания AI клиента", zap.Error(err))
	}

	enhancer := ai.NewEnhancer(aiClient, cfg.AI.MaxTokens, cfg.AI.Temperature, logger)

	// Инициализация TTS сервиса
	ttsService := tts.NewElevenLabsService(logger, cfg.ElevenLabs.BaseURL, cfg.ElevenLabs.APIKey, cfg.ElevenLabs.ModelID)
	logger.Info("ElevenLabs TTS сервис инициализирован",
		zap.String("model_id", cfg.ElevenLabs.ModelID))

	// Инициализация клиента субтитров
	transcriptClient := transcript.NewClient(cfg.YouTube.TimedTextURL, cfg.YouTube.Language, logger)

	// Инициализация метрик
	metricsSystem := metrics.New(logger)
	metricsHandler := metrics.NewHandler(metricsSystem, logger)

	// Инициализация конвейера обработки фрагментов
	combiner := audio.NewCombiner(logger)
	chunkPipeline := pipeline.New(enhancer, ttsService, combiner, cacheStore, metricsSystem, logger, pipeline.Options{
		ConcurrentTasks: cfg.Pipeline.ConcurrentTasks,
		CacheTTL:        cfg.Cache.TTL,
		GatewayTimeout:  cfg.Pipeline.GatewayTimeout,
	})

	converterService := converter.NewService(transcriptClient, chunkPipeline, metricsSystem, logger, cfg.Pipeline.MaxChunkLength)

	// Инициализация Telegram бота
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal("ошибка инициализации Telegram бота", zap.Error(err))
	}

	botInfo, err := botAPI.GetMe()
	if err != nil {
		logger.Fatal("ошибка получения информации о боте", zap.Error(err))
	}

	logger.Info("Telegram бот инициализирован",
		zap.String("username", botInfo.UserName),
		zap.Int64("id", botInfo.ID))

	defaultSettings := models.VoiceSettings{
		Stability:       cfg.ElevenLabs.Stability,
		SimilarityBoost: cfg.ElevenLabs.SimilarityBoost,
		Style:           cfg.ElevenLabs.Style,
		UseSpeakerBoost: cfg.ElevenLabs.UseSpeakerBoost,
	}

	// Инициализация обработчика
	handler := bot.NewHandler(botAPI, converterService, ttsService, logger, cfg.ElevenLabs.DefaultVoiceID, defaultSettings)

	// Инициализация планировщика задач
	taskScheduler := scheduler.NewScheduler(logger)
	taskScheduler.AddJob(scheduler.NewCacheSweepJob(sweeper, logger))

	// Создание канала для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Запуск HTTP сервера для метрик
	go startMetricsServer(ctx, cfg.App.Port, metricsHandler, logger)

	// Запуск планировщика задач
	go taskScheduler.Start(ctx, cfg.Cache.SweepInterval)

	// Запуск обработки обновлений
	go handleUpdates(ctx, botAPI, handler, logger)

	logger.Info("приложение запущено и готово к работе",
		zap.String("address", fmt.Sprintf("http://localhost:%d", cfg.App.Port)),
	)

	// Ожидание сигнала завершения
	<-sigChan
	logger.Info("получен сигнал завершения, начинаем graceful shutdown")

	// Останавливаем получение обновлений
	botAPI.StopReceivingUpdates()
	cancel()

	logger.Info("приложение завершено")
}

// initLogger инициализирует логгер
func initLogger() (*zap.Logger, error) {
	// В продакшене можно использовать JSON формат
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stdout", "logs/app.log"}
	config.ErrorOutputPaths = []string{"stderr", "logs/error.log"}

	// Создаем директорию для логов если её нет
	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории логов: %w", err)
	}

	return config.Build()
}

// handleUpdates обрабатывает обновления от Telegram
func handleUpdates(ctx context.Context, botAPI *tgbotapi.BotAPI, handler *bot.Handler, logger *zap.Logger) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case update := <-updates:
			// Пропускаем пустые обновления
			if update.Message == nil {
				continue
			}

			// Обрабатываем обновление в горутине
			go func(update tgbotapi.Update) {
				if err := handler.HandleUpdate(ctx, update); err != nil {
					logger.Error("ошибка обработки обновления",
						zap.Int64("chat_id", update.Message.Chat.ID),
						zap.Error(err))
				}
			}(update)

		case <-ctx.Done():
			logger.Info("остановка обработки обновлений")
			return
		}
	}
}

// startMetricsServer запускает HTTP сервер для метрик
func startMetricsServer(ctx context.Context, port int, handler *metrics.Handler, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler.MetricsHandler())
	mux.HandleFunc("/health", handler.HealthHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	logger.Info("HTTP сервер метрик запущен", zap.String("address", server.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ошибка HTTP сервера метрик", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-ctx.Done()

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке HTTP сервера метрик", zap.Error(err))
	}

	logger.Info("HTTP сервер метрик остановлен")
}
