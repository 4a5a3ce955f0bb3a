package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	os.Setenv("OPENROUTER_API_KEY", "test_openrouter_key")
	os.Setenv("ELEVENLABS_API_KEY", "test_elevenlabs_key")

	// Загружаем конфигурацию
	cfg, err := Load()

	// Проверяем, что конфигурация загружена без ошибок
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Проверяем значения
	assert.Equal(t, "test_token", cfg.Telegram.BotToken)
	assert.Equal(t, "test_openrouter_key", cfg.AI.OpenRouter.APIKey)
	assert.Equal(t, "test_elevenlabs_key", cfg.ElevenLabs.APIKey)

	// Проверяем значения по умолчанию
	assert.Equal(t, "openrouter", cfg.AI.Provider)
	assert.Equal(t, "deepseek/deepseek-r1-0528:free", cfg.AI.Model)
	assert.Equal(t, 1000, cfg.AI.MaxTokens)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, "https://api.elevenlabs.io", cfg.ElevenLabs.BaseURL)
	assert.Equal(t, 0.5, cfg.ElevenLabs.Stability)
	assert.Equal(t, 0.75, cfg.ElevenLabs.SimilarityBoost)
	assert.Equal(t, 500, cfg.Pipeline.MaxChunkLength)
	assert.Equal(t, 5, cfg.Pipeline.ConcurrentTasks)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.GatewayTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 86400*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "en", cfg.YouTube.Language)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test_user",
		Password: "test_password",
		Name:     "test_db",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями
	cfg := &Config{}
	err := validateConfig(cfg)
	assert.Error(t, err)

	// Тест с корректной конфигурацией и кэшем в памяти
	cfg = &Config{
		Telegram: TelegramConfig{
			BotToken: "test_token",
		},
		AI: AIConfig{
			Provider: "openrouter",
			OpenRouter: OpenRouterConfig{
				APIKey: "test_key",
			},
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey: "test_key",
		},
		Pipeline: PipelineConfig{
			MaxChunkLength:  500,
			ConcurrentTasks: 5,
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
	}
	err = validateConfig(cfg)
	assert.NoError(t, err)

	// Postgres бэкенд требует параметры базы данных
	cfg.Cache.Backend = "postgres"
	err = validateConfig(cfg)
	assert.Error(t, err)

	cfg.Database = DatabaseConfig{
		Host:     "localhost",
		User:     "test_user",
		Password: "test_password",
		Name:     "test_db",
	}
	err = validateConfig(cfg)
	assert.NoError(t, err)

	// Неизвестный бэкенд кэша отклоняется
	cfg.Cache.Backend = "redis"
	err = validateConfig(cfg)
	assert.Error(t, err)
}
