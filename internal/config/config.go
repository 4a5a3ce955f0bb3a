package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Telegram   TelegramConfig
	AI         AIConfig
	ElevenLabs ElevenLabsConfig
	YouTube    YouTubeConfig
	Pipeline   PipelineConfig
	Cache      CacheConfig
	Database   DatabaseConfig
	App        AppConfig
}

// TelegramConfig содержит настройки Telegram бота
type TelegramConfig struct {
	BotToken string
}

// AIConfig содержит настройки AI провайдеров для улучшения текста
type AIConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	DeepSeek    DeepSeekConfig
	OpenRouter  OpenRouterConfig
}

type DeepSeekConfig struct {
	APIKey  string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey   string
	SiteURL  string
	SiteName string
}

// ElevenLabsConfig содержит настройки ElevenLabs TTS API
type ElevenLabsConfig struct {
	APIKey          string
	BaseURL         string
	ModelID         string
	DefaultVoiceID  string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	UseSpeakerBoost bool
}

// YouTubeConfig содержит настройки получения субтитров
type YouTubeConfig struct {
	TimedTextURL string
	Language     string
}

// PipelineConfig содержит настройки конвейера обработки фрагментов
type PipelineConfig struct {
	MaxChunkLength  int           // максимальная длина фрагмента текста в символах
	ConcurrentTasks int           // лимит одновременных обращений к внешним API
	GatewayTimeout  time.Duration // таймаут одного обращения к внешнему API
}

// CacheConfig содержит настройки кэша
type CacheConfig struct {
	Backend       string        // memory или postgres
	TTL           time.Duration // время жизни записи по умолчанию
	SweepInterval time.Duration // интервал фоновой очистки просроченных записей
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationPath string
}

type AppConfig struct {
	Env      string
	LogLevel string
	Port     int
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Telegram
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	// AI
	cfg.AI.Provider = getEnvDefault("AI_PROVIDER", "openrouter")
	cfg.AI.Model = getEnvDefault("AI_MODEL", "deepseek/deepseek-r1-0528:free")
	cfg.AI.MaxTokens = getEnvIntDefault("AI_MAX_TOKENS", 1000)
	cfg.AI.Temperature = getEnvFloatDefault("AI_TEMPERATURE", 0.7)
	cfg.AI.DeepSeek.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	cfg.AI.DeepSeek.BaseURL = getEnvDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1")
	cfg.AI.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	cfg.AI.OpenRouter.SiteURL = getEnvDefault("OPENROUTER_SITE_URL", "https://voxtube.app")
	cfg.AI.OpenRouter.SiteName = getEnvDefault("OPENROUTER_SITE_NAME", "VoxTube")

	// ElevenLabs
	cfg.ElevenLabs.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.ElevenLabs.BaseURL = getEnvDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io")
	cfg.ElevenLabs.ModelID = getEnvDefault("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2")
	cfg.ElevenLabs.DefaultVoiceID = os.Getenv("ELEVENLABS_DEFAULT_VOICE_ID")
	cfg.ElevenLabs.Stability = getEnvFloatDefault("ELEVENLABS_STABILITY", 0.5)
	cfg.ElevenLabs.SimilarityBoost = getEnvFloatDefault("ELEVENLABS_SIMILARITY_BOOST", 0.75)
	cfg.ElevenLabs.Style = getEnvFloatDefault("ELEVENLABS_STYLE", 0.0)
	cfg.ElevenLabs.UseSpeakerBoost = getEnvBoolDefault("ELEVENLABS_USE_SPEAKER_BOOST", true)

	// YouTube
	cfg.YouTube.TimedTextURL = getEnvDefault("YOUTUBE_TIMEDTEXT_URL", "https://www.youtube.com/api/timedtext")
	cfg.YouTube.Language = getEnvDefault("YOUTUBE_TRANSCRIPT_LANG", "en")

	// Pipeline
	cfg.Pipeline.MaxChunkLength = getEnvIntDefault("PIPELINE_MAX_CHUNK_LENGTH", 500)
	cfg.Pipeline.ConcurrentTasks = getEnvIntDefault("PIPELINE_CONCURRENT_TASKS", 5)
	cfg.Pipeline.GatewayTimeout = time.Duration(getEnvIntDefault("PIPELINE_GATEWAY_TIMEOUT", 60)) * time.Second

	// Cache
	cfg.Cache.Backend = getEnvDefault("CACHE_BACKEND", "memory")
	cfg.Cache.TTL = time.Duration(getEnvIntDefault("CACHE_TTL", 86400)) * time.Second
	cfg.Cache.SweepInterval = time.Duration(getEnvIntDefault("CACHE_SWEEP_INTERVAL", 3600)) * time.Second

	// Database
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = getEnvDefault("MIGRATION_PATH", "scripts/migrations")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.Port = getEnvIntDefault("APP_PORT", 8080)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не установлен")
	}
	if config.AI.Provider == "deepseek" && config.AI.DeepSeek.APIKey == "" {
		return fmt.Errorf("DEEPSEEK_API_KEY не установлен")
	}
	if config.AI.Provider == "openrouter" && config.AI.OpenRouter.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY не установлен")
	}
	if config.AI.Provider != "deepseek" && config.AI.Provider != "openrouter" {
		return fmt.Errorf("поддерживаются только AI_PROVIDER: deepseek, openrouter")
	}
	if config.ElevenLabs.APIKey == "" {
		return fmt.Errorf("ELEVENLABS_API_KEY не установлен")
	}
	if config.Pipeline.MaxChunkLength <= 0 {
		return fmt.Errorf("PIPELINE_MAX_CHUNK_LENGTH должен быть положительным")
	}
	if config.Pipeline.ConcurrentTasks <= 0 {
		return fmt.Errorf("PIPELINE_CONCURRENT_TASKS должен быть положительным")
	}
	if config.Cache.Backend != "memory" && config.Cache.Backend != "postgres" {
		return fmt.Errorf("поддерживаются только CACHE_BACKEND: memory, postgres")
	}
	if config.Cache.Backend == "postgres" {
		if config.Database.Host == "" {
			return fmt.Errorf("DB_HOST не установлен")
		}
		if config.Database.User == "" {
			return fmt.Errorf("DB_USER не установлен")
		}
		if config.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD не установлен")
		}
		if config.Database.Name == "" {
			return fmt.Errorf("DB_NAME не установлен")
		}
	}

	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// VoiceSettings возвращает параметры голоса по умолчанию из конфигурации
func (c *ElevenLabsConfig) VoiceSettings() (stability, similarityBoost, style float64, useSpeakerBoost bool) {
	return c.Stability, c.SimilarityBoost, c.Style, c.UseSpeakerBoost
}

// UsesDatabase проверяет, нужна ли кэшу база данных
func (c *CacheConfig) UsesDatabase() bool {
	return c.Backend == "postgres"
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
