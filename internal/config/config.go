package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPAddr       string           `yaml:"http_addr"           env:"HTTP_ADDR"           env-default:":8080"`
	RequestTimeout time.Duration    `yaml:"http_client_timeout" env:"HTTP_CLIENT_TIMEOUT" env-default:"30s"`
	Log            LogConfig        `yaml:"log"`
	Gemini         GeminiConfig     `yaml:"gemini"`
	Generation     GenerationConfig `yaml:"generation"`
	History        HistoryConfig    `yaml:"history"`
	Redis          RedisConfig      `yaml:"redis"`
	Telegram       TelegramConfig   `yaml:"telegram"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// GeminiConfig описывает доступ к Gemini API. Ключ передается в клиент
// при создании и больше нигде не читается.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"  env:"GEMINI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Model   string `yaml:"model"    env:"GEMINI_MODEL"    env-default:"gemini-3-flash-preview"`
}

type GenerationConfig struct {
	Timeout      time.Duration `yaml:"timeout"       env:"GENERATION_TIMEOUT"     env-default:"20s"`
	FallbackPath string        `yaml:"fallback_path" env:"FALLBACK_WORDS_PATH"`
	Temperature  float64       `yaml:"temperature"   env:"GENERATION_TEMPERATURE" env-default:"1.0"`
	TopP         float64       `yaml:"top_p"         env:"GENERATION_TOP_P"       env-default:"0.95"`
}

// HistoryConfig управляет памятью об уже выданных словах в рамках сессии.
type HistoryConfig struct {
	Backend  string        `yaml:"backend"   env:"HISTORY_BACKEND"   env-default:"memory"`
	TTL      time.Duration `yaml:"ttl"       env:"HISTORY_TTL"       env-default:"6h"`
	MaxWords int           `yaml:"max_words" env:"HISTORY_MAX_WORDS" env-default:"200"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

type TelegramConfig struct {
	BotToken      string `yaml:"bot_token"      env:"TELEGRAM_BOT_TOKEN"`
	APIBaseURL    string `yaml:"api_base_url"   env:"TELEGRAM_API_BASE_URL"   env-default:"https://api.telegram.org"`
	WebhookSecret string `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET"`
}

// Enabled сообщает, нужно ли поднимать webhook бота.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// Load читает конфигурацию из YAML (если он есть) и переменных окружения.
// Путь к файлу задается CONFIG_PATH, по умолчанию ./config.yaml.
// Явно указанный, но отсутствующий файл считается ошибкой.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
