package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration

	ChatPollInterval time.Duration
	// сообщений в минуту на пользователя через HTTP
	MessageRateLimit uint

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// Load читает .env.local, затем .env, затем переменные окружения.
// Уже заданные переменные окружения файлы не перекрывают.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CHAT_POLL_INTERVAL", "3s")
	v.SetDefault("MESSAGE_RATE_LIMIT", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "*")

	cfg := &Config{
		Port:             v.GetString("PORT"),
		DatabaseDriver:   v.GetString("DATABASE_DRIVER"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		ChatPollInterval: v.GetDuration("CHAT_POLL_INTERVAL"),
		MessageRateLimit: v.GetUint("MESSAGE_RATE_LIMIT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.ChatPollInterval <= 0 {
		return errors.New("CHAT_POLL_INTERVAL must be positive")
	}
	if c.MessageRateLimit == 0 {
		return errors.New("MESSAGE_RATE_LIMIT must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
