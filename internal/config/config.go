package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var ErrMissingToken = errors.New("TG_TOKEN is not set")

type Config struct {
	DB             DBConfig
	TGtoken        string
	Timezone       string `validate:"required"`
	ReferencePath  string `validate:"omitempty,file"`
	WidgetDir      string
	ReminderWindow int `validate:"min=1,max=366"`
}

type DBConfig struct {
	Driver   string `validate:"oneof=postgres mysql sqlite"`
	Host     string `validate:"required_unless=Driver sqlite"`
	Port     string `validate:"required_unless=Driver sqlite,omitempty,numeric"`
	User     string `validate:"required_unless=Driver sqlite"`
	Password string
	Name     string `validate:"required_unless=Driver sqlite"`
	SSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Path     string `validate:"required_if=Driver sqlite"`
}

// Load читает .env (если есть) и переменные окружения. Токен бота проверяется отдельно,
// потому что команды migrate/search/preview работают без него.
func Load(log *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	cfg := &Config{
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", ""),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", ""),
		},
		TGtoken:        getEnv("TG_TOKEN", ""),
		Timezone:       getEnv("TIMEZONE", "UTC"),
		ReferencePath:  getEnv("REFERENCE_PATH", ""),
		WidgetDir:      getEnv("WIDGET_DIR", ""),
		ReminderWindow: getEnvInt("REMINDER_WINDOW", 64, log),
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Некорректная конфигурация", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// RequireToken нужен только команде serve.
func (c *Config) RequireToken() error {
	if c.TGtoken == "" {
		return ErrMissingToken
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int, log *zap.Logger) int {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Warn("Некорректное число в переменной окружения, используем значение по умолчанию",
			zap.String("key", key), zap.String("value", val), zap.Int("default", def))
		return def
	}
	return n
}
