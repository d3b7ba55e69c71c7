package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"vision-overlay/internal/domain/entity"
)

type Config struct {
	// Приложение
	Environment string
	Port        int
	LogLevel    string

	// Сервис инференса
	InferenceURL     string
	InferenceTimeout time.Duration
	InferenceStrict  bool    // отбрасывать детекции, нарушающие контракт
	MinConfidence    float64 // порог уверенности после инференса

	// Отрисовка
	RenderBackend   string
	DefaultFitMode  entity.FitMode
	JPEGQuality     int
	MaxUploadBytes  int64
	MaxTargetSide   int // предел стороны холста
	MaxSourcePixels int // предел площади исходного снимка

	// Камера со снимками по HTTP (необязательно)
	CameraSnapshotURL string
	CameraTimeout     time.Duration

	// Telegram (необязательно)
	TelegramToken string

	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using environment variables and defaults")
	}

	mode, err := entity.ParseFitMode(getEnv("DEFAULT_FIT_MODE", string(entity.FitStretch)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		InferenceURL:     getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		InferenceTimeout: getEnvDuration("INFERENCE_TIMEOUT", 30*time.Second),
		InferenceStrict:  getEnvBool("INFERENCE_STRICT", false),
		MinConfidence:    getEnvFloat("MIN_CONFIDENCE", 0),

		RenderBackend:  getEnv("RENDER_BACKEND", "gg"),
		DefaultFitMode: mode,
		JPEGQuality:    getEnvInt("JPEG_QUALITY", 90),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),

		MaxTargetSide:   getEnvInt("MAX_TARGET_SIDE", 8192),
		MaxSourcePixels: getEnvInt("MAX_SOURCE_PIXELS", 50_000_000),

		CameraSnapshotURL: os.Getenv("CAMERA_SNAPSHOT_URL"),
		CameraTimeout:     getEnvDuration("CAMERA_TIMEOUT", 5*time.Second),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя молча заменить дефолтом.
func (c *Config) Validate() error {
	if c.InferenceURL == "" {
		return errors.New("INFERENCE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be in [1,100], got %d", c.JPEGQuality)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MIN_CONFIDENCE must be in [0,1], got %v", c.MinConfidence)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxTargetSide <= 0 {
		return fmt.Errorf("MAX_TARGET_SIDE must be positive, got %d", c.MaxTargetSide)
	}
	if c.MaxSourcePixels <= 0 {
		return fmt.Errorf("MAX_SOURCE_PIXELS must be positive, got %d", c.MaxSourcePixels)
	}
	return nil
}

// IsDevelopment включает человекочитаемые логи.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
