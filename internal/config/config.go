package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	OCR       OCRConfig
	Translate TranslateConfig
	Archive   ArchiveConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type AppConfig struct {
	UploadDir     string
	MaxUploadSize int64
}

type OCRConfig struct {
	// TessdataPrefix overrides the tesseract training-data directory when
	// non-empty.
	TessdataPrefix string
	Timeout        time.Duration
}

type TranslateConfig struct {
	// BaseURL points at a LibreTranslate-compatible service.
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type ArchiveConfig struct {
	// Enabled turns on best-effort mirroring of stored uploads to S3.
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("APP_UPLOAD_DIR", "./uploads")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("OCR_TESSDATA_PREFIX", "")
	viper.SetDefault("OCR_TIMEOUT", "30s")
	viper.SetDefault("TRANSLATE_BASE_URL", "http://localhost:5000")
	viper.SetDefault("TRANSLATE_API_KEY", "")
	viper.SetDefault("TRANSLATE_TIMEOUT", "15s")
	viper.SetDefault("ARCHIVE_ENABLED", false)
	viper.SetDefault("ARCHIVE_S3_ENDPOINT", "localhost:9000")
	viper.SetDefault("ARCHIVE_S3_ACCESS_KEY_ID", "minioadmin")
	viper.SetDefault("ARCHIVE_S3_SECRET_ACCESS_KEY", "minioadmin")
	viper.SetDefault("ARCHIVE_S3_USE_SSL", false)
	viper.SetDefault("ARCHIVE_S3_BUCKET_NAME", "uploads")
	viper.SetDefault("ARCHIVE_S3_REGION", "us-east-1")

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		App: AppConfig{
			UploadDir:     viper.GetString("APP_UPLOAD_DIR"),
			MaxUploadSize: viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
		},
		OCR: OCRConfig{
			TessdataPrefix: viper.GetString("OCR_TESSDATA_PREFIX"),
			Timeout:        viper.GetDuration("OCR_TIMEOUT"),
		},
		Translate: TranslateConfig{
			BaseURL: viper.GetString("TRANSLATE_BASE_URL"),
			APIKey:  viper.GetString("TRANSLATE_API_KEY"),
			Timeout: viper.GetDuration("TRANSLATE_TIMEOUT"),
		},
		Archive: ArchiveConfig{
			Enabled:         viper.GetBool("ARCHIVE_ENABLED"),
			Endpoint:        viper.GetString("ARCHIVE_S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("ARCHIVE_S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("ARCHIVE_S3_SECRET_ACCESS_KEY"),
			UseSSL:          viper.GetBool("ARCHIVE_S3_USE_SSL"),
			BucketName:      viper.GetString("ARCHIVE_S3_BUCKET_NAME"),
			Region:          viper.GetString("ARCHIVE_S3_REGION"),
		},
	}

	if err := os.MkdirAll(cfg.App.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", cfg.App.UploadDir, err)
	}

	return cfg, nil
}
