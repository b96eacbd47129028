package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Detector  DetectorConfig
	Gemini    GeminiConfig
	TTS       TTSConfig
	Database  DatabaseConfig
	Matching  MatchingConfig
	OCR       OCRConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DetectorConfig holds object-detector configuration.
// Mode "remote" calls the YOLO inference service at BaseURL; mode "mock"
// returns synthetic boxes and needs no external service.
type DetectorConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	Mode          string  `mapstructure:"mode"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// GeminiConfig holds Gemini Vision OCR configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// TTSConfig holds text-to-speech configuration
type TTSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
	AudioDir string `mapstructure:"audio_dir"`
}

// DatabaseConfig holds catalog/order database configuration
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// MatchingConfig holds catalog matcher configuration
type MatchingConfig struct {
	MinScore float64 `mapstructure:"min_score"`
}

// OCRConfig holds per-request OCR fan-out configuration
type OCRConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	AudioTTL time.Duration `mapstructure:"audio_ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartshop/")

	// Environment variable settings; SMARTSHOP_DETECTOR_BASE_URL maps to
	// detector.base_url
	v.SetEnvPrefix("SMARTSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Detector defaults
	v.SetDefault("detector.base_url", "http://localhost:8500")
	v.SetDefault("detector.mode", "remote")
	v.SetDefault("detector.min_confidence", 0.25)

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	// TTS defaults
	v.SetDefault("tts.enabled", true)
	v.SetDefault("tts.base_url", "http://localhost:8600")
	v.SetDefault("tts.language", "en")
	v.SetDefault("tts.audio_dir", "./storage/audio")

	// Database defaults
	v.SetDefault("database.dsn", "host=localhost user=smartshop password=smartshop dbname=smartshop port=5432 sslmode=disable")

	// Matching defaults
	v.SetDefault("matching.min_score", 0.3)

	// OCR fan-out defaults
	v.SetDefault("ocr.concurrency", 4)
	v.SetDefault("ocr.timeout", "15s")

	// Rate limit defaults (requests per minute per client IP)
	v.SetDefault("ratelimit.per_ip", 120)

	// Cache defaults
	v.SetDefault("cache.audio_ttl", "24h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Detector.Mode != "remote" && config.Detector.Mode != "mock" {
		return fmt.Errorf("detector mode must be 'remote' or 'mock', got: %s", config.Detector.Mode)
	}

	if config.Detector.Mode == "remote" && config.Detector.BaseURL == "" {
		return fmt.Errorf("detector base URL is required in remote mode (set SMARTSHOP_DETECTOR_BASE_URL)")
	}

	if config.Detector.MinConfidence < 0 || config.Detector.MinConfidence > 1 {
		return fmt.Errorf("detector min_confidence must be in [0,1], got: %f", config.Detector.MinConfidence)
	}

	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set SMARTSHOP_DATABASE_DSN)")
	}

	if config.OCR.Concurrency < 1 {
		return fmt.Errorf("ocr concurrency must be at least 1, got: %d", config.OCR.Concurrency)
	}

	if config.TTS.Enabled && config.TTS.AudioDir == "" {
		return fmt.Errorf("tts audio_dir is required when tts is enabled")
	}

	return nil
}
