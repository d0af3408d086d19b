package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// It is constructed once at process start and passed by pointer to every
// component that needs it; no package reads the environment anywhere else.
type Config struct {
	// Server
	Port string `yaml:"port"`
	Env  string `yaml:"env"` // development, staging, production

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Data      DataConfig      `yaml:"data"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Model     ModelConfig     `yaml:"model"`
	API       APIConfig       `yaml:"api"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// DataConfig holds ingestion settings.
type DataConfig struct {
	RawPath       string `yaml:"raw_path"`
	ProcessedPath string `yaml:"processed_path"`
	FileType      string `yaml:"file_type"` // csv, json, parquet, xlsx
	Lazy          bool   `yaml:"lazy"`
	ChunkSize     int    `yaml:"chunk_size"`
}

// PipelineConfig holds transformation settings.
type PipelineConfig struct {
	Version       string `yaml:"version"`
	TargetColumn  string `yaml:"target_column"`
	HolidayRegion string `yaml:"holiday_region"`
	DropNA        bool   `yaml:"drop_na"`
}

// ModelConfig holds model artifact settings.
type ModelConfig struct {
	ArtifactDir string `yaml:"artifact_dir"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	RateLimit float64       `yaml:"rate_limit"` // requests per second
	RateBurst int           `yaml:"rate_burst"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// DatabaseConfig holds optional PostgreSQL configuration.
// Persistence is disabled when URL is empty.
type DatabaseConfig struct {
	URL string `yaml:"url"`

	MaxConns        int           `yaml:"max_conns"`
	MinConns        int           `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// Enabled reports whether prediction persistence is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// RedisConfig holds optional Redis configuration.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// SchedulerConfig holds the periodic forecast refresh settings.
type SchedulerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	RefreshSpec string `yaml:"refresh_spec"` // cron spec with seconds field
}

// Load reads configuration from an optional YAML file, then applies
// environment-variable overrides. A missing file is not an error; the
// defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	loadEnvFile()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	} else if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config.yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:      "8089",
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "json",
		Data: DataConfig{
			RawPath:       "data/raw",
			ProcessedPath: "data/processed",
			FileType:      "csv",
			Lazy:          false,
			ChunkSize:     100_000,
		},
		Pipeline: PipelineConfig{
			Version:       "v1",
			TargetColumn:  "aep_mw",
			HolidayRegion: "US",
			DropNA:        true,
		},
		Model: ModelConfig{
			ArtifactDir: "artifacts",
		},
		API: APIConfig{
			RateLimit: 10,
			RateBurst: 20,
			CacheTTL:  10 * time.Minute,
		},
		Database: DatabaseConfig{
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Scheduler: SchedulerConfig{
			RefreshSpec: "0 0 * * * *", // hourly
		},
	}
}

// applyEnv overrides file values with environment variables where set.
func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.Data.RawPath = getEnv("DATA_RAW_PATH", cfg.Data.RawPath)
	cfg.Data.ProcessedPath = getEnv("DATA_PROCESSED_PATH", cfg.Data.ProcessedPath)
	cfg.Data.FileType = getEnv("DATA_FILE_TYPE", cfg.Data.FileType)
	cfg.Data.Lazy = getEnvAsBool("DATA_LAZY", cfg.Data.Lazy)
	cfg.Data.ChunkSize = getEnvAsInt("DATA_CHUNK_SIZE", cfg.Data.ChunkSize)

	cfg.Pipeline.Version = getEnv("PIPELINE_VERSION", cfg.Pipeline.Version)
	cfg.Pipeline.TargetColumn = getEnv("PIPELINE_TARGET_COLUMN", cfg.Pipeline.TargetColumn)
	cfg.Pipeline.HolidayRegion = getEnv("PIPELINE_HOLIDAY_REGION", cfg.Pipeline.HolidayRegion)
	cfg.Pipeline.DropNA = getEnvAsBool("PIPELINE_DROP_NA", cfg.Pipeline.DropNA)

	cfg.Model.ArtifactDir = getEnv("MODEL_ARTIFACT_DIR", cfg.Model.ArtifactDir)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)

	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", cfg.Redis.Enabled)

	cfg.Scheduler.Enabled = getEnvAsBool("SCHEDULER_ENABLED", cfg.Scheduler.Enabled)
	cfg.Scheduler.RefreshSpec = getEnv("SCHEDULER_REFRESH_SPEC", cfg.Scheduler.RefreshSpec)
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Data.FileType {
	case "csv", "json", "parquet", "xlsx":
	default:
		return fmt.Errorf("unsupported file type: %s", c.Data.FileType)
	}

	if c.Data.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Data.ChunkSize)
	}

	if c.Pipeline.TargetColumn == "" {
		return fmt.Errorf("target column is required")
	}

	if c.Pipeline.HolidayRegion != "US" {
		return fmt.Errorf("unsupported holiday region: %s", c.Pipeline.HolidayRegion)
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
