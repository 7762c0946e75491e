package config

import (
	"errors"
	"fmt"
	"os"

	"courtpulse/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Courts     []models.Court   `yaml:"courts"`
	Exports    ExportConfig     `yaml:"exports"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type AnalyticsConfig struct {
	PageSize    int `yaml:"page_size"`
	OpenHour    int `yaml:"open_hour"`
	CloseHour   int `yaml:"close_hour"`
	SnapshotTTL int `yaml:"snapshot_ttl"`
}

type WorkerConfig struct {
	QueueSize  int `yaml:"queue_size"`
	MaxRetries int `yaml:"max_retries"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	PrometheusPort    int    `yaml:"prometheus_port"`
	HealthCheckPort   int    `yaml:"health_check_port"`
	LogLevel          string `yaml:"log_level"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	err := godotenv.Load(".env")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Analytics.OpenHour < 0 || c.Analytics.CloseHour > 24 || c.Analytics.OpenHour >= c.Analytics.CloseHour {
		return fmt.Errorf("invalid business hours %d..%d", c.Analytics.OpenHour, c.Analytics.CloseHour)
	}

	return ValidateCourts(c.Courts)
}

func ValidateCourts(courts []models.Court) error {
	// Check for duplicate court IDs
	courtIDs := make(map[int64]bool)
	for _, court := range courts {
		if court.ID == 0 {
			return fmt.Errorf("court '%s' has invalid ID 0", court.Field)
		}
		if courtIDs[court.ID] {
			return fmt.Errorf("duplicate court ID found: %d", court.ID)
		}
		courtIDs[court.ID] = true
		if court.SlotMinutes < 0 || court.PricePerSlot < 0 {
			return fmt.Errorf("court %d has negative slot config", court.ID)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// auth enabled by default when API is enabled
	if !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = models.RateLimitRPS
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = models.RateLimitBurst
	}

	// Analytics defaults
	if c.Analytics.PageSize == 0 {
		c.Analytics.PageSize = models.DefaultPageSize
	}
	if c.Analytics.OpenHour == 0 && c.Analytics.CloseHour == 0 {
		c.Analytics.OpenHour = models.OpenHour
		c.Analytics.CloseHour = models.CloseHour
	}
	if c.Analytics.SnapshotTTL == 0 {
		c.Analytics.SnapshotTTL = models.DefaultSnapshotTTL
	}

	if c.Worker.QueueSize == 0 {
		c.Worker.QueueSize = models.WorkerQueueSize
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
