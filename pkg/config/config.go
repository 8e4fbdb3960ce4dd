package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Okanebox struct {
		APIBaseURL  string        `yaml:"api_base_url"`
		FundBaseURL string        `yaml:"fund_base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		UserAgent   string        `yaml:"user_agent"`
		StartDate   string        `yaml:"start_date"`
		EndDate     string        `yaml:"end_date"`
	} `yaml:"okanebox"`
	Collector struct {
		MaxFunds     int           `yaml:"max_funds"`
		PaceInterval time.Duration `yaml:"pace_interval"`
		Workers      int           `yaml:"workers"`
	} `yaml:"collector"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory, redis, layered
		NameTTL time.Duration `yaml:"name_ttl"`
		MaxSize int           `yaml:"max_size"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("OKANEBOX_API_URL"); v != "" {
		c.Okanebox.APIBaseURL = v
	}
	if v := os.Getenv("OKANEBOX_FUND_URL"); v != "" {
		c.Okanebox.FundBaseURL = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("COLLECTOR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Collector.Workers = n
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Okanebox.APIBaseURL == "" {
		c.Okanebox.APIBaseURL = "https://www.okanebox.com.br/api/fundoinvestimento/hist"
	}
	if c.Okanebox.FundBaseURL == "" {
		c.Okanebox.FundBaseURL = "https://www.okanebox.com.br/fundo"
	}
	if c.Okanebox.Timeout == 0 {
		c.Okanebox.Timeout = 15 * time.Second
	}
	if c.Okanebox.UserAgent == "" {
		c.Okanebox.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0 Safari/537.36"
	}
	if c.Okanebox.StartDate == "" {
		c.Okanebox.StartDate = "19000101"
	}
	if c.Okanebox.EndDate == "" {
		c.Okanebox.EndDate = "21000101"
	}
	if c.Collector.MaxFunds == 0 {
		c.Collector.MaxFunds = 10
	}
	if c.Collector.PaceInterval == 0 {
		c.Collector.PaceInterval = 400 * time.Millisecond
	}
	if c.Collector.Workers == 0 {
		c.Collector.Workers = 1
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.NameTTL == 0 {
		c.Cache.NameTTL = time.Hour
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 1000
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Collector.MaxFunds < 2 {
		return fmt.Errorf("collector.max_funds must be at least 2 to correlate anything")
	}
	if c.Collector.Workers < 1 {
		return fmt.Errorf("collector.workers must be >= 1")
	}
	return nil
}
