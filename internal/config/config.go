package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Response shapes understood by the read endpoint.
const (
	ShapeWrapped = "wrapped" // { "posts": [...] }
	ShapeList    = "list"    // [...]
)

// Sort keys for the rendered table.
const (
	SortTime   = "time"
	SortNumber = "number"
)

// Config holds the application configuration
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Poller PollerConfig `mapstructure:"poller"`
	Submit SubmitConfig `mapstructure:"submit"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// APIConfig holds settings for the remote board API
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Shape       string        `mapstructure:"shape"`
	Sort        string        `mapstructure:"sort"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	Parallelism int           `mapstructure:"parallelism"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig controls the circuit breaker in front of the API
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// PollerConfig holds the refresh loop settings
type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// SubmitConfig holds submission settings
type SubmitConfig struct {
	Throttle time.Duration `mapstructure:"throttle"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://yuyuyu-made-bbs.onrender.com/api")
	v.SetDefault("api.shape", ShapeWrapped)
	v.SetDefault("api.sort", SortTime)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.user_agent", "bbsfront/1.0")
	v.SetDefault("api.parallelism", 2)
	v.SetDefault("api.breaker.max_failures", 5)
	v.SetDefault("api.breaker.open_timeout", "30s")
	v.SetDefault("poller.interval", "5s")
	v.SetDefault("submit.throttle", "1s")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig loads configuration from ./config.yaml or ./config/config.yaml
// and BBS_* environment variables. A missing file is not an error.
func LoadConfig() (*Config, error) {
	return load("")
}

// LoadConfigFile loads configuration from an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	switch c.API.Shape {
	case ShapeWrapped, ShapeList:
	default:
		return fmt.Errorf("invalid api.shape %q (want %s or %s)", c.API.Shape, ShapeWrapped, ShapeList)
	}
	switch c.API.Sort {
	case SortTime, SortNumber:
	default:
		return fmt.Errorf("invalid api.sort %q (want %s or %s)", c.API.Sort, SortTime, SortNumber)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}
	if c.Submit.Throttle <= 0 {
		return errors.New("submit.throttle must be positive")
	}
	return nil
}
