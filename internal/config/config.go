package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store drivers
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTP      `yaml:"http"`
	Store     Store     `yaml:"store"`
	Redis     Redis     `yaml:"redis"`
	Auth      Auth      `yaml:"auth"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr string `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	// Mode is the gin mode: debug, release or test.
	Mode string `yaml:"mode" env:"GIN_MODE" env-default:"release"`
}

type Store struct {
	Driver     string        `yaml:"driver" env:"STORE_DRIVER" env-default:"memory"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"30m"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt-secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token-ttl" env:"TOKEN_TTL" env-default:"24h"`
}

type Telemetry struct {
	Enabled      bool   `yaml:"enabled" env:"TELEMETRY_ENABLED" env-default:"false"`
	Endpoint     string `yaml:"endpoint" env:"TELEMETRY_ENDPOINT" env-default:"otel-collector:4317"`
	ServiceName  string `yaml:"service-name" env:"TELEMETRY_SERVICE_NAME" env-default:"tic-tac-toe"`
	StdoutTraces bool   `yaml:"stdout-traces" env:"TELEMETRY_STDOUT_TRACES" env-default:"false"`
}

// Load reads the configuration from the YAML file at path, then the
// environment. With an empty path only the environment is read.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the server needs.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreMemory, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt-secret (JWT_SECRET) is required"))
	}
	if c.Store.SessionTTL < 0 {
		errs = append(errs, errors.New("store.session-ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// Usage describes the environment variables Load understands.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
