package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Client     Client     `yaml:"client"`
	Log        Log        `yaml:"log"`
	StubServer StubServer `yaml:"stub_server"`
}

type Client struct {
	BaseURL      string        `env:"CONVERTER_SERVICE_URL" env-default:"http://localhost:8080" yaml:"base_url"`
	Timeout      time.Duration `env:"CONVERTER_TIMEOUT" env-default:"10s" yaml:"timeout"`
	MaxRetries   int           `env:"CONVERTER_MAX_RETRIES" env-default:"0" yaml:"max_retries"`
	RetryBackoff time.Duration `env:"CONVERTER_RETRY_BACKOFF" env-default:"1s" yaml:"retry_backoff"`
}

type Log struct {
	Level       string `env:"LOG_LEVEL" env-default:"info" yaml:"level"`
	Development bool   `env:"LOG_DEVELOPMENT" env-default:"false" yaml:"development"`
}

type StubServer struct {
	Addr string `env:"STUB_SERVER_ADDR" env-default:":8080" yaml:"addr"`
}

// Load reads configuration from a .env file when present and then the environment
func Load() (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("error reading env: %w", err)
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a yaml, json, toml or env file.
// Environment variables override values from the file.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	return cfg, nil
}
