package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"

// Config holds service configuration loaded from YAML and env.
type Config struct {
	APIKey     string
	APIBaseURL string
	APITimeout time.Duration

	ServerPort string

	// Rainfall observation record caps. Product decision to bound response
	// size for an LLM context window, kept configurable rather than hardcoded.
	RainfallFilteredLimit   int
	RainfallUnfilteredLimit int
}

type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Limits struct {
		RainfallFiltered   int `yaml:"rainfall_filtered"`
		RainfallUnfiltered int `yaml:"rainfall_unfiltered"`
	} `yaml:"limits"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev, file
// optional) plus the environment. CWA_API_KEY comes from the environment or a
// .env file in the working directory; absence is a fatal condition.
func Load() (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	var fc fileConfig
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.APIKey = strings.TrimSpace(os.Getenv("CWA_API_KEY"))
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("CWA_API_KEY required (set env or .env)")
	}

	cfg.APIBaseURL = strings.TrimSpace(fc.API.BaseURL)
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultBaseURL
	}
	cfg.APITimeout = parseDuration(fc.API.Timeout, 30*time.Second)

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.RainfallFilteredLimit = fc.Limits.RainfallFiltered
	if cfg.RainfallFilteredLimit <= 0 {
		cfg.RainfallFilteredLimit = 10
	}
	cfg.RainfallUnfilteredLimit = fc.Limits.RainfallUnfiltered
	if cfg.RainfallUnfilteredLimit <= 0 {
		cfg.RainfallUnfilteredLimit = 50
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func validate(cfg *Config) error {
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", cfg.APIBaseURL)
	}
	if cfg.RainfallFilteredLimit > cfg.RainfallUnfilteredLimit {
		return fmt.Errorf("limits.rainfall_filtered (%d) must not exceed limits.rainfall_unfiltered (%d)",
			cfg.RainfallFilteredLimit, cfg.RainfallUnfilteredLimit)
	}
	return nil
}
