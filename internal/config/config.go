// Package config loads runtime settings for the taskboard binaries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultPort      = "5000"
	DefaultStoreURI  = "mongodb://localhost:27017/todoapp"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultAPIURL    = "http://localhost:5000"

	// DefaultConfigFile is read from the working directory when TASKBOARD_CONFIG is unset.
	DefaultConfigFile = "taskboard.toml"
)

// Config holds server and client settings.
type Config struct {
	Port        string   `toml:"port"`
	StoreURI    string   `toml:"store_uri"`
	LogLevel    string   `toml:"log_level"`
	LogFormat   string   `toml:"log_format"`
	CORSOrigins []string `toml:"cors_origins"`
	APIURL      string   `toml:"api_url"`
}

// Load resolves configuration from, lowest priority first: defaults, the TOML
// file, a .env file in the working directory, and the process environment.
func Load() (*Config, error) {
	cfg := defaults()

	path, explicit := configFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	loadFromEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func defaults() *Config {
	return &Config{
		Port:        DefaultPort,
		StoreURI:    DefaultStoreURI,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		CORSOrigins: []string{"*"},
		APIURL:      DefaultAPIURL,
	}
}

func configFile() (path string, explicit bool) {
	if v := os.Getenv("TASKBOARD_CONFIG"); v != "" {
		return v, true
	}
	return DefaultConfigFile, false
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.StoreURI = v
	}
	// MONGODB_URI wins when both are set.
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.StoreURI = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port is required")
	}
	if strings.TrimSpace(c.StoreURI) == "" {
		return errors.New("store uri is required")
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
