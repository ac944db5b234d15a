package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Store backends understood by storage.Open.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the runtime settings of the leaderboard service.
// Table, index and game identifiers are fixed and deliberately not part of it.
type Config struct {
	Backend          string `json:"backend"`
	HTTPPort         int    `json:"http_port"`
	DatabaseURL      string `json:"database_url"`
	AWSRegion        string `json:"aws_region"`
	DynamoDBEndpoint string `json:"dynamodb_endpoint"` // e.g. http://localhost:8000 for DynamoDB Local
	LogLevel         string `json:"log_level"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Backend:  BackendDynamoDB,
		HTTPPort: 8080,
		LogLevel: "info",
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config.json", "tag", "config", "err", err)
		}
	}

	overrideString(&cfg.Backend, "STORE_BACKEND")
	overrideInt(&cfg.HTTPPort, "PORT")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.AWSRegion, "AWS_REGION")
	overrideString(&cfg.DynamoDBEndpoint, "DYNAMODB_ENDPOINT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return cfg
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid value for "+envKey, "tag", "config", "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
