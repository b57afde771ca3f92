// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Store   StoreConfig
	Catalog CatalogConfig
	Media   MediaConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
	Ingest  IngestConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig holds storage paths for the two stores.
type StoreConfig struct {
	// BasePath is the root data directory. The document store lives under
	// {base}/mediadb, the catalog database at {base}/catalog.db unless
	// overridden.
	BasePath    string
	MediaDBPath string
	CatalogPath string
}

// CatalogConfig holds catalog-store (LCM) semantics.
type CatalogConfig struct {
	// Zone is the fixed local time zone catalog timestamps are recorded in.
	Zone string
	// SystemTag is the fixed system user string catalog writes issued by
	// reconciliation are attributed to.
	SystemTag string
}

// MediaConfig holds media-domain configuration.
type MediaConfig struct {
	// Domain scopes all media operations (currently always "Lodging").
	Domain string
	// ReplacementProviders lists providers whose "add" events are treated
	// as reprocesses of existing content when a matching file name exists.
	ReplacementProviders []string
}

// KafkaConfig holds media-updated notification publishing configuration.
type KafkaConfig struct {
	Enabled bool
	Broker  string
	Topic   string
}

// RedisConfig holds the optional event idempotency cache configuration.
type RedisConfig struct {
	Enabled bool
	Addr    string
	TTL     time.Duration
}

// IngestConfig holds ingest endpoint protection configuration.
type IngestConfig struct {
	// RateRPS and RateBurst bound event ingestion per property.
	RateRPS   float64
	RateBurst int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	catalogZone := flag.String("catalog-zone", "", "Catalog store time zone (default: America/Los_Angeles)")
	kafkaBroker := flag.String("kafka-broker", "", "Kafka broker address")
	redisAddr := flag.String("redis-addr", "", "Redis address for event dedupe")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Store: StoreConfig{
			BasePath:    getConfigValue(*dataPath, "DATA_PATH", ""),
			MediaDBPath: getConfigValue("", "MEDIADB_PATH", ""),
			CatalogPath: getConfigValue("", "CATALOG_DB_PATH", ""),
		},
		Catalog: CatalogConfig{
			Zone:      getConfigValue(*catalogZone, "CATALOG_ZONE", "America/Los_Angeles"),
			SystemTag: getConfigValue("", "CATALOG_SYSTEM_TAG", "MediaSyncService"),
		},
		Media: MediaConfig{
			Domain:               getConfigValue("", "MEDIA_DOMAIN", "Lodging"),
			ReplacementProviders: splitList(getConfigValue("", "REPLACEMENT_PROVIDERS", "iceportal")),
		},
		Kafka: KafkaConfig{
			Enabled: getBoolConfigValue("", "KAFKA_ENABLED", false),
			Broker:  getConfigValue(*kafkaBroker, "KAFKA_BROKER", "localhost:9092"),
			Topic:   getConfigValue("", "KAFKA_TOPIC", "media.updated"),
		},
		Redis: RedisConfig{
			Enabled: getBoolConfigValue("", "REDIS_ENABLED", false),
			Addr:    getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
		},
		Ingest: IngestConfig{
			RateRPS:   float64(getIntConfigValue("", "INGEST_RATE_RPS", 20)),
			RateBurst: getIntConfigValue("", "INGEST_RATE_BURST", 40),
		},
	}

	for _, d := range []struct {
		dst    *time.Duration
		envKey string
		def    string
	}{
		{&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Redis.TTL, "REDIS_DEDUPE_TTL", "24h"},
	} {
		raw := getConfigValue("", d.envKey, d.def)
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = dur
	}

	if err := cfg.expandStorePaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.MediaDBPath == "" || c.Store.CatalogPath == "" {
		return errors.New("store paths cannot be empty after expansion")
	}

	if _, err := time.LoadLocation(c.Catalog.Zone); err != nil {
		return fmt.Errorf("invalid catalog zone %q: %w", c.Catalog.Zone, err)
	}

	if c.Ingest.RateRPS <= 0 || c.Ingest.RateBurst <= 0 {
		return errors.New("ingest rate limit values must be positive")
	}

	return nil
}

// CatalogLocation returns the loaded catalog time zone. Validate guarantees
// the zone name resolves.
func (c *Config) CatalogLocation() *time.Location {
	loc, err := time.LoadLocation(c.Catalog.Zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsReplacementProvider reports whether the provider requires replacement
// semantics for incoming "add" events.
func (c *Config) IsReplacementProvider(provider string) bool {
	for _, p := range c.Media.ReplacementProviders {
		if strings.EqualFold(p, provider) {
			return true
		}
	}
	return false
}

// expandStorePaths expands ~ in the base path and derives the per-store
// paths when not explicitly set.
func (c *Config) expandStorePaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	base, err := expandPath(c.Store.BasePath, filepath.Join(homeDir, "mediasync", "data"))
	if err != nil {
		return err
	}
	c.Store.BasePath = base

	if c.Store.MediaDBPath == "" {
		c.Store.MediaDBPath = filepath.Join(base, "mediadb")
	} else if c.Store.MediaDBPath, err = expandPath(c.Store.MediaDBPath, ""); err != nil {
		return err
	}

	if c.Store.CatalogPath == "" {
		c.Store.CatalogPath = filepath.Join(base, "catalog.db")
	} else if c.Store.CatalogPath, err = expandPath(c.Store.CatalogPath, ""); err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma-separated value into trimmed entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file values.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
