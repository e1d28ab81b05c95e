// Package config loads the API service settings from an optional YAML file
// and the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service settings.
type Config struct {
	Addr            string        `yaml:"addr"`
	DatabaseURL     string        `yaml:"database_url"`
	RedisAddr       string        `yaml:"redis_addr"`
	OtelHost        string        `yaml:"otel_host"`
	OtelProbability float64       `yaml:"otel_probability"`
	LogLevel        string        `yaml:"log_level"`
	TLSCert         string        `yaml:"tls_cert"`
	TLSKey          string        `yaml:"tls_key"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:            ":8443",
		RedisAddr:       "localhost:6379",
		OtelProbability: 1.0,
		LogLevel:        "info",
		TLSCert:         "certs/server.crt",
		TLSKey:          "certs/server.key",
		SessionTTL:      time.Hour,
	}
}

// Load reads path (if non-empty and present) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TLSEnabled reports whether both certificate files are configured.
func (c Config) TLSEnabled() bool { return c.TLSCert != "" && c.TLSKey != "" }

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":         &c.Addr,
		"DATABASE_URL": &c.DatabaseURL,
		"REDIS_ADDR":   &c.RedisAddr,
		"OTEL_HOST":    &c.OtelHost,
		"LOG_LEVEL":    &c.LogLevel,
		"TLS_CERT":     &c.TLSCert,
		"TLS_KEY":      &c.TLSKey,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("OTEL_PROBABILITY"); ok {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || p > 1 {
			return fmt.Errorf("OTEL_PROBABILITY must be in [0,1], got %q", v)
		}
		c.OtelProbability = p
	}
	if v, ok := lookup("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}
