package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/patient-reports/pkg/store/breaker"
	"github.com/spf13/viper"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"

	envPrefix = "REPORTS"
)

type StoreConfig struct {
	Driver  string           `mapstructure:"driver"`
	DSN     string           `mapstructure:"dsn"`
	Breaker breaker.Settings `mapstructure:"breaker"`
}

type QueryConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Config struct {
	Store           StoreConfig  `mapstructure:"store"`
	Query           QueryConfig  `mapstructure:"query"`
	Server          ServerConfig `mapstructure:"server"`
	Locale          string       `mapstructure:"locale"`
	LabelsFile      string       `mapstructure:"labels_file"`
	Timezone        string       `mapstructure:"timezone"`
	SchemaCacheSize int          `mapstructure:"schema_cache_size"`
	// Capabilities granted to every caller of this deployment.
	Capabilities    []string     `mapstructure:"capabilities"`
}

// Location resolves the configured timezone, falling back to local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func defaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.breaker.name", "record-store")
	v.SetDefault("store.breaker.max_requests", 1)
	v.SetDefault("store.breaker.interval", 0)
	v.SetDefault("store.breaker.timeout", "30s")
	v.SetDefault("store.breaker.failure_threshold", 5)
	v.SetDefault("query.concurrency", 8)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("locale", "en")
	v.SetDefault("labels_file", "")
	v.SetDefault("timezone", "")
	v.SetDefault("schema_cache_size", 64)
	v.SetDefault("capabilities", []string{"patient_reports"})
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path yields the defaults. REPORTS_* environment variables override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("store.dsn is required for the %s driver", DriverSQLite)
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return &cfg, nil
}
