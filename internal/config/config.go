// Package config loads the product service configuration.
//
// Sources are layered, later ones winning: built-in defaults, config.yaml,
// a .env file, then process environment variables prefixed with PRODUCT_.
// An environment key maps to a config key by dropping the prefix, lowercasing
// and turning "_" into ".", so PRODUCT_AUTH_APIKEY sets auth.apikey. For the
// same reason every key, including those in config.yaml, is lowercase.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "PRODUCT_"
	defaultEnvFile = ".env"
	configFile     = "config.yaml"
)

type Config struct {
	HTTPServer HTTPConfig     `koanf:"server"`
	Log        LogConfig      `koanf:"log"`
	Auth       AuthConfig     `koanf:"auth"`
	Store      StoreConfig    `koanf:"store"`
	Database   DatabaseConfig `koanf:"database"`
	SQLite     SQLiteConfig   `koanf:"sqlite"`
	CORS       CORSConfig     `koanf:"cors"`
	Metrics    MetricsConfig  `koanf:"metrics"`
	PProf      PProfConfig    `koanf:"pprof"`
	Shutdown   ShutdownConfig `koanf:"shutdown"`
}

// defaults lets the service start with no config file at all.
func defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxheaderbytes":     1 << 20,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "120s",
		"server.timeout.readheader": "2s",
		"log.level":                 "info",
		"log.format":                "json",
		"auth.apikey":               "changeme",
		"store.driver":              DriverMemory,
		"database.timeout":          "10s",
		"sqlite.path":               "products.db",
		"cors.enabled":              false,
		"cors.allowedmethods":       []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		"cors.allowedheaders":       []string{"Content-Type", "X-API-Key", "Api-Key"},
		"cors.maxage":               300,
		"metrics.enabled":           true,
		"pprof.enabled":             false,
		"pprof.addr":                "localhost:6060",
		"shutdown.timeout":          "15s",
	}
}

// Load reads the configuration from config.yaml, .env and the environment.
func Load() (*Config, error) {
	return LoadFrom(configFile, defaultEnvFile)
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom(yamlPath, envPath string) (*Config, error) {
	k := koanf.New(".")

	// 0. Built-in defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", yamlPath, err)
		}
	}

	// 2. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(envPath); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				envMap[keyTransformer(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	var cfg Config
	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// keyTransformer transforms environment variable keys to match the expected format
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
	return strings.ReplaceAll(key, "_", ".")
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case DriverPostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	case DriverSQLite:
		if err := c.SQLite.Validate(); err != nil {
			return err
		}
	}
	if err := c.CORS.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	return c.Shutdown.Validate()
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))
	b.WriteString(fmt.Sprintf("  auth.apiKey: %s\n", maskSecret(c.Auth.APIKey)))

	b.WriteString("\n--- Storage Configuration ---\n")
	b.WriteString(fmt.Sprintf("  store.driver: %s\n", c.Store.Driver))
	switch c.Store.Driver {
	case DriverPostgres:
		b.WriteString(fmt.Sprintf("  database.url: %s\n", maskURL(c.Database.URL)))
		b.WriteString(fmt.Sprintf("  database.connect.timeout: %s\n", c.Database.Timeout))
	case DriverSQLite:
		b.WriteString(fmt.Sprintf("  sqlite.path: %s\n", c.SQLite.Path))
	}

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  log.format: %s\n", c.Log.Format))
	b.WriteString(fmt.Sprintf("  metrics.enabled: %t\n", c.Metrics.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  cors.enabled: %t\n", c.CORS.Enabled))
	if c.CORS.Enabled {
		b.WriteString(fmt.Sprintf("  cors.allowedOrigins: %s\n", strings.Join(c.CORS.AllowedOrigins, ",")))
	}
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}
