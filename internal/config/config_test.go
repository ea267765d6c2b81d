package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func missing(t *testing.T, name string) string {
	return filepath.Join(t.TempDir(), name)
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(missing(t, "config.yaml"), missing(t, ".env"))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "changeme", cfg.Auth.APIKey)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Shutdown.Timeout)
}

func TestLoadFrom_Layering(t *testing.T) {
	yamlPath := writeFile(t, "config.yaml", `
server:
  port: 9000
log:
  level: warn
auth:
  apikey: from-yaml
store:
  driver: sqlite
sqlite:
  path: /tmp/products.db
`)
	envPath := writeFile(t, ".env", "PRODUCT_AUTH_APIKEY=from-dotenv\nPRODUCT_LOG_LEVEL=error\nUNRELATED=1\n")
	t.Setenv("PRODUCT_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(yamlPath, envPath)

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPServer.Port, "yaml overrides defaults")
	assert.Equal(t, "from-dotenv", cfg.Auth.APIKey, ".env overrides yaml")
	assert.Equal(t, "debug", cfg.Log.Level, "process env overrides .env")
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/products.db", cfg.SQLite.Path)
}

func TestLoadFrom_EnvLists(t *testing.T) {
	t.Setenv("PRODUCT_CORS_ENABLED", "true")
	t.Setenv("PRODUCT_CORS_ALLOWEDORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadFrom(missing(t, "config.yaml"), missing(t, ".env"))

	require.NoError(t, err)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFrom_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "unknown store driver", env: map[string]string{"PRODUCT_STORE_DRIVER": "mongo"}},
		{name: "unknown log format", env: map[string]string{"PRODUCT_LOG_FORMAT": "xml"}},
		{name: "postgres without url", env: map[string]string{"PRODUCT_STORE_DRIVER": "postgres"}},
		{name: "postgres with wrong scheme", env: map[string]string{"PRODUCT_STORE_DRIVER": "postgres", "PRODUCT_DATABASE_URL": "mysql://db"}},
		{name: "empty api key", yaml: "auth:\n  apikey: \"\"\n"},
		{name: "bad port", env: map[string]string{"PRODUCT_SERVER_PORT": "70000"}},
		{name: "cors without origins", env: map[string]string{"PRODUCT_CORS_ENABLED": "true"}},
		{name: "pprof without address", yaml: "pprof:\n  enabled: true\n  addr: \"\"\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			yamlPath := missing(t, "config.yaml")
			if tc.yaml != "" {
				yamlPath = writeFile(t, "config.yaml", tc.yaml)
			}
			// when
			cfg, err := LoadFrom(yamlPath, missing(t, ".env"))
			// then
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestConfig_StringMasksSecrets(t *testing.T) {
	t.Setenv("PRODUCT_STORE_DRIVER", "postgres")
	t.Setenv("PRODUCT_DATABASE_URL", "postgres://admin:s3cret@db:5432/products")
	t.Setenv("PRODUCT_AUTH_APIKEY", "top-secret-key")

	cfg, err := LoadFrom(missing(t, "config.yaml"), missing(t, ".env"))
	require.NoError(t, err)

	out := cfg.String()
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "top-secret-key")
	assert.Contains(t, out, "****@db:5432/products")
	assert.Contains(t, out, "store.driver: postgres")
}
