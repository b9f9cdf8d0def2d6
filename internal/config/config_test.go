package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TASKBOARD_CONFIG", "PORT", "MONGODB_URI", "DATABASE_URL",
	"LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS", "API_URL",
}

// cleanEnv runs the test in an empty directory with every setting unset.
func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "mongodb://localhost:27017/todoapp", cfg.StoreURI)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:5000", cfg.APIURL)
}

func TestLoadPrecedence(t *testing.T) {
	dir := cleanEnv(t)
	writeFile(t, filepath.Join(dir, "taskboard.toml"), `
port = "7000"
store_uri = "memory://"
log_level = "debug"
cors_origins = ["http://localhost:3000"]
`)
	writeFile(t, filepath.Join(dir, ".env"), "PORT=8000\nLOG_FORMAT=json\n")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port, "environment beats .env and file")
	assert.Equal(t, "json", cfg.LogFormat, ".env beats defaults")
	assert.Equal(t, "memory://", cfg.StoreURI, "file beats defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := cleanEnv(t)
	t.Setenv("TASKBOARD_CONFIG", filepath.Join(dir, "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	dir := cleanEnv(t)
	writeFile(t, filepath.Join(dir, "taskboard.toml"), "port = [")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadStoreURIFallback(t *testing.T) {
	cleanEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/tasks", cfg.StoreURI)

	t.Setenv("MONGODB_URI", "mongodb://db:27017/todoapp")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017/todoapp", cfg.StoreURI)
}

func TestLoadCORSOriginsList(t *testing.T) {
	cleanEnv(t)
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
