package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"DICTIONARY_PATH", "DATABASE_URL", "LOG_FILE", "LOG_LEVEL", "SOURCE_ENCODING", "REQUIRED_TOOLS", "COMMAND_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "translations.json", cfg.DictionaryPath)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "translation.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "utf-8", cfg.SourceEncoding)
	assert.Equal(t, []string{"golangci-lint", "gofumpt"}, cfg.RequiredTools)
	assert.Equal(t, 30, cfg.CommandTimeoutSeconds)
	assert.False(t, cfg.EnvFileLoaded)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DICTIONARY_PATH", "dict/jp.json")
	t.Setenv("SOURCE_ENCODING", "shift_jis")
	t.Setenv("REQUIRED_TOOLS", " staticcheck , ,goimports")
	t.Setenv("COMMAND_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "dict/jp.json", cfg.DictionaryPath)
	assert.Equal(t, "shift_jis", cfg.SourceEncoding)
	assert.Equal(t, []string{"staticcheck", "goimports"}, cfg.RequiredTools)
	assert.Equal(t, 30, cfg.CommandTimeoutSeconds)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("LOG_FILE", "")
	require.NoError(t, os.Unsetenv("LOG_FILE"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FILE=custom.log\n"), 0o644))

	cfg := Load()
	assert.True(t, cfg.EnvFileLoaded)
	assert.Equal(t, "custom.log", cfg.LogFile)
}
