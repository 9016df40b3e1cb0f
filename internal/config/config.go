package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DictionaryPath string
	DatabaseURL    string
	LogFile        string
	LogLevel       string
	SourceEncoding string
	MinGoVersion   string
	PreCommitHook  string
	RequiredTools  []string
	// CommandTimeoutSeconds bounds each external command run by the
	// environment validator.
	CommandTimeoutSeconds int
	// EnvFileLoaded is false when no .env file was found.
	EnvFileLoaded bool
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		DictionaryPath:        getEnv("DICTIONARY_PATH", "translations.json"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		LogFile:               getEnv("LOG_FILE", "translation.log"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		SourceEncoding:        getEnv("SOURCE_ENCODING", "utf-8"),
		MinGoVersion:          getEnv("MIN_GO_VERSION", "1.26"),
		PreCommitHook:         getEnv("PRE_COMMIT_HOOK", ".git/hooks/pre-commit"),
		RequiredTools:         getEnvList("REQUIRED_TOOLS", []string{"golangci-lint", "gofumpt"}),
		CommandTimeoutSeconds: getEnvInt("COMMAND_TIMEOUT_SECONDS", 30),
		EnvFileLoaded:         loaded,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
