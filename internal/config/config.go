package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

type Config struct {
	APIBaseURL   string
	StateDBPath  string
	GeminiAPIKey string
	Port         string
	Env          string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.APIBaseURL = getEnv("WARUNGDESK_API_URL", "http://localhost:3001/api")
	cfg.StateDBPath = getEnv("WARUNGDESK_STATE_DB", defaultStatePath())
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
	cfg.Port = getEnv("PORT", "3001")
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

// defaultStatePath puts the session state file under the user config dir,
// falling back to the working directory when it cannot be resolved.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "warungdesk.db"
	}
	return filepath.Join(dir, "warungdesk", "state.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logrus.Warnf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
