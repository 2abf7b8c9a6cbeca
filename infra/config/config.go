package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects where the feed persists.
const (
	BackendLocal    = "local"
	BackendFirebase = "firebase"
)

// Config holds application-level configuration.
type Config struct {
	Backend     string // "local" or "firebase"
	DataDir     string // Directory for the local blob and UI state
	DatabaseURL string // Firebase realtime-database base URL
	APIKey      string // Firebase web API key
	UIStatePath string // Path to persisted UI state (theme etc.)
}

// Load reads configuration from a .env file (if present) and the
// environment.
//
//	PLARO_BACKEND   — "local" (default) or "firebase"
//	PLARO_DATA_DIR  — data directory (default: ~/.config/plaro)
//	PLARO_DB_URL    — realtime-database URL (required for firebase)
//	PLARO_API_KEY   — web API key (required for firebase)
func Load() (Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("PLARO_BACKEND")))
	if backend == "" {
		backend = BackendLocal
	}
	if backend != BackendLocal && backend != BackendFirebase {
		return Config{}, fmt.Errorf("invalid PLARO_BACKEND %q: must be %q or %q", backend, BackendLocal, BackendFirebase)
	}

	dataDir := os.Getenv("PLARO_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".config", "plaro")
	}

	cfg := Config{
		Backend:     backend,
		DataDir:     dataDir,
		UIStatePath: filepath.Join(dataDir, "ui_state.json"),
	}

	if backend == BackendFirebase {
		dbURL := strings.TrimSpace(os.Getenv("PLARO_DB_URL"))
		parsed, err := url.Parse(dbURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return Config{}, fmt.Errorf("invalid PLARO_DB_URL: must be an absolute URL")
		}
		if parsed.Scheme != "https" {
			return Config{}, fmt.Errorf("invalid PLARO_DB_URL: only https is allowed")
		}
		cfg.DatabaseURL = strings.TrimRight(parsed.String(), "/")

		cfg.APIKey = strings.TrimSpace(os.Getenv("PLARO_API_KEY"))
		if cfg.APIKey == "" {
			return Config{}, fmt.Errorf("PLARO_API_KEY is required for the firebase backend")
		}
	}

	return cfg, nil
}
