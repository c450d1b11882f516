// config/overlay.go
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env.local and then .env from dir into the process
// environment. Variables that are already set win; missing files are fine.
func LoadDotEnv(dir string) error {
	for _, name := range []string{".env.local", ".env"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg. The variable names are
// the ones the hosted deployment already uses.
func ApplyEnv(cfg *Config) {
	if v := env("DATABASE_URL"); v != "" {
		cfg.Store.Driver = "postgres"
		cfg.Store.DSN = v
	}
	if v := env("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := env("LEADHUB_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := env("GOOGLE_SHEET_WEBHOOK_URL"); v != "" {
		cfg.Sync.ListingsWebhookURL = v
	}
	if v := env("GOOGLE_SHEETS_URL"); v != "" {
		cfg.Sync.RequirementsWebhookURL = v
	}
	if v := env("GOOGLE_DRIVE_UPLOAD_URL", "REACT_APP_GOOGLE_DRIVE_UPLOAD_URL"); v != "" {
		cfg.Sync.DriveUploadURL = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// env returns the first non-empty variable among keys.
func env(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
