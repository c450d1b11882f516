package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "PORT", "LEADHUB_DATA_DIR", "GOOGLE_SHEET_WEBHOOK_URL",
		"GOOGLE_SHEETS_URL", "GOOGLE_DRIVE_UPLOAD_URL", "REACT_APP_GOOGLE_DRIVE_UPLOAD_URL",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestEnsureUserConfig_WritesDefaultsOnce(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 9000\n"), 0o644))
	again, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver, "unset keys keep defaults")
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db/leadhub")
	t.Setenv("PORT", "3000")
	t.Setenv("GOOGLE_SHEET_WEBHOOK_URL", "https://script.google.com/listings")
	t.Setenv("GOOGLE_SHEETS_URL", "https://script.google.com/requirements")
	t.Setenv("REACT_APP_GOOGLE_DRIVE_UPLOAD_URL", "https://script.google.com/drive")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Defaults()
	ApplyEnv(&cfg)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://u:p@db/leadhub", cfg.Store.DSN)
	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "https://script.google.com/listings", cfg.Sync.ListingsWebhookURL)
	assert.Equal(t, "https://script.google.com/requirements", cfg.Sync.RequirementsWebhookURL)
	assert.Equal(t, "https://script.google.com/drive", cfg.Sync.DriveUploadURL)
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Setenv("GOOGLE_DRIVE_UPLOAD_URL", "https://script.google.com/drive2")
	ApplyEnv(&cfg)
	assert.Equal(t, "https://script.google.com/drive2", cfg.Sync.DriveUploadURL)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("LOG_FORMAT=console\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=json\nLOG_LEVEL=warn\n"), 0o644))
	// godotenv does not override variables that exist, even when empty
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	require.NoError(t, LoadDotEnv(dir))

	assert.Equal(t, "console", os.Getenv("LOG_FORMAT"), ".env.local wins over .env")
	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"))
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Defaults()
	cfg.CORS.AllowOrigins = []string{" https://a.example ", "https://A.example", ""}
	cfg.Store.Driver = " SQLite "

	out, vr := NormalizeAndValidate(cfg)

	assert.True(t, vr.OK(), vr.Errors)
	assert.Equal(t, []string{"https://a.example"}, out.CORS.AllowOrigins)
	assert.Equal(t, "sqlite", out.Store.Driver)
}

func TestNormalizeAndValidate_Errors(t *testing.T) {
	cfg := Defaults()
	cfg.App.Port = 0
	cfg.Store.Driver = "postgres"
	cfg.Sync.QueueSize = 0
	cfg.Sync.ListingsWebhookURL = "ftp://nope"
	cfg.Sync.SheetsAPI.Enabled = true
	cfg.Logging.Level = "chatty"

	_, vr := NormalizeAndValidate(cfg)

	assert.False(t, vr.OK())
	assert.Contains(t, vr.Errors, "app.port must be 1..65535")
	assert.Contains(t, vr.Errors, "store.dsn is required when store.driver=postgres")
	assert.Contains(t, vr.Errors, "sync.queue_size must be > 0")
	assert.Contains(t, vr.Errors, "sync.listings_webhook_url must be an http(s) URL")
	assert.Contains(t, vr.Errors, "sync.sheets_api.credentials_file is required when sync.sheets_api.enabled=true")
	assert.Contains(t, vr.Errors, `logging.level "chatty" is not a known level`)
}

func TestNormalizeAndValidate_PlaceholderWarning(t *testing.T) {
	cfg := Defaults()
	cfg.Sync.RequirementsWebhookURL = "https://script.google.com/macros/s/YOUR_DEPLOYMENT_ID/exec"

	_, vr := NormalizeAndValidate(cfg)

	assert.True(t, vr.OK())
	require.Len(t, vr.Warnings, 1)
	assert.Contains(t, vr.Warnings[0], PlaceholderDeploymentID)
}

func TestSaveAtomic(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 8001\n"), 0o644))

	cfg := Defaults()
	cfg.App.Port = 9100
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, got.App.Port)
	assert.FileExists(t, path+".bak")

	cfg.App.Port = -1
	assert.Error(t, SaveAtomic(path, cfg))
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.Store.DSN = "postgres://u:secret@db/x"

	r := cfg.Redacted()

	assert.Equal(t, RedactedValue, r.Store.DSN)
	assert.Equal(t, "postgres://u:secret@db/x", cfg.Store.DSN)
}

func TestWatch_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 8001\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	ready := make(chan error, 1)
	go func() { ready <- Watch(ctx, path, zap.NewNop(), func() { calls.Add(1) }) }()

	// give the watcher a moment to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 8002\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-ready:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
