package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" json:"driver"` // sqlite | postgres | memory
	DSN    string `yaml:"dsn" json:"dsn"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" json:"allow_origins"`
}

type SheetsAPIConfig struct {
	Enabled           bool   `yaml:"enabled" json:"enabled"`
	CredentialsFile   string `yaml:"credentials_file" json:"credentials_file"`
	SpreadsheetID     string `yaml:"spreadsheet_id" json:"spreadsheet_id"`
	ListingsRange     string `yaml:"listings_range" json:"listings_range"`
	RequirementsRange string `yaml:"requirements_range" json:"requirements_range"`
}

type SyncConfig struct {
	QueueSize         int     `yaml:"queue_size" json:"queue_size"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`

	ListingsWebhookURL     string `yaml:"listings_webhook_url" json:"listings_webhook_url"`
	RequirementsWebhookURL string `yaml:"requirements_webhook_url" json:"requirements_webhook_url"`
	DriveUploadURL         string `yaml:"drive_upload_url" json:"drive_upload_url"`

	SheetsAPI SheetsAPIConfig `yaml:"sheets_api" json:"sheets_api"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type MaintenanceConfig struct {
	// 0 disables the periodic store checkpoint.
	CheckpointMinutes int `yaml:"checkpoint_minutes" json:"checkpoint_minutes"`
}

type Config struct {
	App         AppConfig         `yaml:"app" json:"app"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	CORS        CORSConfig        `yaml:"cors" json:"cors"`
	Sync        SyncConfig        `yaml:"sync" json:"sync"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Maintenance MaintenanceConfig `yaml:"maintenance" json:"maintenance"`
}

// Load reads the YAML file, fills defaults and applies the environment
// overlay. The returned config is not validated.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadFile is Load without the environment overlay.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func Defaults() Config {
	var cfg Config
	cfg.App.Host = "0.0.0.0"
	cfg.App.Port = 8001
	cfg.Store.Driver = "sqlite"
	cfg.CORS.AllowOrigins = []string{"*"}
	cfg.Sync.QueueSize = 256
	cfg.Sync.TimeoutSeconds = 15
	cfg.Sync.RequestsPerSecond = 2
	cfg.Sync.Burst = 4
	cfg.Sync.SheetsAPI.ListingsRange = "Listings!A1"
	cfg.Sync.SheetsAPI.RequirementsRange = "BuyerRequirements!A1"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Maintenance.CheckpointMinutes = 30
	return cfg
}

// Redacted hides credentials before the config leaves the process.
func (c Config) Redacted() Config {
	out := c
	if out.Store.DSN != "" {
		out.Store.DSN = RedactedValue
	}
	out.CORS.AllowOrigins = append([]string(nil), c.CORS.AllowOrigins...)
	return out
}

// RedactedValue stands in for secrets in API responses. Sending it back
// keeps the stored value.
const RedactedValue = "********"
