package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"leadhub-engine/internal/logging"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.CORS.AllowOrigins = trimList(out.CORS.AllowOrigins)
	out.Store.Driver = strings.ToLower(strings.TrimSpace(out.Store.Driver))
	out.Logging.Level = strings.ToLower(strings.TrimSpace(out.Logging.Level))
	out.Logging.Format = strings.ToLower(strings.TrimSpace(out.Logging.Format))
	out.Sync.ListingsWebhookURL = strings.TrimSpace(out.Sync.ListingsWebhookURL)
	out.Sync.RequirementsWebhookURL = strings.TrimSpace(out.Sync.RequirementsWebhookURL)
	out.Sync.DriveUploadURL = strings.TrimSpace(out.Sync.DriveUploadURL)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Store.Driver {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(out.Store.DSN) == "" {
			res.addErr("store.dsn is required when store.driver=postgres")
		}
	case "memory":
		res.addWarn("store.driver=memory keeps data in process memory only; everything is lost on restart.")
	default:
		res.addErr("store.driver must be sqlite, postgres or memory (got %q)", out.Store.Driver)
	}

	if len(out.CORS.AllowOrigins) == 0 {
		res.addWarn("cors.allow_origins is empty; browsers on other origins cannot reach the API.")
	} else if slices.Contains(out.CORS.AllowOrigins, "*") && len(out.CORS.AllowOrigins) > 1 {
		res.addWarn("cors.allow_origins contains \"*\"; the other entries have no effect.")
	}

	// sync sanity
	if out.Sync.QueueSize <= 0 {
		res.addErr("sync.queue_size must be > 0")
	}
	if out.Sync.TimeoutSeconds <= 0 {
		res.addErr("sync.timeout_seconds must be > 0")
	}
	if out.Sync.RequestsPerSecond <= 0 {
		res.addErr("sync.requests_per_second must be > 0")
	}
	if out.Sync.Burst <= 0 {
		res.addErr("sync.burst must be > 0")
	}

	checkURL := func(name, raw string) {
		if raw == "" {
			return
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			res.addErr("%s must be an http(s) URL", name)
			return
		}
		if strings.Contains(raw, PlaceholderDeploymentID) {
			res.addWarn("%s still contains %s and will be ignored.", name, PlaceholderDeploymentID)
		}
	}
	checkURL("sync.listings_webhook_url", out.Sync.ListingsWebhookURL)
	checkURL("sync.requirements_webhook_url", out.Sync.RequirementsWebhookURL)
	checkURL("sync.drive_upload_url", out.Sync.DriveUploadURL)

	api := out.Sync.SheetsAPI
	if api.Enabled {
		if strings.TrimSpace(api.CredentialsFile) == "" {
			res.addErr("sync.sheets_api.credentials_file is required when sync.sheets_api.enabled=true")
		}
		if strings.TrimSpace(api.SpreadsheetID) == "" {
			res.addErr("sync.sheets_api.spreadsheet_id is required when sync.sheets_api.enabled=true")
		}
		if api.ListingsRange == "" && api.RequirementsRange == "" {
			res.addWarn("sync.sheets_api has no ranges; nothing will be appended.")
		}
	}

	if !logging.ValidLevel(out.Logging.Level) {
		res.addErr("logging.level %q is not a known level", out.Logging.Level)
	}
	switch out.Logging.Format {
	case "", "json", "console", "text":
	default:
		res.addErr("logging.format must be json or console")
	}

	if out.Maintenance.CheckpointMinutes < 0 {
		res.addErr("maintenance.checkpoint_minutes must be >= 0")
	}

	return out, res
}

// PlaceholderDeploymentID marks an Apps Script URL copied from the setup
// guide and never filled in.
const PlaceholderDeploymentID = "YOUR_DEPLOYMENT_ID"
