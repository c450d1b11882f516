package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	log := d.logger()

	handle := func(pattern string, m map[string]http.HandlerFunc) {
		mux.Handle(pattern, instrument(d.Metrics, pattern, methodMux(m)))
	}
	// form endpoints answer both at the root and under /api, which is where
	// the hosted frontend has always called them
	handleForm := func(pattern string, m map[string]http.HandlerFunc) {
		handle(pattern, m)
		handle("/api"+pattern, m)
	}

	// Listings
	lh := ListingsHandler{Repo: d.Repo, Hub: d.Hub, Sync: d.Sync, Metrics: d.Metrics, Log: log.Named("listings")}
	handleForm("/submit", map[string]http.HandlerFunc{
		http.MethodPost: lh.Submit,
	})
	handleForm("/get", map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	})
	handleForm("/delete", map[string]http.HandlerFunc{
		http.MethodPost:   lh.Delete,
		http.MethodDelete: lh.Delete,
	})

	// Buyer requirements + matching
	rh := RequirementsHandler{
		Repo:    d.Repo,
		Matcher: d.Matcher,
		Hub:     d.Hub,
		Sync:    d.Sync,
		Metrics: d.Metrics,
		Log:     log.Named("requirements"),
	}
	handleForm("/buyer-requirements", map[string]http.HandlerFunc{
		http.MethodGet:  rh.List,
		http.MethodPost: rh.Submit,
	})
	handleForm("/match-properties", map[string]http.HandlerFunc{
		http.MethodPost: rh.Match,
	})

	// Comments
	cmh := CommentsHandler{Repo: d.Repo, Hub: d.Hub, Metrics: d.Metrics, Log: log.Named("comments")}
	handle("/api/comments/create", map[string]http.HandlerFunc{
		http.MethodPost: cmh.Create,
	})
	handle("/api/comments/get", map[string]http.HandlerFunc{
		http.MethodGet: cmh.List,
	})

	// Drive
	dh := DriveHandler{Proxy: d.Drive, Log: log.Named("drive")}
	handleForm("/upload-drive", map[string]http.HandlerFunc{
		http.MethodPost: dh.Upload,
	})

	hh := HealthHandler{Repo: d.Repo}
	handleForm("/health", map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	})

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	handle("/config", map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	})
	handle("/config/path", map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	})
	handle("/config/validate", map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	})

	sh := SecretsHandler{}
	handle("/api/secrets/webhook", map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetWebhook,
		http.MethodDelete: sh.DeleteWebhook,
	})

	// Sheets sync
	syh := SyncHandler{Sync: d.Sync}
	handle("/sync/status", map[string]http.HandlerFunc{
		http.MethodGet: syh.Status,
	})

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	handle("/events", map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	})

	dbh := DBHandler{Maintain: d.Maintain}
	handle("/db/checkpoint", map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	})

	mux.Handle("/metrics", d.Metrics.Handler())

	return mux
}

// Handler wraps a mux with the standard middleware chain.
func Handler(d Deps, mux http.Handler) http.Handler {
	origins := func() []string { return d.config().CORS.AllowOrigins }
	log := d.logger()
	return Chain(mux, RequestID, Recover(log), AccessLog(log), Cors(origins))
}
