package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"tasklist/internal/httpmw"
	"tasklist/internal/jsonlog"
	"tasklist/internal/telemetry"
	"tasklist/internal/view"
	"tasklist/static"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Options struct {
	Controller    *view.Controller
	StaticDir     string
	UseDiskStatic bool
	Logger        *jsonlog.Logger
	// ReadyCheck probes the storage slot for /readyz. Nil means always ready.
	ReadyCheck func(ctx context.Context) error
	// Events backs GET /api/stats. The route is not registered when nil.
	Events telemetry.Repository
}

type pageData struct {
	VM        view.ViewModel
	Editing   bool
	NoticeTTL string
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Controller == nil {
		return nil, errors.New("controller is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = jsonlog.Discard()
	}

	h := &handler{
		c:      opts.Controller,
		logger: opts.Logger,
		ready:  opts.ReadyCheck,
		events: opts.Events,
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tasklist",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /readyz", h.readyz)

	mux.HandleFunc("GET /{$}", h.page)
	mux.HandleFunc("POST /tasks", h.add)
	mux.HandleFunc("POST /tasks/{id}/toggle", h.toggle)
	mux.HandleFunc("POST /tasks/{id}/edit", h.beginEdit)
	mux.HandleFunc("POST /tasks/{id}/save", h.save)
	mux.HandleFunc("POST /tasks/{id}/cancel", h.cancel)
	mux.HandleFunc("POST /tasks/{id}/delete", h.delete)
	mux.HandleFunc("POST /filter/{filter}", h.setFilter)
	mux.HandleFunc("POST /notices/{id}/dismiss", h.dismissNotice)

	mux.HandleFunc("GET /api/tasks", h.apiTasks)
	mux.HandleFunc("GET /api/progress", h.apiProgress)
	mux.HandleFunc("GET /api/view", h.apiView)
	if h.events != nil {
		mux.HandleFunc("GET /api/stats", h.apiStats)
	}

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger, "/static/", "/healthz", "/readyz"),
		httpmw.WithRequestID,
		httpmw.WithNoStore,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
