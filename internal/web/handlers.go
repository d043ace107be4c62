package web

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tasklist/internal/httpmw"
	"tasklist/internal/jsonlog"
	"tasklist/internal/telemetry"
	"tasklist/internal/view"
)

type handler struct {
	c      *view.Controller
	logger *jsonlog.Logger
	ready  func(ctx context.Context) error
	events telemetry.Repository
}

// Every form post redirects back to the page, which re-renders from the
// controller's current state.
func backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	vm := h.c.ViewModel()
	data := pageData{
		VM:        vm,
		NoticeTTL: h.c.Notifier().TTL().String(),
	}
	for _, card := range vm.Cards {
		if card.Editing {
			data.Editing = true
			break
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		h.logger.Error("render_failed", map[string]any{
			"request_id": httpmw.RequestIDFromContext(r.Context()),
			"error":      err,
		})
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *handler) add(w http.ResponseWriter, r *http.Request) {
	h.c.Add(r.Context(), r.FormValue("text"))
	backToPage(w, r)
}

func (h *handler) toggle(w http.ResponseWriter, r *http.Request) {
	h.c.Toggle(r.Context(), r.PathValue("id"))
	backToPage(w, r)
}

func (h *handler) beginEdit(w http.ResponseWriter, r *http.Request) {
	h.c.BeginEdit(r.PathValue("id"))
	backToPage(w, r)
}

func (h *handler) save(w http.ResponseWriter, r *http.Request) {
	h.c.CommitEdit(r.Context(), r.PathValue("id"), r.FormValue("text"))
	backToPage(w, r)
}

func (h *handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.c.CancelEdit(r.PathValue("id"))
	backToPage(w, r)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	h.c.Delete(r.Context(), r.PathValue("id"))
	backToPage(w, r)
}

func (h *handler) setFilter(w http.ResponseWriter, r *http.Request) {
	f, err := view.ParseFilter(r.PathValue("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.c.SetFilter(f)
	backToPage(w, r)
}

func (h *handler) dismissNotice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad notice id", http.StatusBadRequest)
		return
	}
	h.c.DismissNotice(id)
	backToPage(w, r)
}

// GET /api/tasks?filter=active
func (h *handler) apiTasks(w http.ResponseWriter, r *http.Request) {
	f, err := view.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view.Apply(h.c.Store().List(), f))
}

func (h *handler) apiProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.ComputeProgress(h.c.Store().List()))
}

func (h *handler) apiView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.c.ViewModel())
}

// defaultStatsWindow applies when /api/stats has no since parameter.
const defaultStatsWindow = 24 * time.Hour

func (h *handler) apiStats(w http.ResponseWriter, r *http.Request) {
	window := defaultStatsWindow
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeErr(w, http.StatusBadRequest, "since must be a positive duration like 1h or 30m")
			return
		}
		window = d
	}
	since := time.Now().Add(-window)
	events, err := h.events.GetEvents(since, nil)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, telemetry.CalculateStats(events, since))
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.Warn("readyz_failed", map[string]any{"error": err})
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "tasklist"})
}
