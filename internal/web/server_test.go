package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/model"
	"tasklist/internal/storage"
	"tasklist/internal/task"
	"tasklist/internal/telemetry"
	"tasklist/internal/view"
)

type testApp struct {
	t       *testing.T
	handler http.Handler
	c       *view.Controller
}

func newTestApp(t *testing.T, ready func(context.Context) error) *testApp {
	t.Helper()
	store := task.NewStore(storage.NewAdapter(storage.NewMemorySlot(), "", nil), nil)
	store.Load(context.Background())
	events := telemetry.NewMemoryRepository(0, nil)
	c := view.NewController(store, view.Options{Recorder: events})

	h, err := NewHandler(Options{Controller: c, ReadyCheck: ready, Events: events})
	require.NoError(t, err)
	return &testApp{t: t, handler: h, c: c}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) mustPost(path string, form url.Values) {
	a.t.Helper()
	rec := a.post(path, form)
	if rec.Code != http.StatusSeeOther {
		a.t.Fatalf("POST %s expected 303, got %d body=%s", path, rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		a.t.Fatalf("POST %s expected redirect to /, got %q", path, loc)
	}
}

func (a *testApp) idOf(text string) string {
	a.t.Helper()
	for _, tk := range a.c.Store().List() {
		if tk.Text == text {
			return tk.ID
		}
	}
	a.t.Fatalf("no task %q", text)
	return ""
}

func TestPage_EmptyState(t *testing.T) {
	app := newTestApp(t, nil)

	res := app.get("/")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, `id="emptyState"`)
	assert.Contains(t, body, `width: 0%`)
	assert.Contains(t, body, `filter-btn active" data-filter="all"`)
}

func TestPage_AddToggleFilter(t *testing.T) {
	app := newTestApp(t, nil)

	app.mustPost("/tasks", url.Values{"text": {"Buy milk"}})
	app.mustPost("/tasks", url.Values{"text": {"Walk dog"}})
	app.mustPost("/tasks/"+app.idOf("Buy milk")+"/toggle", nil)
	app.mustPost("/filter/completed", nil)

	body := app.get("/").Body.String()
	assert.Contains(t, body, "Buy milk")
	assert.NotContains(t, body, "Walk dog")
	assert.Contains(t, body, "width: 50%")
	assert.Contains(t, body, `filter-btn active" data-filter="completed"`)
	assert.Contains(t, body, "Task status updated")

	res := app.get("/api/tasks?filter=completed")
	require.Equal(t, http.StatusOK, res.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)

	var progress view.Progress
	require.NoError(t, json.Unmarshal(app.get("/api/progress").Body.Bytes(), &progress))
	assert.Equal(t, view.Progress{Completed: 1, Total: 2, Percent: 50}, progress)
}

func TestPage_AddEmptyShowsFailure(t *testing.T) {
	app := newTestApp(t, nil)

	app.mustPost("/tasks", url.Values{"text": {"   "}})

	body := app.get("/").Body.String()
	assert.Contains(t, body, `notice failure`)
	assert.Contains(t, body, "Task description cannot be empty!")
	assert.Empty(t, app.c.Store().List())
}

func TestPage_EditFlow(t *testing.T) {
	app := newTestApp(t, nil)
	app.mustPost("/tasks", url.Values{"text": {"draft me"}})
	id := app.idOf("draft me")

	app.mustPost("/tasks/"+id+"/edit", nil)
	body := app.get("/").Body.String()
	assert.Contains(t, body, `action="/tasks/`+id+`/save"`)
	assert.Contains(t, body, `value="draft me"`)

	app.mustPost("/tasks/"+id+"/save", url.Values{"text": {""}})
	got, _ := app.c.Store().Get(id)
	assert.Equal(t, "draft me", got.Text)
	assert.NotContains(t, app.get("/").Body.String(), `/save"`)

	app.mustPost("/tasks/"+id+"/edit", nil)
	app.mustPost("/tasks/"+id+"/cancel", nil)
	assert.NotContains(t, app.get("/").Body.String(), `/save"`)

	app.mustPost("/tasks/"+id+"/edit", nil)
	app.mustPost("/tasks/"+id+"/save", url.Values{"text": {"  done editing "}})
	got, _ = app.c.Store().Get(id)
	assert.Equal(t, "done editing", got.Text)
}

func TestPage_Delete(t *testing.T) {
	app := newTestApp(t, nil)
	app.mustPost("/tasks", url.Values{"text": {"bye"}})

	app.mustPost("/tasks/"+app.idOf("bye")+"/delete", nil)
	app.mustPost("/tasks/unknown/delete", nil)

	assert.Empty(t, app.c.Store().List())
	assert.Contains(t, app.get("/").Body.String(), "Task deleted")
}

func TestPage_EscapesTaskText(t *testing.T) {
	app := newTestApp(t, nil)
	app.mustPost("/tasks", url.Values{"text": {"<script>alert(1)</script>"}})

	body := app.get("/").Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestBadRequests(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, http.StatusBadRequest, app.post("/filter/archived", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/api/tasks?filter=archived").Code)
	assert.Equal(t, http.StatusBadRequest, app.post("/notices/x/dismiss", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, app.get("/tasks").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/nope").Code)
}

func TestHealthAndReady(t *testing.T) {
	app := newTestApp(t, nil)
	assert.Equal(t, http.StatusOK, app.get("/healthz").Code)
	assert.Equal(t, http.StatusOK, app.get("/readyz").Code)

	down := newTestApp(t, func(context.Context) error { return errors.New("disk gone") })
	assert.Equal(t, http.StatusServiceUnavailable, down.get("/readyz").Code)
}

func TestEmbeddedStatic(t *testing.T) {
	app := newTestApp(t, nil)
	res := app.get("/static/css/app.css")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), ".progress-bar")
}

func TestNewHandler_RequiresController(t *testing.T) {
	_, err := NewHandler(Options{})
	assert.Error(t, err)
}

func TestAPIStats(t *testing.T) {
	app := newTestApp(t, nil)
	app.mustPost("/tasks", url.Values{"text": {"Buy milk"}})
	app.mustPost("/tasks", url.Values{"text": {"  "}})
	app.mustPost("/tasks/"+app.idOf("Buy milk")+"/toggle", nil)

	rec := app.get("/api/stats?since=1h")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats telemetry.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.NetCompleted)

	assert.Equal(t, http.StatusOK, app.get("/api/stats").Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/api/stats?since=soon").Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/api/stats?since=-1h").Code)
}

func TestAPIStats_NotRegisteredWithoutEvents(t *testing.T) {
	store := task.NewStore(storage.NewAdapter(storage.NewMemorySlot(), "", nil), nil)
	h, err := NewHandler(Options{Controller: view.NewController(store, view.Options{})})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPage_RenderDropsExpiredNotices(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := task.NewStore(storage.NewAdapter(storage.NewMemorySlot(), "", nil), nil)
	store.Load(context.Background())
	c := view.NewController(store, view.Options{
		NoticeTTL: 2 * time.Second,
		Now:       func() time.Time { return now },
	})
	h, err := NewHandler(Options{Controller: c})
	require.NoError(t, err)
	app := &testApp{t: t, handler: h, c: c}

	for i := 0; i < 200; i++ {
		app.mustPost("/tasks", url.Values{"text": {""}})
	}
	app.mustPost("/tasks", url.Values{"text": {"Buy milk"}})
	assert.Equal(t, 201, c.Notifier().Len())

	now = now.Add(2 * time.Second)
	res := app.get("/")
	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body.String(), "cannot be empty")
	assert.Zero(t, c.Notifier().Len())
}

func TestPage_NoticeCanBeDismissed(t *testing.T) {
	app := newTestApp(t, nil)
	app.mustPost("/tasks", url.Values{"text": {"Buy milk"}})

	vm := app.c.ViewModel()
	require.Len(t, vm.Notices, 1)
	id := vm.Notices[0].ID

	page := app.get("/")
	assert.Equal(t, "no-store", page.Header().Get("Cache-Control"))
	body := page.Body.String()
	assert.Contains(t, body, fmt.Sprintf(`action="/notices/%d/dismiss"`, id))

	app.mustPost(fmt.Sprintf("/notices/%d/dismiss", id), nil)
	assert.Empty(t, app.c.ViewModel().Notices)
	assert.NotContains(t, app.get("/").Body.String(), "Task added")
}
