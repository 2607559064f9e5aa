package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/LJTian/LunchHub/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	menus    []menu.Menu
	err      error
	collects int
	forced   []bool
}

func (f *fakeRunner) Collect() []menu.Menu {
	f.collects++
	return f.menus
}

func (f *fakeRunner) Run(_ context.Context, force bool) (scheduler.Report, error) {
	f.forced = append(f.forced, force)
	if f.err != nil {
		return scheduler.Report{}, f.err
	}
	return scheduler.Report{Menus: f.menus, Subject: "Čtvrtek 15. 10.", Sent: true}, nil
}

type memCache struct {
	data map[string][]menu.Menu
}

func (m *memCache) CachedMenus(_ context.Context, day time.Time) ([]menu.Menu, bool) {
	v, ok := m.data[day.Format("2006-01-02")]
	return v, ok
}

func (m *memCache) CacheMenus(_ context.Context, day time.Time, menus []menu.Menu) error {
	if m.data == nil {
		m.data = map[string][]menu.Menu{}
	}
	m.data[day.Format("2006-01-02")] = menus
	return nil
}

var thursday = time.Date(2026, 10, 15, 11, 0, 0, 0, time.Local)

func sampleMenus() []menu.Menu {
	return []menu.Menu{
		menu.New("Leháro", []menu.Item{menu.NewItem("Smažený sýr, hranolky", "169 Kč")}, "čtvrtek", "15.10."),
	}
}

func newTestEngine(runner Runner, cache MenuCache, user, pass string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != "" && pass != "" {
		r.Use(BasicAuth(user, pass))
	}
	s := NewServer(runner, cache)
	s.now = func() time.Time { return thursday }
	s.RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, target string, auth ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestEngine(&fakeRunner{}, nil, "", ""), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListMenusUsesCache(t *testing.T) {
	runner := &fakeRunner{menus: sampleMenus()}
	r := newTestEngine(runner, &memCache{}, "", "")

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/api/v1/menus")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Code string      `json:"code"`
			Data []menu.Menu `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Code)
		assert.Equal(t, sampleMenus(), body.Data)
	}
	assert.Equal(t, 1, runner.collects)

	do(r, http.MethodGet, "/api/v1/menus?refresh=1")
	assert.Equal(t, 2, runner.collects)
}

func TestListMenusWithoutCache(t *testing.T) {
	runner := &fakeRunner{menus: sampleMenus()}
	r := newTestEngine(runner, nil, "", "")

	do(r, http.MethodGet, "/api/v1/menus")
	do(r, http.MethodGet, "/api/v1/menus")
	assert.Equal(t, 2, runner.collects)
}

func TestPreviewRendersHTML(t *testing.T) {
	w := do(newTestEngine(&fakeRunner{menus: sampleMenus()}, nil, "", ""), http.MethodGet, "/api/v1/menus/preview")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "<title>Čtvrtek 15. 10.</title>")
	assert.Contains(t, w.Body.String(), "<h1>Leháro</h1>Smažený sýr, hranolky 169 Kč <br><hr>")
}

func TestPreviewEscapesScrapedText(t *testing.T) {
	menus := []menu.Menu{menu.New("Pepe & syn", []menu.Item{menu.NewItem("<script>alert(1)</script>", "99 Kč")}, "čtvrtek", "15.10.")}
	w := do(newTestEngine(&fakeRunner{menus: menus}, nil, "", ""), http.MethodGet, "/api/v1/menus/preview")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Pepe &amp; syn</h1>&lt;script&gt;alert(1)&lt;/script&gt; 99 Kč <br><hr>")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestSend(t *testing.T) {
	runner := &fakeRunner{menus: sampleMenus()}
	r := newTestEngine(runner, nil, "", "")

	w := do(r, http.MethodPost, "/api/v1/send")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sent":true`)

	do(r, http.MethodPost, "/api/v1/send?force=true")
	assert.Equal(t, []bool{false, true}, runner.forced)
}

func TestSendFailure(t *testing.T) {
	r := newTestEngine(&fakeRunner{err: errors.New("mail: dial tcp: connection refused")}, nil, "", "")

	w := do(r, http.MethodPost, "/api/v1/send")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "send_failed")
}

func TestBasicAuth(t *testing.T) {
	r := newTestEngine(&fakeRunner{menus: sampleMenus()}, nil, "lunch", "secret")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)

	w := do(r, http.MethodGet, "/api/v1/menus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="Restricted"`, w.Header().Get("WWW-Authenticate"))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/menus", "lunch", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/menus", "lunch", "secret").Code)
}
