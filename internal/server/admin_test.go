package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubinqayam/zq-portfolio/internal/config"
	"github.com/zubinqayam/zq-portfolio/internal/store"
)

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := serve(r, postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func TestAdmin_RequiresLogin(t *testing.T) {
	_, r, _ := setupServer(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: adminCookie, Value: "forged"})
	w = serve(r, req)
	assert.Equal(t, http.StatusFound, w.Code)

	w = serve(r, postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestAdmin_Dashboard(t *testing.T) {
	s, r, _ := setupServer(t, nil)
	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Wait()

	cookie := login(t, r)
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats store.Stats
	decode(t, w, &stats)
	assert.Equal(t, int64(1), stats.TotalVisitors)

	req = httptest.NewRequest(http.MethodGet, "/admin/export/stats", nil)
	req.AddCookie(cookie)
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))
}

func TestAdmin_Lists(t *testing.T) {
	_, r, _ := setupServer(t, nil)
	serve(r, postJSON(t, "/api/contact", validContact()))
	cookie := login(t, r)

	for _, path := range []string{"/admin/submissions?form=contact", "/admin/subscribers", "/admin/visitors?limit=5"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.AddCookie(cookie)
	var body struct {
		Submissions []store.Submission `json:"submissions"`
	}
	decode(t, serve(r, req), &body)
	require.Len(t, body.Submissions, 1)
	assert.Equal(t, "succeeded", body.Submissions[0].Status)
}

func TestAdmin_PrivacyCleanup(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, r, st := setupServer(t, nil, WithClock(func() time.Time { return now }))

	ctx := context.Background()
	require.NoError(t, st.RecordVisitor(ctx, store.Visitor{HashedIP: "old", Path: "/", Timestamp: now.AddDate(-2, 0, 0)}))
	require.NoError(t, st.RecordVisitor(ctx, store.Visitor{HashedIP: "new", Path: "/", Timestamp: now.Add(-time.Hour)}))

	req := postForm("/admin/privacy/cleanup", nil)
	req.AddCookie(login(t, r))
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())
}

func TestAdmin_DisabledWithoutPassword(t *testing.T) {
	_, r, _ := setupServer(t, func(c *config.Config) { c.Admin.Password = "" })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout(t *testing.T) {
	_, r, _ := setupServer(t, nil)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}
