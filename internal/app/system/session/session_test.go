package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pantaucorona/internal/app/system/session"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return m
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	want := session.Prefs{PageID: "abc", Global: true, Dark: true}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	if err := m.Save(rec, req, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies: got %d, want 1", len(cookies))
	}
	if cookies[0].Name != "test-session" {
		t.Errorf("cookie name: got %q, want %q", cookies[0].Name, "test-session")
	}
	if !cookies[0].HttpOnly {
		t.Error("expected HttpOnly cookie")
	}

	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(cookies[0])
	got := m.Load(next)
	if got != want {
		t.Errorf("Load: got %+v, want %+v", got, want)
	}
}

func TestLoad_NoCookie(t *testing.T) {
	m := newTestManager(t)
	got := m.Load(httptest.NewRequest("GET", "/", nil))
	if got != (session.Prefs{}) {
		t.Errorf("got %+v, want zero prefs", got)
	}
}

func TestLoad_TamperedCookie(t *testing.T) {
	m := newTestManager(t)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-signed-value"})

	got := m.Load(req)
	if got != (session.Prefs{}) {
		t.Errorf("got %+v, want zero prefs", got)
	}
}

func TestLoad_CookieFromOtherKeyRejected(t *testing.T) {
	other, err := session.NewManager("another-key-that-is-32-characters-x", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	if err := other.Save(rec, httptest.NewRequest("GET", "/", nil), session.Prefs{PageID: "x"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	if got := newTestManager(t).Load(req); got.PageID != "" {
		t.Errorf("PageID: got %q, want empty", got.PageID)
	}
}

func TestNewManager_EmptyKey(t *testing.T) {
	if _, err := session.NewManager("", "", "", true, zap.NewNop()); err == nil {
		t.Error("expected error for empty key with secure cookies")
	}

	m, err := session.NewManager("", "", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("dev manager: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := m.Save(rec, httptest.NewRequest("GET", "/", nil), session.Prefs{}); err != nil {
		t.Fatal(err)
	}
	if name := rec.Result().Cookies()[0].Name; name != session.DefaultName {
		t.Errorf("cookie name: got %q, want %q", name, session.DefaultName)
	}
}

func TestLoadPrefs_Middleware(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	if err := m.Save(rec, httptest.NewRequest("GET", "/", nil), session.Prefs{PageID: "p1", Dark: true}); err != nil {
		t.Fatal(err)
	}

	var seen session.Prefs
	h := m.LoadPrefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromRequest(r)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen.PageID != "p1" || !seen.Dark || seen.Global {
		t.Errorf("prefs in context: got %+v", seen)
	}
}
