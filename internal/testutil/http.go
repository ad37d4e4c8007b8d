package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Upstream is a fake statistics API backed by httptest.Server.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]upstreamRoute
	hits   map[string]int
}

type upstreamRoute struct {
	status int
	body   string
}

// NewUpstream starts a fake API; it is closed when the test ends.
// Unregistered paths answer 404 with a JSON error body.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		routes: make(map[string]upstreamRoute),
		hits:   make(map[string]int),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// Handle registers a canned status and body for path (e.g. "/countries/A").
func (u *Upstream) Handle(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[path] = upstreamRoute{status: status, body: body}
}

// Hits returns how many times path was requested.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// TotalHits returns the number of requests served.
func (u *Upstream) TotalHits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, c := range u.hits {
		n += c
	}
	return n
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.EscapedPath()
	u.mu.Lock()
	u.hits[path]++
	route, ok := u.routes[path]
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"Country not found"}}`))
		return
	}
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
