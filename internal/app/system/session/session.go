// internal/app/system/session/session.go
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultName = "pantaucorona-session"

	pageIDKey = "page_id"
	globalKey = "global"
	darkKey   = "dark"
)

// Prefs is what a visitor's cookie carries between requests.
type Prefs struct {
	PageID string // mounted dashboard page, empty before the first visit
	Global bool   // last selected summary scope
	Dark   bool   // dark theme
}

type ctxKey string

const prefsKey ctxKey = "prefs"

// FromRequest returns the prefs loaded by Manager.LoadPrefs, or zero prefs.
func FromRequest(r *http.Request) Prefs {
	p, _ := r.Context().Value(prefsKey).(Prefs)
	return p
}

// WithPrefs returns a copy of r carrying p. Handlers and tests use it to
// skip the cookie round trip.
func WithPrefs(r *http.Request, p Prefs) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), prefsKey, p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Manager                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Manager reads and writes Prefs in a signed cookie.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewManager builds a cookie-backed Manager. The `secure` flag controls
// whether cookies are marked Secure and which SameSite mode is used.
//
// An empty key is only accepted outside production; a random one is
// generated, so cookies do not survive a restart.
func NewManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*Manager, error) {
	if sessionKey == "" {
		if secure {
			return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
		}
		sessionKey = string(securecookie.GenerateRandomKey(32))
		logger.Warn("no session key configured; using a random per-process key")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		MaxAge:   86400 * 30,
	}
	if secure {
		opts.SameSite = http.SameSiteStrictMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.String("name", name))

	return &Manager{store: store, name: name, log: logger}, nil
}

// Load decodes the visitor's prefs. A missing or tampered cookie yields
// zero prefs.
func (m *Manager) Load(r *http.Request) Prefs {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		m.log.Debug("discarding unreadable session cookie", zap.Error(err))
	}
	return Prefs{
		PageID: getString(sess, pageIDKey),
		Global: getBool(sess, globalKey),
		Dark:   getBool(sess, darkKey),
	}
}

// Save writes p to the response cookie.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, p Prefs) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[pageIDKey] = p.PageID
	sess.Values[globalKey] = p.Global
	sess.Values[darkKey] = p.Dark
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadPrefs injects the visitor's prefs into the request context.
func (m *Manager) LoadPrefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, WithPrefs(r, m.Load(r)))
	})
}

// helpers

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func getBool(s *sessions.Session, key string) bool {
	v, _ := s.Values[key].(bool)
	return v
}
