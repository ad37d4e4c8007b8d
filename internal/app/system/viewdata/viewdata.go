// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/dalemusser/pantaucorona/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pantaucorona/internal/app/system/session"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title"),
//	}
type BaseVM struct {
	// Site settings (from config)
	SiteName   string
	FooterHTML template.HTML

	// Visitor prefs (from the session cookie)
	Dark bool

	// Page context
	Title       string
	CurrentPath string
}

var (
	mu       sync.RWMutex
	settings = models.SiteSettings{SiteName: models.DefaultSiteName}
)

// Init sets the site settings used by every BaseVM.
// Call this once at startup from bootstrap.
func Init(s models.SiteSettings) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(s.SiteName) == "" {
		s.SiteName = models.DefaultSiteName
	}
	settings = s
}

// Settings returns the current site settings.
func Settings() models.SiteSettings {
	mu.RLock()
	defer mu.RUnlock()
	return settings
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title string) BaseVM {
	s := Settings()
	return BaseVM{
		SiteName:    htmlsanitize.PlainText(s.SiteName),
		FooterHTML:  htmlsanitize.Footer(s.FooterHTML),
		Dark:        session.FromRequest(r).Dark,
		Title:       title,
		CurrentPath: httpnav.CurrentPath(r),
	}
}
