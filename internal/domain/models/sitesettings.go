// internal/domain/models/sitesettings.go
package models

// SiteSettings holds the display settings shared by every page.
type SiteSettings struct {
	SiteName   string // Name shown in the page header
	FooterHTML string // Sanitised HTML for the footer
}

// DefaultSiteName is used when no site name is configured.
const DefaultSiteName = "Pantau Corona"
