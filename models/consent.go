package models

import "time"

// CookiePreferences is the consent record persisted per anonymous visitor.
// Necessary cookies are always on.
type CookiePreferences struct {
	Necessary  bool      `json:"necessary"`
	Functional bool      `json:"functional"`
	Analytics  bool      `json:"analytics"`
	Marketing  bool      `json:"marketing"`
	DecidedAt  time.Time `json:"decided_at"`
}

// AllCookies is the "accept all" shortcut.
func AllCookies(now time.Time) CookiePreferences {
	return CookiePreferences{Necessary: true, Functional: true, Analytics: true, Marketing: true, DecidedAt: now}
}

// NecessaryCookies is the "necessary only" shortcut.
func NecessaryCookies(now time.Time) CookiePreferences {
	return CookiePreferences{Necessary: true, DecidedAt: now}
}

// Normalize forces the invariant flags: necessary on, decision timestamped.
func (p CookiePreferences) Normalize(now time.Time) CookiePreferences {
	p.Necessary = true
	if p.DecidedAt.IsZero() {
		p.DecidedAt = now
	}
	return p
}
