package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllCookies(t *testing.T) {
	now := time.Now()
	p := AllCookies(now)
	assert.True(t, p.Necessary)
	assert.True(t, p.Functional)
	assert.True(t, p.Analytics)
	assert.True(t, p.Marketing)
	assert.Equal(t, now, p.DecidedAt)
}

func TestNecessaryCookies(t *testing.T) {
	p := NecessaryCookies(time.Now())
	assert.True(t, p.Necessary)
	assert.False(t, p.Functional)
	assert.False(t, p.Analytics)
	assert.False(t, p.Marketing)
}

func TestNormalizeForcesNecessaryOn(t *testing.T) {
	now := time.Now()
	p := CookiePreferences{Necessary: false, Analytics: true}.Normalize(now)
	assert.True(t, p.Necessary)
	assert.True(t, p.Analytics)
	assert.Equal(t, now, p.DecidedAt)
}
