package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mutanteweb/backend/database"
	"mutanteweb/backend/models"
)

// GetConsent returns the visitor's stored preferences, or prompt=true when
// none exist yet (the banner should show).
func GetConsent(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		prefs, found, err := store.LoadConsent(ctx, visitorID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if !found {
			c.JSON(http.StatusOK, gin.H{"prompt": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": false, "preferences": prefs})
	}
}

func saveConsent(store *database.Store, c *gin.Context, prefs models.CookiePreferences) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := store.SaveConsent(ctx, visitorID(c), prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// AcceptAllConsent is the accept-all shortcut.
func AcceptAllConsent(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		saveConsent(store, c, models.AllCookies(time.Now()))
	}
}

// NecessaryConsent is the necessary-only shortcut.
func NecessaryConsent(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		saveConsent(store, c, models.NecessaryCookies(time.Now()))
	}
}

// SaveCustomConsent persists the toggled set from the customization view.
// Necessary is forced on whatever the body says.
func SaveCustomConsent(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CookiePreferences
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		saveConsent(store, c, req.Normalize(time.Now()))
	}
}
