package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mutanteweb/backend/database"
)

// ListBusinesses returns the caller's active businesses.
func ListBusinesses(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		businesses, err := store.BusinessesOf(ctx, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"businesses": businesses})
	}
}

// BusinessAnalyticsHandler returns recent daily metrics for one of the
// caller's businesses.
func BusinessAnalyticsHandler(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		bid := c.Param("id")
		limit := 30
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
				limit = n
			}
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		owned, err := store.BusinessOwnedBy(ctx, bid, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your business"})
			return
		}
		rows, err := store.AnalyticsFor(ctx, bid, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analytics": rows})
	}
}
