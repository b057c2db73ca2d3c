package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const visitorCookie = "mw_visitor"

// visitorID returns the anonymous visitor id from the cookie, minting and
// setting one on the first visit.
func visitorID(c *gin.Context) string {
	if v, err := c.Cookie(visitorCookie); err == nil {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}
	v := uuid.NewString()
	c.SetCookie(visitorCookie, v, 365*24*3600, "/", "", false, true)
	return v
}
