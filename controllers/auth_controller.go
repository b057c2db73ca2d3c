package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mutanteweb/backend/config"
	"mutanteweb/backend/database"
	"mutanteweb/backend/models"
	"mutanteweb/backend/utils"
)

const tokenTTL = 24 * time.Hour

// Register creates a profile and returns a bearer token. The password
// mismatch check is local; no store call is made for it.
func Register(cfg config.Config, store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if req.Password == "" || req.Password != req.Confirm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "las contraseñas no coinciden"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		id, err := store.RegisterIdentity(ctx, req.Email, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		token, _ := utils.GenerateJWT(cfg.JWTSecret, id.ID, tokenTTL)
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// Login exchanges credentials for a bearer token.
func Login(cfg config.Config, store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		id, err := store.Authenticate(ctx, req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
			return
		}
		token, _ := utils.GenerateJWT(cfg.JWTSecret, id.ID, tokenTTL)
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
