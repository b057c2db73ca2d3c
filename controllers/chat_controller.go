package controllers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mutanteweb/backend/chatbot"
	"mutanteweb/backend/database"
	"mutanteweb/backend/models"
)

// Chat serves the analyst bot: one in-memory conversation per visitor,
// every exchange persisted to chat_conversations.
type Chat struct {
	store       *database.Store
	responder   *chatbot.Responder
	typingDelay time.Duration
	log         *zap.Logger

	mu            sync.Mutex
	conversations map[string]*chatbot.Conversation
}

func NewChat(store *database.Store, responder *chatbot.Responder, typingDelay time.Duration, log *zap.Logger) *Chat {
	return &Chat{
		store:         store,
		responder:     responder,
		typingDelay:   typingDelay,
		log:           log,
		conversations: make(map[string]*chatbot.Conversation),
	}
}

func (h *Chat) conversationFor(visitor string) *chatbot.Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()
	conv, ok := h.conversations[visitor]
	if !ok {
		conv = chatbot.NewConversation(h.responder, h.typingDelay)
		h.conversations[visitor] = conv
	}
	return conv
}

// Send appends the visitor's message and returns the bot's reply.
func (h *Chat) Send() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChatSendRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		conv := h.conversationFor(visitorID(c))
		reply, ok := conv.Send(req.Message)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty message"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := h.store.LogChat(ctx, req.BusinessID, req.Message, reply); err != nil {
			// The reply still stands; persistence is best-effort.
			h.log.Warn("chat log", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}

// Messages returns the visitor's conversation log, greeting included.
func (h *Chat) Messages() gin.HandlerFunc {
	return func(c *gin.Context) {
		conv := h.conversationFor(visitorID(c))
		c.JSON(http.StatusOK, gin.H{"messages": conv.Messages()})
	}
}

// History lists persisted exchanges for one of the caller's businesses.
func (h *Chat) History() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		bid := c.Param("id")
		limit := 100
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		owned, err := h.store.BusinessOwnedBy(ctx, bid, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your business"})
			return
		}
		entries, err := h.store.ChatHistory(ctx, bid, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": entries})
	}
}
