package models

import "time"

// ChatEntry is one persisted user/bot exchange.
type ChatEntry struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"user_message"`
	BotReply    string    `json:"bot_reply"`
	CreatedAt   time.Time `json:"created_at"`
}
