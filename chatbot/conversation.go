package chatbot

import (
	"sync"
	"time"
)

// Message is one entry in a conversation's append-only log.
type Message struct {
	Text   string    `json:"text"`
	IsUser bool      `json:"is_user"`
	At     time.Time `json:"at"`
}

// Conversation is an ordered message log seeded with the greeting. Send
// models the bot "typing" by waiting the configured delay before the reply
// is appended.
type Conversation struct {
	responder   *Responder
	typingDelay time.Duration

	mu       sync.Mutex
	messages []Message
}

func NewConversation(r *Responder, typingDelay time.Duration) *Conversation {
	return &Conversation{
		responder:   r,
		typingDelay: typingDelay,
		messages: []Message{
			{Text: Greeting, IsUser: false, At: time.Now()},
		},
	}
}

// Send appends the user's message, waits the typing delay, then appends and
// returns the bot's reply. Blank messages are ignored.
func (c *Conversation) Send(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, Message{Text: text, IsUser: true, At: time.Now()})
	if c.typingDelay > 0 {
		time.Sleep(c.typingDelay)
	}
	reply := c.responder.Reply(text)
	c.messages = append(c.messages, Message{Text: reply, IsUser: false, At: time.Now()})
	return reply, true
}

// Messages returns the log in order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}
