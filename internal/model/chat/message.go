package chat

import "time"

// WelcomeID identifies the greeting every session opens with.
const WelcomeID = "welcome"

// WelcomeText is the assistant's opening line.
const WelcomeText = "Hi! I'm your AI Trading Assistant. I can help you with market analysis, trading recommendations, and answer your questions about stocks."

// Message is one turn of the assistant conversation.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Topic     string    `json:"topic,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
