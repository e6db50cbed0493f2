package core

import "time"

const (
	EdName    = "ED"
	EdVersion = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one utterance/reply pair in the durable conversation log.
type Turn struct {
	ID            int64
	SessionID     string
	CreatedAt     time.Time
	UserText      string
	AssistantText string
}
