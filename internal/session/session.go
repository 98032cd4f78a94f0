package session

import (
	"encoding/json"
	"time"
)

// Roles used in the conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is the persisted state of one chat conversation.
type Session struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	History   []Message       `json:"history"`
	// Results holds aggregate category and total figures only, never the
	// answers they were computed from.
	Results   json.RawMessage `json:"results,omitempty"`
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Append adds a message and keeps at most limit messages, dropping the
// oldest. A limit of zero or less keeps everything.
func (s *Session) Append(role, content string, at time.Time, limit int) {
	s.History = append(s.History, Message{Role: role, Content: content, At: at})
	if limit > 0 && len(s.History) > limit {
		s.History = append([]Message(nil), s.History[len(s.History)-limit:]...)
	}
}
