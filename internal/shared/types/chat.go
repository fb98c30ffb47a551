package types

import "time"

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a session transcript.
// Messages are immutable once appended; slice order is display order
// and the order sent to the backend as history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Summary is one session's entry in the index.
// The index holds the only copy of the title and timestamp; the stored
// transcript does not duplicate them.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"last_updated"`
}
