package conversation

import "time"

// Speaker roles for a transcript turn.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Turn is one message exchanged in the conversation, tagged by speaker role.
// Turns are immutable once appended; their order carries the context resent
// to the completion engine on every call.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
