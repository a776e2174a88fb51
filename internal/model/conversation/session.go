package conversation

import "time"

// State is a session lifecycle phase.
type State string

const (
	StateGreeting  State = "greeting"
	StateActive    State = "active"
	StateFinalized State = "finalized"
)

// Session captures one customer conversation at the counter.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}
