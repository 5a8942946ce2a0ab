// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredQueue is the durable queue carrying UserRegisteredEvent.
const UserRegisteredQueue = "user.registered"

// UserRegisteredEvent is published after a successful signup.  It carries
// enough information for downstream consumers to audit or welcome the user
// without querying the credential store.  It never contains secrets.
type UserRegisteredEvent struct {
    UserID       string `json:"user_id"`
    Email        string `json:"email"`
    Role         string `json:"role"`
    RegisteredAt string `json:"registered_at"`
}
