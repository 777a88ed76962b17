package owguides

import (
	"time"
)

// Event is a realtime notification pushed to connected clients.
type Event struct {
	Type      string    `json:"type"`
	CodeID    string    `json:"codeId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventCodeCreated    = "code.created"
	EventCodeUpdated    = "code.updated"
	EventCodeDeleted    = "code.deleted"
	EventLikeChanged    = "like.changed"
	EventSessionChanged = "session.changed"
)

// EventChannel is the pub/sub channel realtime events travel on.
const EventChannel = "owguides:events"

// LoginLinkRequest is the payload for requesting a sign-in link.
type LoginLinkRequest struct {
	Email string `json:"email"`
}

// RedeemRequest exchanges a link token for a session.
type RedeemRequest struct {
	Token string `json:"token"`
}

// SessionResponse is returned on a successful redeem.
type SessionResponse struct {
	Session string `json:"session"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}
