package session

import "time"

// Notice tells the owner of a session that a packet was dropped.
type Notice struct {
	SessionID string    `json:"session_id"`
	Direction string    `json:"direction"`
	Kind      string    `json:"kind"`
	Type      string    `json:"type,omitempty"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Notifier receives notices. Implementations must not block the caller for long.
type Notifier interface {
	Notify(Notice)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
