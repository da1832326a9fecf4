// Package notify maintains the realtime notification channel and the local
// inbox it feeds. One channel exists per authenticated session; the inbox is
// the in-memory list plus unread counter the rest of the app reads.
package notify

import "encoding/json"

// State is the channel lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// StateChange is published on the event bus whenever the channel moves.
type StateChange struct {
	From State
	To   State
}

// envelope is the wire frame; only type "notification" is handled, every
// other type is ignored so the server can add new kinds without breaking
// older clients.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
