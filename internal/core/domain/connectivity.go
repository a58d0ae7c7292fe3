package domain

import "time"

// ConnectivityEvent is emitted on every online/offline transition.
type ConnectivityEvent struct {
	IsConnected bool      `json:"isConnected"`
	At          time.Time `json:"at"`
}
