package events

import "time"

// DispatchEvent is published after every routed message, hit or miss.
type DispatchEvent struct {
	MessageType string
	Handled     bool
	Latency     time.Duration
}
