// Package message holds the built-in message types the bridge daemon
// routes. Library users define their own types; these exist so the daemon
// has something to say about traffic nobody bound a type to.
package message

import "time"

// Raw carries an MQTT payload whose topic has no bound message type.
type Raw struct {
	Topic   string
	Payload []byte
}

// Heartbeat is emitted periodically by sources that support liveness probes.
type Heartbeat struct {
	Source string
	Time   time.Time
}

// Shutdown asks the daemon to stop. Dispatching it through the router lets
// operators wire shutdown like any other message.
type Shutdown struct {
	Reason string
}
