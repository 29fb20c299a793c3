package events

// RegistryEvent is published when the handler set changes.
// Action is one of "insert", "replace" or "remove".
type RegistryEvent struct {
	MessageType string
	Action      string
}
