package events

// IngestEvent is published for each message a bridge source pulls in.
// Err is non-nil when the payload could not be decoded.
type IngestEvent struct {
	Topic       string
	MessageType string
	Err         error
}
