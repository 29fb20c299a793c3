// Package events defines the routing related events emitted on the event bus.
//
// Available event types:
//   - DispatchEvent: outcome of one message dispatch
//   - RegistryEvent: handler registration change
//   - IngestEvent: message ingestion result from a bridge source
package events
