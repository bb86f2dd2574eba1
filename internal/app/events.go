// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventEnrichmentState = "enrichment-state"
	EventDrawerState     = "transcriber-state"
	EventMessagesLoaded  = "messages-loaded"
)

// EnrichmentEvent carries one cache transition to the frontend.
type EnrichmentEvent struct {
	Key    string `json:"key"`
	Status string `json:"status"`
}
