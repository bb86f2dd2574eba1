// Package host abstracts the platform webview SDK (haptics, sharing,
// deep links) behind an injected capability interface so core
// components can be tested against a fake instead of a live host.
package host

// ImpactStyle selects the strength of haptic impact feedback.
type ImpactStyle string

const (
	ImpactLight  ImpactStyle = "light"
	ImpactMedium ImpactStyle = "medium"
	ImpactHeavy  ImpactStyle = "heavy"
)

// Haptics is fire-and-forget tactile feedback. Calls are never awaited
// and never affect control flow.
type Haptics interface {
	Impact(style ImpactStyle)
	Success()
	Error()
	SelectionChanged()
}

// API is the full platform capability surface the core depends on.
type API interface {
	Haptics

	// OpenLink opens an external URL in the host browser.
	OpenLink(url string)

	// Share opens the host share sheet for url with optional text.
	Share(url, text string)
}
