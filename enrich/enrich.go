// Package enrich provides the gateway to the remote AI provider for
// on-demand enrichment: audio transcription, video transcription and
// text translation, each returning one result per target language.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.azadstudio.dev/pulsefeed/internal/types"
)

// FailedSentinel is stored in place of a translated field when that
// field's enrichment failed. The rendering layer detects failure by
// comparing against it.
const FailedSentinel = "FAILED"

// callTimeout bounds every remote provider call. A hung call would
// otherwise strand its cache key in a pending state with no retry path.
const callTimeout = 30 * time.Second

// FailureReason classifies gateway failures.
type FailureReason string

const (
	FailureNetwork       FailureReason = "network"
	FailureProvider      FailureReason = "provider"
	FailureConfiguration FailureReason = "configuration"
)

// Error is a typed gateway failure.
type Error struct {
	Reason FailureReason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("enrichment %s error: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// networkErr wraps err as a network failure.
func networkErr(err error) error {
	return &Error{Reason: FailureNetwork, Err: err}
}

// providerErr wraps err as a provider failure (remote call executed
// but returned failure or an invalid payload).
func providerErr(err error) error {
	return &Error{Reason: FailureProvider, Err: err}
}

// ReasonOf extracts the failure reason from err, defaulting to
// FailureProvider for untyped errors.
func ReasonOf(err error) FailureReason {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Reason
	}
	return FailureProvider
}

// Provider performs remote enrichment operations. Every operation
// either returns a structurally complete result or an error; partial
// results are never returned.
type Provider interface {
	// TranscribeAudio transcribes spoken audio verbatim, detecting its
	// language, and translates the transcription into every target
	// language.
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (types.EnrichmentResult, error)

	// TranscribeVideo derives a best-effort transcription result from
	// a remote media URL.
	TranscribeVideo(ctx context.Context, mediaURL string) (types.EnrichmentResult, error)

	// TranslateText translates text into every target language. The
	// returned Original always equals the input verbatim.
	TranslateText(ctx context.Context, text string) (types.EnrichmentResult, error)

	// Summarize condenses the given message texts into a short update.
	Summarize(ctx context.Context, texts []string) (string, error)
}

// FailureResult builds the uniform sentinel payload stored for failed
// enrichments: a well-formed result whose translation fields all carry
// the sentinel, so consumers handle exactly one result shape.
func FailureResult(original string) types.EnrichmentResult {
	translations := make(map[types.Language]string, len(types.Languages))
	for _, lang := range types.Languages {
		translations[lang] = FailedSentinel
	}
	return types.EnrichmentResult{Original: original, Translations: translations}
}

// resultPayload is the fixed JSON shape the provider contract requires.
type resultPayload struct {
	Original string `json:"original"`
	Hindi    string `json:"hindi"`
	Urdu     string `json:"urdu"`
	Telugu   string `json:"telugu"`
}

// toResult converts a wire payload into the domain result.
func (p resultPayload) toResult() types.EnrichmentResult {
	return types.EnrichmentResult{
		Original: p.Original,
		Translations: map[types.Language]string{
			types.LanguageHindi:  p.Hindi,
			types.LanguageUrdu:   p.Urdu,
			types.LanguageTelugu: p.Telugu,
		},
	}
}

// validate rejects structurally incomplete payloads so loosely-typed
// provider output never reaches the cache.
func (p resultPayload) validate() error {
	if p.Original == "" || p.Hindi == "" || p.Urdu == "" || p.Telugu == "" {
		return fmt.Errorf("incomplete enrichment payload: %+v", p)
	}
	return nil
}
