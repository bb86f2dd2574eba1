package enrich

import (
	"context"
	"log/slog"
	"time"

	"go.azadstudio.dev/pulsefeed/internal/types"
)

// Credentials holds the API keys the gateway may use.
type Credentials struct {
	GeminiAPIKey string
	OpenAIAPIKey string
}

// NewProvider selects a provider for the available credentials,
// preferring Gemini, then OpenAI, then the degraded placeholder
// provider when no key is configured.
func NewProvider(creds Credentials) Provider {
	switch {
	case creds.GeminiAPIKey != "":
		return NewGemini(creds.GeminiAPIKey)
	case creds.OpenAIAPIKey != "":
		return NewOpenAI(creds.OpenAIAPIKey)
	default:
		slog.Warn("no enrichment credential configured, using placeholder provider")
		return NewDisabled()
	}
}

// Mock is a scripted provider for tests.
type Mock struct {
	Result types.EnrichmentResult
	Text   string
	Err    error
	Delay  time.Duration

	AudioCalls     int
	VideoCalls     int
	TranslateCalls int
	SummarizeCalls int
}

func (m *Mock) respond(ctx context.Context) (types.EnrichmentResult, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return types.EnrichmentResult{}, networkErr(ctx.Err())
		}
	}
	if m.Err != nil {
		return types.EnrichmentResult{}, m.Err
	}
	return m.Result, nil
}

func (m *Mock) TranscribeAudio(ctx context.Context, _ []byte, _ string) (types.EnrichmentResult, error) {
	m.AudioCalls++
	return m.respond(ctx)
}

func (m *Mock) TranscribeVideo(ctx context.Context, _ string) (types.EnrichmentResult, error) {
	m.VideoCalls++
	return m.respond(ctx)
}

func (m *Mock) TranslateText(ctx context.Context, text string) (types.EnrichmentResult, error) {
	m.TranslateCalls++
	res, err := m.respond(ctx)
	if err != nil {
		return res, err
	}
	res.Original = text
	return res, nil
}

func (m *Mock) Summarize(ctx context.Context, _ []string) (string, error) {
	m.SummarizeCalls++
	if _, err := m.respond(ctx); err != nil {
		return "", err
	}
	return m.Text, nil
}
