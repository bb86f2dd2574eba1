package enrich

import (
	"context"
	"time"

	"go.azadstudio.dev/pulsefeed/internal/types"
)

// Disabled is the degraded provider used when no API credential is
// configured. It returns clearly labeled placeholder results instead
// of erroring, so the rest of the system never special-cases missing
// credentials.
type Disabled struct {
	delay time.Duration
}

// NewDisabled creates the credential-less provider.
func NewDisabled() *Disabled {
	return &Disabled{delay: time.Second}
}

// wait simulates remote latency so loading states remain observable.
func (d *Disabled) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Disabled) TranscribeAudio(ctx context.Context, _ []byte, _ string) (types.EnrichmentResult, error) {
	if err := d.wait(ctx); err != nil {
		return types.EnrichmentResult{}, networkErr(err)
	}
	return types.EnrichmentResult{
		Original: "API Key Missing. This is a mock transcription.",
		Translations: map[types.Language]string{
			types.LanguageHindi:  "एपीआई कुंजी गायब है। यह एक नकली प्रतिलेखन है।",
			types.LanguageUrdu:   "API کلید غائب ہے۔ یہ ایک فرضی نقل ہے۔",
			types.LanguageTelugu: "API కీ లేదు. ఇది నకిలీ ట్రాన్స్‌క్రిప్షన్.",
		},
	}, nil
}

func (d *Disabled) TranscribeVideo(ctx context.Context, _ string) (types.EnrichmentResult, error) {
	if err := d.wait(ctx); err != nil {
		return types.EnrichmentResult{}, networkErr(err)
	}
	return types.EnrichmentResult{
		Original: "Demo Video Transcription (API Key Missing)",
		Translations: map[types.Language]string{
			types.LanguageHindi:  "डेमो वीडियो ट्रांसक्रिप्शन (कुंजी गायब)",
			types.LanguageUrdu:   "ڈیمو ویڈیو ٹرانسکرپشن (کلید غائب)",
			types.LanguageTelugu: "డెమో వీడియో ట్రాన్స్‌క్రిప్షన్ (కీ లేదు)",
		},
	}, nil
}

func (d *Disabled) TranslateText(ctx context.Context, text string) (types.EnrichmentResult, error) {
	if err := d.wait(ctx); err != nil {
		return types.EnrichmentResult{}, networkErr(err)
	}
	return types.EnrichmentResult{
		Original: text,
		Translations: map[types.Language]string{
			types.LanguageHindi:  "यह एक डमी हिंदी अनुवाद है क्योंकि एपीआई कुंजी गायब है।",
			types.LanguageUrdu:   "یہ ایک ڈمی اردو ترجمہ ہے کیونکہ API کلید غائب ہے۔",
			types.LanguageTelugu: "API కీ లేనందున ఇది డమ్మీ తెలుగు అనువాదం.",
		},
	}, nil
}

func (d *Disabled) Summarize(ctx context.Context, _ []string) (string, error) {
	if err := d.wait(ctx); err != nil {
		return "", networkErr(err)
	}
	return "Summary unavailable: API Key missing. Please configure a provider credential.", nil
}
