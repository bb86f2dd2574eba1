package speech

import (
	"sync/atomic"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// Event names consumed by the webview, which owns the actual speech
// synthesis engine.
const (
	EventSpeak  = "tts-speak"
	EventCancel = "tts-cancel"
)

// Utterance is the payload of a speak event.
type Utterance struct {
	Text   string  `json:"text"`
	Locale string  `json:"locale"`
	Rate   float64 `json:"rate"`
}

// Webview forwards synthesis to the frontend speech engine. The
// frontend reports capability once at startup; until it reports
// otherwise the engine is assumed present.
type Webview struct {
	app         *application.App
	unsupported atomic.Bool
}

// NewWebview creates a Webview synthesizer bound to the Wails app.
func NewWebview(app *application.App) *Webview {
	return &Webview{app: app}
}

// SetSupported records the capability reported by the frontend.
func (w *Webview) SetSupported(supported bool) {
	w.unsupported.Store(!supported)
}

func (w *Webview) Supported() bool {
	return !w.unsupported.Load()
}

func (w *Webview) Cancel() {
	if w.app != nil {
		w.app.Event.Emit(EventCancel, nil)
	}
}

func (w *Webview) Speak(text, locale string, rate float64) {
	if w.app != nil {
		w.app.Event.Emit(EventSpeak, Utterance{Text: text, Locale: locale, Rate: rate})
	}
}
