package host

import (
	"fmt"
	"net/url"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// Event names consumed by the webview frontend, which relays them to
// the embedding platform SDK.
const (
	EventHapticImpact       = "haptic-impact"
	EventHapticNotification = "haptic-notification"
	EventHapticSelection    = "haptic-selection"
	EventOpenLink           = "open-link"
	EventShare              = "share"
)

// WebApp forwards capability calls to the webview as events. The
// frontend owns the actual platform SDK handle; the backend never
// touches it directly.
type WebApp struct {
	app *application.App
}

// NewWebApp creates a WebApp bound to the Wails application.
func NewWebApp(app *application.App) *WebApp {
	return &WebApp{app: app}
}

func (w *WebApp) emit(name string, data any) {
	if w.app != nil {
		w.app.Event.Emit(name, data)
	}
}

func (w *WebApp) Impact(style ImpactStyle) { w.emit(EventHapticImpact, string(style)) }

func (w *WebApp) Success() { w.emit(EventHapticNotification, "success") }

func (w *WebApp) Error() { w.emit(EventHapticNotification, "error") }

func (w *WebApp) SelectionChanged() { w.emit(EventHapticSelection, nil) }

func (w *WebApp) OpenLink(link string) { w.emit(EventOpenLink, link) }

// Share builds a share deep link in the same form the host platform
// expects and hands it to the webview.
func (w *WebApp) Share(link, text string) {
	shareURL := fmt.Sprintf(
		"https://t.me/share/url?url=%s&text=%s",
		url.QueryEscape(link), url.QueryEscape(text),
	)
	w.emit(EventShare, shareURL)
}
