package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.azadstudio.dev/pulsefeed/cache"
	"go.azadstudio.dev/pulsefeed/capture"
	"go.azadstudio.dev/pulsefeed/config"
	"go.azadstudio.dev/pulsefeed/enrich"
	"go.azadstudio.dev/pulsefeed/feed"
	"go.azadstudio.dev/pulsefeed/host"
	"go.azadstudio.dev/pulsefeed/internal/types"
	"go.azadstudio.dev/pulsefeed/langdetect"
	"go.azadstudio.dev/pulsefeed/reactions"
	"go.azadstudio.dev/pulsefeed/speech"
)

// Sentinel originals stored when an enrichment fails; the per-language
// fields carry enrich.FailedSentinel.
const (
	failedTranscription    = "Transcription failed. Please try again."
	failedVideoTranslation = "Video translation unavailable for this content."
)

// Service binds UI intents to the enrichment core. This struct focuses
// on orchestration; business logic lives in the composed components.
type Service struct {
	cfg *config.Config

	// UI references - set via Init
	app    *application.App
	window application.Window

	hostAPI  host.API
	store    *cache.Store
	provider enrich.Provider
	mic      *webviewMicrophone
	recorder *capture.Recorder
	player   *speech.Player
	synth    *speech.Webview
	ledger   *reactions.Ledger
	feed     *feed.Client

	mu       sync.Mutex
	messages []types.Message
	drawer   DrawerState

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after the Wails app is created.
func New(version string) *Service {
	return &Service{version: version, drawer: DrawerClosed}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the service once app and window references exist.
func (s *Service) Init(app *application.App, window application.Window) error {
	s.app = app
	s.window = window

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = &config.Config{Channel: config.DefaultChannel}
	}
	s.cfg = cfg

	s.hostAPI = host.NewWebApp(app)

	store, err := cache.New(s.hostAPI)
	if err != nil {
		return fmt.Errorf("init result cache: %w", err)
	}
	s.store = store
	s.store.Subscribe(s.onEnrichment)

	s.provider = enrich.NewProvider(enrich.Credentials{
		GeminiAPIKey: cfg.GeminiKey(),
		OpenAIAPIKey: cfg.OpenAIKey(),
	})

	s.mic = newWebviewMicrophone(app)
	s.recorder = capture.NewRecorder(s.mic, s.hostAPI)
	s.synth = speech.NewWebview(app)
	s.player = speech.NewPlayer(s.synth, s.hostAPI)
	s.ledger = reactions.NewLedger(s.hostAPI)
	s.feed = feed.NewClient(cfg.Channel)

	return nil
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Error("close result cache", "error", err)
		}
	}
}

// onEnrichment forwards cache transitions to the webview and advances
// the transcriber drawer when the voice-note key resolves.
func (s *Service) onEnrichment(key cache.Key, state cache.State) {
	s.emit(EventEnrichmentState, EnrichmentEvent{
		Key:    string(key),
		Status: string(state.Status),
	})

	if key == cache.VoiceNoteKey {
		s.onVoiceNote(state)
	}
}

// emit is a safe wrapper around app.Event.Emit.
func (s *Service) emit(name string, data any) {
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Feed
// ─────────────────────────────────────────────────────────────────────────────

// GetMessages returns the loaded feed, fetching it on first use.
func (s *Service) GetMessages() []types.Message {
	s.mu.Lock()
	loaded := s.messages
	s.mu.Unlock()
	if loaded != nil {
		return loaded
	}
	return s.RefreshMessages()
}

// RefreshMessages reloads the feed from the bridges.
func (s *Service) RefreshMessages() []types.Message {
	messages := s.feed.FetchMessages(context.Background())

	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()

	s.emit(EventMessagesLoaded, len(messages))
	return messages
}

// GetAnalytics returns the channel analytics series for kind.
func (s *Service) GetAnalytics(kind string) []types.AnalyticsPoint {
	return s.feed.FetchAnalytics(kind)
}

func (s *Service) messageByID(id string) *types.Message {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return &s.messages[i]
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Enrichment
// ─────────────────────────────────────────────────────────────────────────────

// TranslateMessage requests translation of a post's text body. Re-taps
// while pending or after success are dropped by the cache.
func (s *Service) TranslateMessage(id string) error {
	s.mu.Lock()
	msg := s.messageByID(id)
	s.mu.Unlock()
	if msg == nil {
		return fmt.Errorf("message not found: %s", id)
	}

	content := msg.Content
	s.store.Request(cache.TextKey(id), content, func(ctx context.Context) (types.EnrichmentResult, error) {
		return s.provider.TranslateText(ctx, content)
	})
	return nil
}

// TranslateVideo requests transcription/translation of a post's
// attached video.
func (s *Service) TranslateVideo(id, mediaURL string) {
	s.store.Request(cache.VideoKey(id), failedVideoTranslation, func(ctx context.Context) (types.EnrichmentResult, error) {
		return s.provider.TranscribeVideo(ctx, mediaURL)
	})
}

// EnrichmentFor returns the cache state for a key, for re-renders and
// drawer reopens.
func (s *Service) EnrichmentFor(key string) cache.State {
	return s.store.Get(cache.Key(key))
}

// Summarize condenses the loaded feed into a short update.
func (s *Service) Summarize() (string, error) {
	s.mu.Lock()
	texts := make([]string, 0, len(s.messages))
	for _, msg := range s.messages {
		texts = append(texts, msg.Content)
	}
	s.mu.Unlock()

	if len(texts) == 0 {
		return "", fmt.Errorf("no messages to summarize")
	}
	return s.provider.Summarize(context.Background(), texts)
}

// DetectLanguage detects the language of the given text.
func (s *Service) DetectLanguage(text string) types.DetectResult {
	code, name := langdetect.Detect(text)
	return types.DetectResult{Code: code, Name: name}
}

// ─────────────────────────────────────────────────────────────────────────────
// Reactions
// ─────────────────────────────────────────────────────────────────────────────

// AvailableReactions returns the picker emoji set.
func (s *Service) AvailableReactions() []string {
	return reactions.Available
}

// ToggleReaction flips the user's reaction for emoji on a message and
// returns the message's updated reaction set.
func (s *Service) ToggleReaction(id, emoji string) ([]types.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.messageByID(id)
	if msg == nil {
		return nil, fmt.Errorf("message not found: %s", id)
	}

	s.ledger.Toggle(msg, emoji)
	return msg.Reactions, nil
}

// ToggleReactionPicker opens the picker for a message, closing any
// other open picker.
func (s *Service) ToggleReactionPicker(id string) string {
	s.ledger.TogglePicker(id)
	return s.ledger.PickerFor()
}

// CloseReactionPicker closes the picker if open.
func (s *Service) CloseReactionPicker() {
	s.ledger.ClosePicker()
}

// ─────────────────────────────────────────────────────────────────────────────
// Playback & Host
// ─────────────────────────────────────────────────────────────────────────────

// Speak plays text in the given target language, preempting any
// current utterance. Returns an error when synthesis is unavailable so
// the UI can show a notice instead of failing silently.
func (s *Service) Speak(text string, lang types.Language) error {
	return s.player.Speak(text, lang)
}

// SetSpeechSupported records the synthesis capability reported by the
// frontend at startup.
func (s *Service) SetSpeechSupported(supported bool) {
	s.synth.SetSupported(supported)
}

// ShareMessage opens the host share sheet for a post.
func (s *Service) ShareMessage(id string) error {
	s.mu.Lock()
	msg := s.messageByID(id)
	s.mu.Unlock()
	if msg == nil {
		return fmt.Errorf("message not found: %s", id)
	}

	s.hostAPI.Impact(host.ImpactLight)

	preview := msg.Content
	if len(preview) > 100 {
		preview = preview[:97] + "..."
	}
	postURL := fmt.Sprintf("https://t.me/%s/%s", msg.Author, msg.ID)
	s.hostAPI.Share(postURL, fmt.Sprintf("Check out this post from @%s:\n\n%s", msg.Author, preview))
	return nil
}

// OpenChannel opens the channel in the host app.
func (s *Service) OpenChannel() {
	s.hostAPI.Impact(host.ImpactLight)
	s.hostAPI.OpenLink("https://t.me/" + s.cfg.Channel)
}
