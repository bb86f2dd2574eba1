package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.azadstudio.dev/pulsefeed/cache"
	"go.azadstudio.dev/pulsefeed/capture"
	"go.azadstudio.dev/pulsefeed/config"
	"go.azadstudio.dev/pulsefeed/enrich"
	"go.azadstudio.dev/pulsefeed/host"
	"go.azadstudio.dev/pulsefeed/internal/types"
	"go.azadstudio.dev/pulsefeed/reactions"
	"go.azadstudio.dev/pulsefeed/speech"
)

// fakeStream is a scripted microphone stream for facade tests.
type fakeStream struct {
	chunks chan []byte
}

func newFakeStream(chunks ...[]byte) *fakeStream {
	ch := make(chan []byte, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	return &fakeStream{chunks: ch}
}

func (f *fakeStream) Chunks() <-chan []byte { return f.chunks }
func (f *fakeStream) MimeType() string      { return "audio/webm" }

func (f *fakeStream) Stop() error {
	close(f.chunks)
	return nil
}

type fakeMic struct {
	err error
}

func (f *fakeMic) Open(ctx context.Context) (capture.MicStream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return newFakeStream([]byte("voice data")), nil
}

// newTestService wires a Service with in-process fakes instead of the
// Wails app, so no window or webview is involved.
func newTestService(t *testing.T, provider enrich.Provider, mic capture.Microphone) (*Service, *host.Fake) {
	t.Helper()

	fake := host.NewFake()
	store, err := cache.New(fake)
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("store.Close() error = %v", err)
		}
	})

	s := &Service{
		cfg:      &config.Config{Channel: config.DefaultChannel},
		hostAPI:  fake,
		store:    store,
		provider: provider,
		drawer:   DrawerClosed,
		version:  "test",
	}
	s.store.Subscribe(s.onEnrichment)
	s.recorder = capture.NewRecorder(mic, fake)
	s.synth = speech.NewWebview(nil)
	s.player = speech.NewPlayer(s.synth, fake)
	s.ledger = reactions.NewLedger(fake)
	return s, fake
}

func okResult(original string) types.EnrichmentResult {
	return types.EnrichmentResult{
		Original: original,
		Translations: map[types.Language]string{
			types.LanguageHindi:  "h",
			types.LanguageUrdu:   "u",
			types.LanguageTelugu: "t",
		},
	}
}

// waitForStatus polls the cache until key reaches want.
func waitForStatus(t *testing.T, s *Service, key cache.Key, want cache.Status) cache.State {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state := s.store.Get(key)
		if state.Status == want {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("key %q never reached %q", key, want)
	return cache.State{}
}

func waitForDrawer(t *testing.T, s *Service, want DrawerState) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.TranscriberState() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("drawer never reached %q, stuck at %q", want, s.TranscriberState())
}

func TestTranslateMessage(t *testing.T) {
	mock := &enrich.Mock{Result: okResult("")}
	s, _ := newTestService(t, mock, &fakeMic{})
	s.messages = []types.Message{{ID: "42", Content: "hello feed"}}

	if err := s.TranslateMessage("42"); err != nil {
		t.Fatalf("TranslateMessage() error = %v", err)
	}

	state := waitForStatus(t, s, cache.TextKey("42"), cache.StatusReady)
	if state.Result.Original != "hello feed" {
		t.Errorf("Original = %q, want the message content", state.Result.Original)
	}

	// Re-tapping a satisfied message does not call the provider again.
	if err := s.TranslateMessage("42"); err != nil {
		t.Fatalf("TranslateMessage() retry error = %v", err)
	}
	if mock.TranslateCalls != 1 {
		t.Errorf("TranslateCalls = %d, want 1", mock.TranslateCalls)
	}
}

func TestTranslateMessageUnknownID(t *testing.T) {
	s, _ := newTestService(t, &enrich.Mock{}, &fakeMic{})

	if err := s.TranslateMessage("missing"); err == nil {
		t.Error("TranslateMessage() should fail for an unknown message")
	}
}

func TestTranslateVideoIndependentKey(t *testing.T) {
	mock := &enrich.Mock{Result: okResult("spoken words")}
	s, _ := newTestService(t, mock, &fakeMic{})
	s.messages = []types.Message{{ID: "7", Content: "caption"}}

	s.TranslateVideo("7", "https://cdn.example.com/v.mp4")
	waitForStatus(t, s, cache.VideoKey("7"), cache.StatusReady)

	// The text body of the same message is untouched.
	if got := s.EnrichmentFor("7").Status; got != cache.StatusIdle {
		t.Errorf("text key status = %q, want %q", got, cache.StatusIdle)
	}
	if mock.VideoCalls != 1 {
		t.Errorf("VideoCalls = %d, want 1", mock.VideoCalls)
	}
}

func TestTranslateVideoFailureSentinel(t *testing.T) {
	mock := &enrich.Mock{Err: errors.New("upstream down")}
	s, _ := newTestService(t, mock, &fakeMic{})

	s.TranslateVideo("9", "https://cdn.example.com/v.mp4")
	state := waitForStatus(t, s, cache.VideoKey("9"), cache.StatusFailed)

	if state.Result.Original != failedVideoTranslation {
		t.Errorf("Original = %q, want the video fallback text", state.Result.Original)
	}
	for _, lang := range types.Languages {
		if got := state.Result.Translation(lang); got != enrich.FailedSentinel {
			t.Errorf("Translation(%s) = %q, want sentinel", lang, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	mock := &enrich.Mock{Text: "- daily recap"}
	s, _ := newTestService(t, mock, &fakeMic{})

	if _, err := s.Summarize(); err == nil {
		t.Error("Summarize() with no messages should fail")
	}

	s.messages = []types.Message{{ID: "1", Content: "a"}, {ID: "2", Content: "b"}}
	summary, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "- daily recap" {
		t.Errorf("summary = %q", summary)
	}
}

func TestToggleReaction(t *testing.T) {
	s, _ := newTestService(t, &enrich.Mock{}, &fakeMic{})
	s.messages = []types.Message{{ID: "1", Content: "post"}}

	got, err := s.ToggleReaction("1", "🔥")
	if err != nil {
		t.Fatalf("ToggleReaction() error = %v", err)
	}
	if len(got) != 1 || got[0].Emoji != "🔥" || !got[0].UserReacted {
		t.Errorf("reactions = %+v, want user-reacted 🔥", got)
	}

	if _, err := s.ToggleReaction("missing", "🔥"); err == nil {
		t.Error("ToggleReaction() should fail for an unknown message")
	}
}

func TestReactionPickerViaService(t *testing.T) {
	s, _ := newTestService(t, &enrich.Mock{}, &fakeMic{})

	if got := s.ToggleReactionPicker("a"); got != "a" {
		t.Errorf("picker = %q, want %q", got, "a")
	}
	if got := s.ToggleReactionPicker("b"); got != "b" {
		t.Errorf("picker = %q, want %q (exclusive)", got, "b")
	}
	s.CloseReactionPicker()
	if got := s.ledger.PickerFor(); got != "" {
		t.Errorf("picker = %q, want closed", got)
	}
}

func TestSpeakUnsupportedSurfaces(t *testing.T) {
	s, _ := newTestService(t, &enrich.Mock{}, &fakeMic{})
	s.SetSpeechSupported(false)

	if err := s.Speak("text", types.LanguageHindi); err == nil {
		t.Error("Speak() should fail when synthesis is unsupported")
	}

	s.SetSpeechSupported(true)
	if err := s.Speak("text", types.LanguageHindi); err != nil {
		t.Errorf("Speak() error = %v", err)
	}
}

func TestShareMessage(t *testing.T) {
	s, fake := newTestService(t, &enrich.Mock{}, &fakeMic{})
	long := strings.Repeat("x", 150)
	s.messages = []types.Message{{ID: "55", Content: long, Author: "AzadStudioOfficial"}}

	if err := s.ShareMessage("55"); err != nil {
		t.Fatalf("ShareMessage() error = %v", err)
	}

	recorded := fake.Recorded()
	found := false
	for _, call := range recorded {
		if call == "share:https://t.me/AzadStudioOfficial/55" {
			found = true
		}
	}
	if !found {
		t.Errorf("calls = %v, want share with post URL", recorded)
	}
	if fake.Count("impact:light") == 0 {
		t.Error("share should trigger a light impact")
	}

	if err := s.ShareMessage("missing"); err == nil {
		t.Error("ShareMessage() should fail for an unknown message")
	}
}

func TestOpenChannel(t *testing.T) {
	s, fake := newTestService(t, &enrich.Mock{}, &fakeMic{})

	s.OpenChannel()

	if fake.Count("openLink:https://t.me/"+config.DefaultChannel) != 1 {
		t.Errorf("calls = %v, want channel link open", fake.Recorded())
	}
}

func TestDetectLanguage(t *testing.T) {
	s, _ := newTestService(t, &enrich.Mock{}, &fakeMic{})

	got := s.DetectLanguage("")
	if got.Code != "auto" {
		t.Errorf("Code for empty text = %q, want %q", got.Code, "auto")
	}
}
