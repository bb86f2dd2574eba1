package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.azadstudio.dev/pulsefeed/capture"
)

// Microphone event names. The webview owns MediaRecorder; the backend
// owns the capture state machine.
const (
	EventMicStart = "mic-start"
	EventMicStop  = "mic-stop"
)

// permissionTimeout bounds the wait for the platform permission
// prompt, which the user may ignore indefinitely.
const permissionTimeout = 30 * time.Second

// stopTimeout bounds the wait for the frontend to confirm track
// release before the stream is force-closed locally.
const stopTimeout = 2 * time.Second

type openResult struct {
	mime string
	err  error
}

// webviewMicrophone implements capture.Microphone over webview events
// and the chunk-ingestion service bindings.
type webviewMicrophone struct {
	app *application.App

	mu      sync.Mutex
	pending chan openResult
	stream  *webviewStream
}

func newWebviewMicrophone(app *application.App) *webviewMicrophone {
	return &webviewMicrophone{app: app}
}

func (m *webviewMicrophone) emit(name string, data any) {
	if m.app != nil {
		m.app.Event.Emit(name, data)
	}
}

// Open asks the webview to start recording and waits for the
// permission outcome.
func (m *webviewMicrophone) Open(ctx context.Context) (capture.MicStream, error) {
	m.mu.Lock()
	if m.stream != nil || m.pending != nil {
		m.mu.Unlock()
		return nil, capture.ErrAlreadyRecording
	}
	ready := make(chan openResult, 1)
	m.pending = ready
	m.mu.Unlock()

	m.emit(EventMicStart, nil)

	reset := func() {
		m.mu.Lock()
		m.pending = nil
		m.mu.Unlock()
	}

	select {
	case res := <-ready:
		if res.err != nil {
			reset()
			return nil, res.err
		}
		stream := newWebviewStream(m, res.mime)
		m.mu.Lock()
		m.pending = nil
		m.stream = stream
		m.mu.Unlock()
		return stream, nil
	case <-time.After(permissionTimeout):
		reset()
		return nil, fmt.Errorf("microphone permission prompt timed out")
	case <-ctx.Done():
		reset()
		return nil, ctx.Err()
	}
}

func (m *webviewMicrophone) opened(mimeType string) {
	m.mu.Lock()
	pending := m.pending
	m.mu.Unlock()
	if pending != nil {
		pending <- openResult{mime: mimeType}
	}
}

func (m *webviewMicrophone) denied(reason string) {
	m.mu.Lock()
	pending := m.pending
	m.mu.Unlock()
	if pending != nil {
		pending <- openResult{err: fmt.Errorf("%w: %s", capture.ErrPermissionDenied, reason)}
	}
}

func (m *webviewMicrophone) push(chunk []byte) {
	m.mu.Lock()
	stream := m.stream
	m.mu.Unlock()
	if stream != nil {
		stream.push(chunk)
	}
}

func (m *webviewMicrophone) streamClosed() {
	m.mu.Lock()
	stream := m.stream
	m.stream = nil
	m.mu.Unlock()
	if stream != nil {
		stream.close()
	}
}

// webviewStream is one live recording stream fed by the frontend.
type webviewStream struct {
	mic  *webviewMicrophone
	mime string

	mu       sync.Mutex
	chunks   chan []byte
	isClosed bool
	closed   chan struct{}
}

func newWebviewStream(mic *webviewMicrophone, mime string) *webviewStream {
	if mime == "" {
		mime = "audio/webm"
	}
	return &webviewStream{
		mic:    mic,
		mime:   mime,
		chunks: make(chan []byte, 256),
		closed: make(chan struct{}),
	}
}

func (s *webviewStream) Chunks() <-chan []byte { return s.chunks }

func (s *webviewStream) MimeType() string { return s.mime }

func (s *webviewStream) push(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return
	}
	select {
	case s.chunks <- chunk:
	default:
		slog.Warn("audio chunk dropped, buffer full")
	}
}

func (s *webviewStream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return
	}
	s.isClosed = true
	close(s.closed)
	close(s.chunks)
}

// Stop tells the webview to release the tracks and waits briefly for
// confirmation before force-closing.
func (s *webviewStream) Stop() error {
	s.mic.emit(EventMicStop, nil)

	select {
	case <-s.closed:
	case <-time.After(stopTimeout):
		slog.Warn("microphone stop not confirmed, closing stream locally")
		s.mic.streamClosed()
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Frontend bindings
// ─────────────────────────────────────────────────────────────────────────────

// MicrophoneOpened is called by the frontend once recording started.
func (s *Service) MicrophoneOpened(mimeType string) {
	s.mic.opened(mimeType)
}

// MicrophoneDenied is called by the frontend when permission was
// refused or acquisition failed.
func (s *Service) MicrophoneDenied(reason string) {
	s.mic.denied(reason)
}

// PushAudioChunk delivers one recorded chunk, base64-encoded. Chunk
// arrival order is preserved.
func (s *Service) PushAudioChunk(b64 string) error {
	chunk, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("decode audio chunk: %w", err)
	}
	s.mic.push(chunk)
	return nil
}

// MicrophoneClosed is called by the frontend once tracks are released.
func (s *Service) MicrophoneClosed() {
	s.mic.streamClosed()
}
