// Package capture governs microphone acquisition, recording and audio
// finalization for the voice-note recorder.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"go.azadstudio.dev/pulsefeed/host"
)

// ErrAlreadyRecording is returned when starting while a session exists.
var ErrAlreadyRecording = errors.New("recording already in progress")

// ErrNotRecording is returned when stopping without an active session.
var ErrNotRecording = errors.New("no active recording")

// ErrPermissionDenied is returned by microphones when the user denies
// access. It is terminal for that attempt only.
var ErrPermissionDenied = errors.New("microphone permission denied")

// MicStream is a live microphone stream. Chunks delivers ordered audio
// buffers until Stop releases the underlying tracks and closes the
// channel.
type MicStream interface {
	Chunks() <-chan []byte
	MimeType() string
	Stop() error
}

// Microphone acquires microphone streams. Open may block on the
// platform permission prompt.
type Microphone interface {
	Open(ctx context.Context) (MicStream, error)
}

// Phase is the recorder lifecycle stage.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRecording  Phase = "recording"
	PhaseProcessing Phase = "processing"
)

// Clip is one finalized recording: the session's chunks concatenated
// in capture order.
type Clip struct {
	SessionID string
	Data      []byte
	MimeType  string
}

// Recorder is the single global capture state machine. At most one
// session exists at a time; it is not tied to any one feed item.
type Recorder struct {
	mic     Microphone
	haptics host.Haptics

	mu      sync.Mutex
	phase   Phase
	current *session
}

type session struct {
	id     string
	stream MicStream

	// chunk order is significant: it reconstructs playback time.
	chunks [][]byte
	done   chan struct{}
}

// NewRecorder creates an idle recorder.
func NewRecorder(mic Microphone, haptics host.Haptics) *Recorder {
	return &Recorder{mic: mic, haptics: haptics, phase: PhaseIdle}
}

// Phase returns the current lifecycle stage.
func (r *Recorder) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Start acquires the microphone and begins buffering chunks. Valid
// only from Idle. A permission failure surfaces as an error and leaves
// the recorder Idle.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseIdle {
		return ErrAlreadyRecording
	}

	stream, err := r.mic.Open(ctx)
	if err != nil {
		r.haptics.Error()
		return fmt.Errorf("open microphone: %w", err)
	}

	sess := &session{
		id:     uuid.NewString(),
		stream: stream,
		done:   make(chan struct{}),
	}
	r.current = sess
	r.phase = PhaseRecording

	go pumpChunks(sess)

	r.haptics.Impact(host.ImpactMedium)
	return nil
}

// pumpChunks buffers stream chunks in arrival order until the stream
// closes.
func pumpChunks(sess *session) {
	defer close(sess.done)
	for chunk := range sess.stream.Chunks() {
		if len(chunk) > 0 {
			sess.chunks = append(sess.chunks, chunk)
		}
	}
}

// Stop releases the microphone, finalizes the buffered chunks into a
// single clip and moves to Processing. Valid only from Recording. The
// stream tracks are released exactly once on every exit path.
func (r *Recorder) Stop() (Clip, error) {
	r.mu.Lock()
	if r.phase != PhaseRecording {
		r.mu.Unlock()
		return Clip{}, ErrNotRecording
	}
	sess := r.current
	r.phase = PhaseProcessing
	r.mu.Unlock()

	stopErr := sess.stream.Stop()
	<-sess.done

	if stopErr != nil {
		// Tracks are already torn down; the buffered audio is still
		// usable, so only log-worthy upstream.
		stopErr = fmt.Errorf("stop microphone stream: %w", stopErr)
	}

	r.haptics.Impact(host.ImpactLight)

	size := 0
	for _, chunk := range sess.chunks {
		size += len(chunk)
	}
	data := make([]byte, 0, size)
	for _, chunk := range sess.chunks {
		data = append(data, chunk...)
	}

	return Clip{SessionID: sess.id, Data: data, MimeType: sess.stream.MimeType()}, stopErr
}

// Finish discards the session and returns to Idle once the clip's
// enrichment has resolved. Valid only from Processing.
func (r *Recorder) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseProcessing {
		return
	}
	r.current = nil
	r.phase = PhaseIdle
}
