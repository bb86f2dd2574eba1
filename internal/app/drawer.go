package app

import (
	"context"
	"log/slog"

	"go.azadstudio.dev/pulsefeed/cache"
	"go.azadstudio.dev/pulsefeed/internal/types"
)

// DrawerState models the voice-note transcriber drawer lifecycle.
type DrawerState string

const (
	DrawerClosed        DrawerState = "closed"
	DrawerAwaitingInput DrawerState = "awaiting_input"
	DrawerRecording     DrawerState = "recording"
	DrawerProcessing    DrawerState = "processing"
	DrawerResultShown   DrawerState = "result_shown"
)

// TranscriberState returns the current drawer state.
func (s *Service) TranscriberState() DrawerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawer
}

func (s *Service) setDrawer(state DrawerState) {
	s.mu.Lock()
	s.drawer = state
	s.mu.Unlock()
	s.emit(EventDrawerState, string(state))
}

// OpenTranscriber opens the drawer. The voice-note cache is re-read so
// a result that completed while the drawer was closed shows
// immediately.
func (s *Service) OpenTranscriber() DrawerState {
	s.mu.Lock()
	if s.drawer != DrawerClosed {
		state := s.drawer
		s.mu.Unlock()
		return state
	}
	s.mu.Unlock()

	var next DrawerState
	switch s.store.Get(cache.VoiceNoteKey).Status {
	case cache.StatusReady, cache.StatusFailed:
		next = DrawerResultShown
	case cache.StatusPending:
		next = DrawerProcessing
	default:
		next = DrawerAwaitingInput
	}
	s.setDrawer(next)
	return next
}

// CloseTranscriber dismisses the drawer. An in-flight transcription is
// not cancelled; its result lands in the cache and is shown on reopen.
func (s *Service) CloseTranscriber() {
	s.setDrawer(DrawerClosed)
}

// StartRecording begins a voice-note capture. Valid while the drawer
// awaits input; a permission failure leaves the drawer unchanged and
// is surfaced to the caller.
func (s *Service) StartRecording() error {
	s.mu.Lock()
	if s.drawer != DrawerAwaitingInput {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.recorder.Start(context.Background()); err != nil {
		slog.Error("start recording", "error", err)
		return err
	}

	s.setDrawer(DrawerRecording)
	return nil
}

// StopRecording finalizes the capture and hands the clip to the
// gateway under the voice-note key.
func (s *Service) StopRecording() error {
	clip, err := s.recorder.Stop()
	if err != nil {
		return err
	}

	s.setDrawer(DrawerProcessing)

	s.store.Request(cache.VoiceNoteKey, failedTranscription, func(ctx context.Context) (types.EnrichmentResult, error) {
		return s.provider.TranscribeAudio(ctx, clip.Data, clip.MimeType)
	})
	return nil
}

// onVoiceNote advances the drawer when the voice-note key resolves.
func (s *Service) onVoiceNote(state cache.State) {
	if state.Status != cache.StatusReady && state.Status != cache.StatusFailed {
		return
	}

	s.recorder.Finish()

	s.mu.Lock()
	show := s.drawer == DrawerProcessing
	s.mu.Unlock()
	if show {
		s.setDrawer(DrawerResultShown)
	}
}

// RecordAgain discards the shown result and re-arms the recorder. Only
// the voice-note key is cleared; message enrichments are untouched.
func (s *Service) RecordAgain() {
	s.mu.Lock()
	if s.drawer != DrawerResultShown {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.store.Clear(cache.VoiceNoteKey)
	s.setDrawer(DrawerAwaitingInput)
}
