package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.azadstudio.dev/pulsefeed/enrich"
	"go.azadstudio.dev/pulsefeed/host"
	"go.azadstudio.dev/pulsefeed/internal/types"
)

func newTestStore(t *testing.T) (*Store, *host.Fake) {
	t.Helper()
	haptics := host.NewFake()
	store, err := New(haptics)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store, haptics
}

// waitForTerminal subscribes before returning, so callers must use it
// before triggering the request they want to observe.
func waitForTerminal(store *Store, key Key) <-chan State {
	ch := make(chan State, 4)
	store.Subscribe(func(k Key, state State) {
		if k != key {
			return
		}
		if state.Status == StatusReady || state.Status == StatusFailed {
			ch <- state
		}
	})
	return ch
}

func receive(t *testing.T, ch <-chan State) State {
	t.Helper()
	select {
	case state := <-ch:
		return state
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for terminal state")
		return State{}
	}
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

func TestStoreRequestSuccess(t *testing.T) {
	store, haptics := newTestStore(t)
	done := waitForTerminal(store, "m1")

	store.Request("m1", "hello", func(ctx context.Context) (types.EnrichmentResult, error) {
		return okResult("hello"), nil
	})

	state := receive(t, done)
	if state.Status != StatusReady {
		t.Fatalf("Status = %q, want %q", state.Status, StatusReady)
	}
	if state.Result.Original != "hello" {
		t.Errorf("Original = %q, want %q", state.Result.Original, "hello")
	}

	got := store.Get("m1")
	if got.Status != StatusReady {
		t.Errorf("Get Status = %q, want %q", got.Status, StatusReady)
	}
	if got.Result.Translation(types.LanguageHindi) != "h" {
		t.Errorf("hindi = %q, want %q", got.Result.Translation(types.LanguageHindi), "h")
	}

	if haptics.Count("impact:light") != 1 {
		t.Errorf("impact:light count = %d, want 1", haptics.Count("impact:light"))
	}
	if haptics.Count("success") != 1 {
		t.Errorf("success count = %d, want 1", haptics.Count("success"))
	}
}

func TestStoreAtMostOneInFlight(t *testing.T) {
	store, _ := newTestStore(t)
	done := waitForTerminal(store, "m1")

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})

	producer := func(ctx context.Context) (types.EnrichmentResult, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return okResult("x"), nil
	}

	store.Request("m1", "x", producer)

	if got := store.Get("m1").Status; got != StatusPending {
		t.Fatalf("Status after first request = %q, want %q", got, StatusPending)
	}

	// Re-triggering while pending must not start a second producer.
	store.Request("m1", "x", producer)
	store.Request("m1", "x", producer)

	close(release)
	receive(t, done)

	// Re-triggering after Ready is also a no-op.
	store.Request("m1", "x", producer)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("producer calls = %d, want 1", calls)
	}
}

func TestStoreFailureStoresSentinel(t *testing.T) {
	store, haptics := newTestStore(t)
	done := waitForTerminal(store, "m2")

	store.Request("m2", "original text", func(ctx context.Context) (types.EnrichmentResult, error) {
		return types.EnrichmentResult{}, errors.New("boom")
	})

	state := receive(t, done)
	if state.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", state.Status, StatusFailed)
	}
	if state.Reason != enrich.FailureProvider {
		t.Errorf("Reason = %q, want %q", state.Reason, enrich.FailureProvider)
	}
	if state.Result.Original != "original text" {
		t.Errorf("Original = %q, want the fallback original", state.Result.Original)
	}
	for _, lang := range types.Languages {
		if got := state.Result.Translation(lang); got != enrich.FailedSentinel {
			t.Errorf("Translation(%s) = %q, want sentinel", lang, got)
		}
	}
	if haptics.Count("error") != 1 {
		t.Errorf("error haptic count = %d, want 1", haptics.Count("error"))
	}
}

func TestStoreFailedIsRetryable(t *testing.T) {
	store, _ := newTestStore(t)
	done := waitForTerminal(store, "m3")

	attempts := 0
	producer := func(ctx context.Context) (types.EnrichmentResult, error) {
		attempts++
		if attempts == 1 {
			return types.EnrichmentResult{}, errors.New("transient")
		}
		return okResult("second try"), nil
	}

	store.Request("m3", "fallback", producer)
	if state := receive(t, done); state.Status != StatusFailed {
		t.Fatalf("first attempt Status = %q, want %q", state.Status, StatusFailed)
	}

	store.Request("m3", "fallback", producer)
	state := receive(t, done)
	if state.Status != StatusReady {
		t.Fatalf("second attempt Status = %q, want %q", state.Status, StatusReady)
	}
	if state.Result.Original != "second try" {
		t.Errorf("Original = %q, want %q", state.Result.Original, "second try")
	}
	if state.Reason != "" {
		t.Errorf("Reason = %q, want empty after success", state.Reason)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestStoreKeyIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	doneA := waitForTerminal(store, "a")

	release := make(chan struct{})
	store.Request("b", "b", func(ctx context.Context) (types.EnrichmentResult, error) {
		<-release
		return okResult("b"), nil
	})

	store.Request("a", "a", func(ctx context.Context) (types.EnrichmentResult, error) {
		return okResult("a"), nil
	})
	receive(t, doneA)

	if got := store.Get("a").Status; got != StatusReady {
		t.Errorf("key a Status = %q, want %q", got, StatusReady)
	}
	if got := store.Get("b").Status; got != StatusPending {
		t.Errorf("key b Status = %q, want %q", got, StatusPending)
	}

	doneB := waitForTerminal(store, "b")
	close(release)
	receive(t, doneB)
}

func TestStoreClear(t *testing.T) {
	store, _ := newTestStore(t)
	done := waitForTerminal(store, "m4")

	store.Request("m4", "x", func(ctx context.Context) (types.EnrichmentResult, error) {
		return okResult("x"), nil
	})
	receive(t, done)

	var cleared []State
	store.Subscribe(func(k Key, state State) {
		if k == "m4" {
			cleared = append(cleared, state)
		}
	})

	store.Clear("m4")

	if got := store.Get("m4").Status; got != StatusIdle {
		t.Errorf("Status after Clear = %q, want %q", got, StatusIdle)
	}
	if len(cleared) != 1 || cleared[0].Status != StatusIdle {
		t.Errorf("Clear notifications = %+v, want single idle", cleared)
	}

	// Cleared key accepts a fresh request.
	done2 := waitForTerminal(store, "m4")
	store.Request("m4", "y", func(ctx context.Context) (types.EnrichmentResult, error) {
		return okResult("y"), nil
	})
	state := receive(t, done2)
	if state.Result.Original != "y" {
		t.Errorf("Original after re-request = %q, want %q", state.Result.Original, "y")
	}
}

func TestStoreGetUnknownKey(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.Get("never-seen")
	if state.Status != StatusIdle {
		t.Errorf("Status = %q, want %q", state.Status, StatusIdle)
	}
	if state.Result.Original != "" {
		t.Errorf("Result should be empty, got %+v", state.Result)
	}
}
