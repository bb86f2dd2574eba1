// Package cache holds enrichment results keyed by their logical
// target and enforces at-most-one outstanding request per key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	badger "github.com/dgraph-io/badger/v4"

	"go.azadstudio.dev/pulsefeed/enrich"
	"go.azadstudio.dev/pulsefeed/host"
	"go.azadstudio.dev/pulsefeed/internal/types"
)

// Status is the lifecycle stage of one key's enrichment.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is the full observable state of one key. Result is populated
// for Ready and Failed (the failed payload carries sentinel text per
// language field); Reason is populated for Failed only.
type State struct {
	Status Status                 `json:"status"`
	Result types.EnrichmentResult `json:"result,omitzero"`
	Reason enrich.FailureReason   `json:"reason,omitempty"`
}

// Producer performs the remote enrichment for one request.
type Producer func(ctx context.Context) (types.EnrichmentResult, error)

// Subscriber observes key state transitions.
type Subscriber func(key Key, state State)

// Store is the keyed result cache. Pending markers and failure
// reasons live in memory; Ready/Failed payloads live in an in-memory
// badger store. Entries are never evicted: request volume is bounded
// by manual user interaction, and everything dies with the session.
type Store struct {
	mu      sync.Mutex
	status  map[Key]Status
	reasons map[Key]enrich.FailureReason
	subs    []Subscriber

	db      *badger.DB
	haptics host.Haptics
	wg      sync.WaitGroup
}

// New creates a Store backed by an in-memory badger instance.
func New(haptics host.Haptics) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	return &Store{
		status:  make(map[Key]Status),
		reasons: make(map[Key]enrich.FailureReason),
		db:      db,
		haptics: haptics,
	}, nil
}

// Close waits for in-flight producers and releases the result store.
func (s *Store) Close() error {
	s.wg.Wait()
	return s.db.Close()
}

// Subscribe registers fn to be called on every state transition, so
// consumers always observe the latest state rather than a snapshot.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Get returns the current state for key. It is a pure read and never
// triggers work.
func (s *Store) Get(key Key) State {
	s.mu.Lock()
	status, ok := s.status[key]
	reason := s.reasons[key]
	s.mu.Unlock()

	if !ok {
		return State{Status: StatusIdle}
	}

	state := State{Status: status, Reason: reason}
	if status == StatusReady || status == StatusFailed {
		result, err := s.readResult(key)
		if err != nil {
			slog.Error("read cached result", "key", key, "error", err)
			return State{Status: StatusIdle}
		}
		state.Result = result
	}
	return state
}

// Request schedules an enrichment for key unless one is already
// pending or satisfied. This is the single synchronization point
// guaranteeing at-most-one concurrent request per key: re-triggering
// while Pending or after Ready is a no-op; Failed re-arms. On failure
// the stored payload is the uniform sentinel result built around
// fallbackOriginal.
func (s *Store) Request(key Key, fallbackOriginal string, producer Producer) {
	s.mu.Lock()
	switch s.status[key] {
	case StatusPending, StatusReady:
		s.mu.Unlock()
		return
	}
	s.status[key] = StatusPending
	delete(s.reasons, key)
	s.mu.Unlock()

	s.haptics.Impact(host.ImpactLight)
	s.notify(key, State{Status: StatusPending})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.resolve(key, fallbackOriginal, producer)
	}()
}

func (s *Store) resolve(key Key, fallbackOriginal string, producer Producer) {
	// No mid-flight cancellation: dismissing the UI that triggered the
	// request lets it run to completion and land silently here.
	result, err := producer(context.Background())

	var state State
	if err != nil {
		reason := enrich.ReasonOf(err)
		slog.Warn("enrichment failed", "key", key, "reason", reason, "error", err)
		state = State{
			Status: StatusFailed,
			Result: enrich.FailureResult(fallbackOriginal),
			Reason: reason,
		}
	} else {
		state = State{Status: StatusReady, Result: result}
	}

	if werr := s.writeResult(key, state.Result); werr != nil {
		slog.Error("store result", "key", key, "error", werr)
	}

	s.mu.Lock()
	s.status[key] = state.Status
	if state.Status == StatusFailed {
		s.reasons[key] = state.Reason
	}
	s.mu.Unlock()

	if state.Status == StatusFailed {
		s.haptics.Error()
	} else {
		s.haptics.Success()
	}
	s.notify(key, state)
}

// Clear resets key to Idle so a fresh enrichment can start. Other
// keys are unaffected.
func (s *Store) Clear(key Key) {
	s.mu.Lock()
	delete(s.status, key)
	delete(s.reasons, key)
	s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		slog.Error("clear cached result", "key", key, "error", err)
	}

	s.notify(key, State{Status: StatusIdle})
}

func (s *Store) notify(key Key, state State) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(key, state)
	}
}

func (s *Store) writeResult(key Key, result types.EnrichmentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) readResult(key Key) (types.EnrichmentResult, error) {
	var result types.EnrichmentResult
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return types.EnrichmentResult{}, fmt.Errorf("read result: %w", err)
	}
	return result, nil
}
