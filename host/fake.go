package host

import "sync"

// Fake records capability calls for tests.
type Fake struct {
	mu    sync.Mutex
	Calls []string
}

// NewFake creates an empty recording fake.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *Fake) Impact(style ImpactStyle) { f.record("impact:" + string(style)) }
func (f *Fake) Success()                 { f.record("success") }
func (f *Fake) Error()                   { f.record("error") }
func (f *Fake) SelectionChanged()        { f.record("selectionChanged") }
func (f *Fake) OpenLink(url string)      { f.record("openLink:" + url) }
func (f *Fake) Share(url, text string)   { f.record("share:" + url) }

// Recorded returns a snapshot of recorded calls.
func (f *Fake) Recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	copy(out, f.Calls)
	return out
}

// Count returns how many times call was recorded.
func (f *Fake) Count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == call {
			n++
		}
	}
	return n
}
