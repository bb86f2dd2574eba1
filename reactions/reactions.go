// Package reactions maintains per-message emoji reactions with strict
// toggle semantics and the reaction picker's mutual exclusion.
package reactions

import (
	"slices"
	"sync"

	"go.azadstudio.dev/pulsefeed/host"
	"go.azadstudio.dev/pulsefeed/internal/types"
)

// Available is the emoji set offered by the reaction picker.
var Available = []string{"👍", "❤️", "🔥", "🎉", "👏", "😂"}

// Ledger owns the reactions field of feed messages and the picker
// state. Each user contributes at most one count to any emoji.
type Ledger struct {
	haptics host.Haptics

	mu        sync.Mutex
	pickerFor string // message id with the picker open, "" when closed
}

// NewLedger creates a Ledger with no picker open.
func NewLedger(haptics host.Haptics) *Ledger {
	return &Ledger{haptics: haptics}
}

// Toggle flips the local user's reaction for emoji on msg. A reaction
// whose count reaches zero is removed entirely. The open picker, if
// any, closes after the toggle.
func (l *Ledger) Toggle(msg *types.Message, emoji string) {
	l.haptics.SelectionChanged()

	idx := slices.IndexFunc(msg.Reactions, func(r types.Reaction) bool {
		return r.Emoji == emoji
	})

	switch {
	case idx == -1:
		msg.Reactions = append(msg.Reactions, types.Reaction{
			Emoji: emoji, Count: 1, UserReacted: true,
		})
	case msg.Reactions[idx].UserReacted:
		msg.Reactions[idx].Count--
		msg.Reactions[idx].UserReacted = false
		if msg.Reactions[idx].Count <= 0 {
			msg.Reactions = slices.Delete(msg.Reactions, idx, idx+1)
		}
	default:
		msg.Reactions[idx].Count++
		msg.Reactions[idx].UserReacted = true
	}

	l.ClosePicker()
}

// TogglePicker opens the picker for messageID, closing any other; a
// second toggle on the same message closes it.
func (l *Ledger) TogglePicker(messageID string) {
	l.haptics.Impact(host.ImpactLight)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pickerFor == messageID {
		l.pickerFor = ""
	} else {
		l.pickerFor = messageID
	}
}

// ClosePicker closes the picker if open.
func (l *Ledger) ClosePicker() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pickerFor = ""
}

// PickerFor returns the message id whose picker is open, or "".
func (l *Ledger) PickerFor() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pickerFor
}
