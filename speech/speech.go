// Package speech converts cached enrichment text into synthesized
// speech on demand.
package speech

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"go.azadstudio.dev/pulsefeed/host"
	"go.azadstudio.dev/pulsefeed/internal/types"
)

// ErrUnsupported is returned synchronously when the host environment
// has no speech capability, so callers can show a fallback notice.
var ErrUnsupported = errors.New("speech synthesis not supported in this environment")

// rate is the fixed utterance speed, slightly slower than natural for
// translated text.
const rate = 0.9

// Synthesizer is the platform speech engine. It owns "currently
// speaking"; this package keeps no playback state.
type Synthesizer interface {
	Supported() bool
	Cancel()
	Speak(text, locale string, rate float64)
}

// Player drives the synthesizer with preemption semantics: starting a
// new utterance always cancels the current one.
type Player struct {
	synth   Synthesizer
	haptics host.Haptics
}

// NewPlayer creates a Player over the given synthesizer.
func NewPlayer(synth Synthesizer, haptics host.Haptics) *Player {
	return &Player{synth: synth, haptics: haptics}
}

// Speak cancels any current utterance and speaks text in the locale
// mapped from lang.
func (p *Player) Speak(text string, lang types.Language) error {
	if !p.synth.Supported() {
		return fmt.Errorf("speak: %w", ErrUnsupported)
	}

	p.synth.Cancel()
	p.synth.Speak(text, localeFor(lang), rate)
	p.haptics.Impact(host.ImpactLight)
	return nil
}

// localeFor maps a target language to a synthesis locale. Anything
// outside the target set falls back to US English, which covers
// speaking the untranslated original.
func localeFor(lang types.Language) string {
	var tag language.Tag
	switch lang {
	case types.LanguageHindi:
		tag = language.MustParse("hi-IN")
	case types.LanguageUrdu:
		tag = language.MustParse("ur-PK")
	case types.LanguageTelugu:
		tag = language.MustParse("te-IN")
	default:
		tag = language.AmericanEnglish
	}
	return tag.String()
}
