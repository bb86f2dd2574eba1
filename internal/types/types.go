// Package types provides shared type definitions for the application.
package types

// Language identifies a configured translation target language.
type Language string

const (
	LanguageHindi  Language = "hindi"
	LanguageUrdu   Language = "urdu"
	LanguageTelugu Language = "telugu"
)

// Languages is the ordered set of target languages for this deployment.
var Languages = []Language{LanguageHindi, LanguageUrdu, LanguageTelugu}

// EnrichmentResult is the uniform output of every enrichment operation:
// the verbatim (or transcribed) original text plus one translation per
// configured target language. Once stored for a key a result is never
// mutated; a fresh enrichment replaces it wholesale.
type EnrichmentResult struct {
	Original         string              `json:"original"`
	Translations     map[Language]string `json:"translations"`
	DetectedLanguage string              `json:"detectedLanguage,omitempty"`
}

// Translation returns the translation for lang, or "" if absent.
func (r EnrichmentResult) Translation(lang Language) string {
	return r.Translations[lang]
}

// MediaAttachment describes a photo or video attached to a message.
type MediaAttachment struct {
	Type         MediaType `json:"type"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"` // video posters or low-res previews
	AspectRatio  float64   `json:"aspectRatio,omitempty"`
}

// MediaType identifies the kind of media attachment.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// Reaction is one emoji reaction row on a message. Count is the total
// number of reactors; UserReacted marks whether the local user is one
// of them. A reaction with Count == 0 is removed, never stored.
type Reaction struct {
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
	UserReacted bool   `json:"userReacted"`
}

// Message is a single channel feed post. The feed collaborator owns
// every field except Reactions, which the reaction ledger mutates.
type Message struct {
	ID        string           `json:"id"`
	Content   string           `json:"content"`
	Date      string           `json:"date"` // ISO-8601
	Views     int              `json:"views"`
	Author    string           `json:"author"`
	Media     *MediaAttachment `json:"media,omitempty"`
	Reactions []Reaction       `json:"reactions,omitempty"`
}

// AnalyticsPoint is one bucket of a channel analytics series.
type AnalyticsPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DetectResult represents the result of language detection.
type DetectResult struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
