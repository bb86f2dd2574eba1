package cache

// Key identifies the logical target of an enrichment. Text and video
// keys for the same message are distinct because a post can carry both
// a text body and an attached video, each independently enrichable.
type Key string

// TextKey is the enrichment key for a message's text body.
func TextKey(messageID string) Key { return Key(messageID) }

// VideoKey is the enrichment key for a message's attached video.
func VideoKey(messageID string) Key { return Key(messageID + "_video") }

// VoiceNoteKey is the key for the free-standing voice recorder, not
// tied to any message.
const VoiceNoteKey Key = "voice_note"
