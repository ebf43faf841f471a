package models

// Language codes follow ISO 639-3.
const (
	LanguageEnglish      = "eng"
	LanguageRussian      = "rus"
	LanguageUndetermined = "und"
)

// SessionUpdate is the outcome of observing one user message in a conversation.
type SessionUpdate struct {
	SessionID   string
	Language    string
	Changed     bool
	Instruction string
}
