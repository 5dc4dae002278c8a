package platform

import (
	"time"
	"unicode/utf8"
)

const (
	ColorDark = 0x2F3136
	ColorRed  = 0xED4245
	ColorBlue = 0x3498DB
)

// Size limits the platform enforces on a single message, in characters.
const (
	MaxContentLength     = 2000
	MaxTitleLength       = 256
	MaxDescriptionLength = 4096
	MaxFieldLabelLength  = 256
	MaxFieldValueLength  = 1024
	MaxFooterLength      = 2048
)

const ellipsis = "…"

// Reply is what the bot says: plain text, a structured summary, or both.
type Reply struct {
	Text    string
	Summary *Summary
	// MentionEveryone allows Text to ping the whole community. Replies are
	// sent with every other mention suppressed.
	MentionEveryone bool
}

// Summary is a titled card of ordered fields.
type Summary struct {
	Title        string
	Description  string
	Color        int
	Fields       []Field
	AuthorName   string
	AuthorIcon   string
	ThumbnailURL string
	ImageURL     string
	Footer       string
	FooterIcon   string
	Timestamp    time.Time
}

type Field struct {
	Label  string
	Value  string
	Inline bool
}

// Text builds a plain text reply.
func Text(s string) *Reply {
	return &Reply{Text: s}
}

// AddField appends a field and returns the summary for chaining. Values
// longer than MaxFieldValueLength are cut.
func (s *Summary) AddField(label, value string, inline bool) *Summary {
	s.Fields = append(s.Fields, Field{
		Label:  Truncate(label, MaxFieldLabelLength),
		Value:  Truncate(value, MaxFieldValueLength),
		Inline: inline,
	})
	return s
}

// Truncate shortens s to at most max characters, ending it with an ellipsis
// when anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + ellipsis
}
