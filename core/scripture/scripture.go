// Package scripture defines the read-only book/chapter/verse index the
// rendering engine consumes, together with XML, SQLite, and in-memory
// implementations.
//
// A Document is loaded once per session and shared by every render; all
// implementations are safe for concurrent readers because nothing mutates
// after load.
package scripture

// Verse is one numbered verse with its text.
type Verse struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Chapter is a numbered chapter. Verses returns the chapter's verses in
// document order; the slice is freshly built on each call so callers may
// iterate it as often as they like.
type Chapter interface {
	Verses() []Verse
}

// Book is a numbered book addressable by chapter number.
type Book interface {
	Chapter(n int) (Chapter, bool)
}

// Document is the top-level index, addressable by canonical book number
// (1-66). Lookups report absence with ok=false rather than an error.
type Document interface {
	Book(n int) (Book, bool)
}
