package scripture

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/dailywalk/dailywalk/core/errors"
)

// MemDocument is a map-backed Document. It backs the JSON loader and is the
// implementation of choice in tests.
type MemDocument struct {
	books map[int]*memBook
}

type memBook struct {
	chapters map[int]*memChapter
}

type memChapter struct {
	verses []Verse
}

// NewMemDocument returns an empty in-memory document.
func NewMemDocument() *MemDocument {
	return &MemDocument{books: make(map[int]*memBook)}
}

// SetVerses stores the verses for one chapter, replacing any previous
// content. Verses are kept in the order given.
func (d *MemDocument) SetVerses(bookNum, chapterNum int, verses []Verse) {
	b, ok := d.books[bookNum]
	if !ok {
		b = &memBook{chapters: make(map[int]*memChapter)}
		d.books[bookNum] = b
	}
	b.chapters[chapterNum] = &memChapter{verses: append([]Verse(nil), verses...)}
}

// Book implements Document.
func (d *MemDocument) Book(n int) (Book, bool) {
	b, ok := d.books[n]
	return b, ok
}

func (b *memBook) Chapter(n int) (Chapter, bool) {
	c, ok := b.chapters[n]
	return c, ok
}

func (c *memChapter) Verses() []Verse {
	return append([]Verse(nil), c.verses...)
}

// jsonDocument is the on-disk JSON shape:
//
//	{"books":[{"number":1,"chapters":[{"number":1,"verses":[{"number":1,"text":"..."}]}]}]}
type jsonDocument struct {
	Books []struct {
		Number   int `json:"number"`
		Chapters []struct {
			Number int     `json:"number"`
			Verses []Verse `json:"verses"`
		} `json:"chapters"`
	} `json:"books"`
}

// LoadJSON reads a JSON scripture document. Verses within a chapter keep
// their file order; chapters with no verses are still addressable.
func LoadJSON(r io.Reader) (*MemDocument, error) {
	var parsed jsonDocument
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, &errors.ParseError{Format: "JSON", Message: err.Error(), Err: err}
	}
	doc := NewMemDocument()
	for _, b := range parsed.Books {
		for _, c := range b.Chapters {
			doc.SetVerses(b.Number, c.Number, c.Verses)
		}
	}
	return doc, nil
}

// BookNumbers returns the book numbers present in the document, sorted.
// Used by diagnostics and tests.
func (d *MemDocument) BookNumbers() []int {
	nums := make([]int, 0, len(d.books))
	for n := range d.books {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
