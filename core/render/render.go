// Package render turns citations into verse text against a loaded
// scripture document.
//
// Render is pure: it reads only its arguments and the immutable book
// table, so repeated calls with the same inputs produce byte-identical
// output and concurrent renders need no locking.
package render

import (
	"fmt"
	"strings"

	"github.com/dailywalk/dailywalk/core/book"
	"github.com/dailywalk/dailywalk/core/reference"
	"github.com/dailywalk/dailywalk/core/scripture"
)

// Placeholder messages for the three non-fatal failure modes. All failures
// degrade to descriptive text; rendering never returns an error.
const (
	msgUnparseable = "无法识别的经文引用"
	msgNoDocument  = "经文数据尚未加载"
	msgBookMissing = "经文数据中找不到该书卷"
)

// Render resolves a citation against doc and returns the verses of every
// chapter in the range, each chapter under its own heading.
//
// Failure handling, in order: an unparseable citation, a missing document,
// and a book absent from the document each yield a placeholder line.
// Within a valid range, chapters missing from the document are silently
// skipped, so a partially loaded document renders what it has. A backwards
// range renders nothing.
func Render(citation string, doc scripture.Document) string {
	ref := reference.Parse(citation)
	if ref == nil {
		return fmt.Sprintf("%s：%s", msgUnparseable, strings.TrimSpace(citation))
	}
	if doc == nil {
		return fmt.Sprintf("%s：%s", msgNoDocument, ref.BookName)
	}
	bk, ok := doc.Book(ref.BookID)
	if !ok {
		return fmt.Sprintf("%s：%s", msgBookMissing, book.Title(ref.BookName))
	}

	title := book.Title(ref.BookName)
	var sb strings.Builder
	for ch := ref.StartChapter; ch <= ref.EndChapter; ch++ {
		chapter, ok := bk.Chapter(ch)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s 第%d章\n", title, ch)
		for _, v := range chapter.Verses() {
			fmt.Fprintf(&sb, "%d %s\n", v.Number, v.Text)
		}
	}
	return sb.String()
}
