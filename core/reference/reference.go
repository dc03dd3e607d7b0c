// Package reference parses free-form human scripture citations into
// canonical chapter ranges.
//
// Two citation dialects are supported, distinguished by the first character
// after the book abbreviation:
//
//	Arabic:  创1:5-2:3  诗102  太5-7
//	Chinese: 创一至二章  诗一百零二篇  王下廿一章
//
// Parsing never returns an error: anything unparseable yields nil, and the
// rendering layer turns nil into a placeholder.
package reference

import (
	"strings"

	"github.com/dailywalk/dailywalk/core/book"
	"github.com/dailywalk/dailywalk/core/numeral"
)

// ParsedReference is a canonical chapter range within one book. Both
// chapters are positive; EndChapter is not guaranteed to be >= StartChapter,
// so consumers must tolerate an empty effective range.
type ParsedReference struct {
	// BookID is the canonical book number, 1-66.
	BookID int `json:"book_id"`

	// BookName is the abbreviation that matched (e.g. "创").
	BookName string `json:"book_name"`

	// StartChapter is the first chapter of the range (1-indexed).
	StartChapter int `json:"start_chapter"`

	// EndChapter is the last chapter of the range, inclusive.
	EndChapter int `json:"end_chapter"`
}

// Parse turns a citation into a chapter range. It returns nil, never an
// error, on any input it cannot understand: unknown book, empty chapter
// part, or a chapter that converts to zero.
func Parse(citation string) *ParsedReference {
	res, ok := book.Resolve(strings.TrimSpace(citation))
	if !ok {
		return nil
	}

	rest := strings.TrimSpace(res.Rest)
	var start, end int
	if startsWithDigit(rest) {
		start, end, ok = parseArabic(rest)
		if !ok {
			return nil
		}
	} else {
		start, end = parseChinese(rest)
	}

	if start < 1 || end < 1 {
		return nil
	}
	return &ParsedReference{
		BookID:       res.Number,
		BookName:     res.Abbrev,
		StartChapter: start,
		EndChapter:   end,
	}
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// Chinese-dialect unit markers: 章 for chapters, 篇 for psalms.
var unitMarkers = []string{"章", "篇"}

// connector joins the two ends of a Chinese-dialect range (一至二 = 1 to 2).
const connector = "至"

// parseChinese handles the Chinese-numeral dialect: trailing unit markers
// are stripped, the token is split on the range connector, and each side is
// converted. A missing right side collapses the range to a single chapter.
func parseChinese(s string) (start, end int) {
	for trimmed := true; trimmed; {
		trimmed = false
		for _, m := range unitMarkers {
			if strings.HasSuffix(s, m) {
				s = strings.TrimSuffix(s, m)
				trimmed = true
			}
		}
	}

	left, right, ranged := strings.Cut(s, connector)
	start = numeral.Convert(strings.TrimSpace(left))
	end = start
	if ranged {
		end = numeral.Convert(strings.TrimSpace(right))
	}
	return start, end
}
