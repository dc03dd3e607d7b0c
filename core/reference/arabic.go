package reference

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// arabicRange is the participle grammar for the Arabic-digit dialect:
// Start[:Verse]? (- End[:Verse]?)?. Verse components are recognized so the
// grammar accepts real-world citations, but only chapters are kept; this
// engine models chapter granularity only.
type arabicRange struct {
	Start      int  `@Number`
	StartVerse *int `( ":" @Number )?`
	End        *int `( "-" @Number`
	EndVerse   *int `  ( ":" @Number )? )?`
}

var arabicLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var arabicParser = participle.MustBuild[arabicRange](
	participle.Lexer(arabicLexer),
	participle.Elide("Whitespace"),
)

// parseArabic parses the chapter part of an Arabic-dialect citation.
// A missing end collapses the range to a single chapter.
func parseArabic(s string) (start, end int, ok bool) {
	parsed, err := arabicParser.ParseString("", s)
	if err != nil {
		return 0, 0, false
	}
	start = parsed.Start
	end = start
	if parsed.End != nil {
		end = *parsed.End
	}
	return start, end, true
}
