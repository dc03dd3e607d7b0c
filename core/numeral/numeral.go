// Package numeral converts Chinese numeral tokens as they appear in
// scripture citations (e.g. 十六, 廿一, 一百零二) into integers.
//
// The converter is deliberately lenient: it never fails, and any residue
// it does not recognize contributes zero. Malformed input degrades to a
// lower number instead of an error, which matches how citations are
// handled everywhere else in this codebase (bad input renders a
// placeholder, it does not abort).
package numeral

import "strings"

// digits maps single Chinese digit runes to their values.
var digits = map[rune]int{
	'零': 0,
	'一': 1,
	'二': 2,
	'三': 3,
	'四': 4,
	'五': 5,
	'六': 6,
	'七': 7,
	'八': 8,
	'九': 9,
}

// Markers for tens and hundreds. 廿 and 卅 are the compact forms of
// twenty and thirty common in Chinese Bible references.
const (
	markerTen     = "十"
	markerTwenty  = "廿"
	markerThirty  = "卅"
	markerHundred = "百"
)

// Convert converts a Chinese numeral token to a non-negative integer.
//
// Processing order: a 百 marker splits the token, the prefix (multiplier 1
// if empty) times 100 is added and conversion restarts on the remainder; a
// leading 廿 or 卅 on the remainder adds 20 or 30; a 十 marker splits the
// remainder with the prefix (multiplier 1 if empty) times 10; a single
// remaining digit is looked up directly. Empty input converts to 0.
//
// Examples: 十六 = 16, 二十 = 20, 廿一 = 21, 卅三 = 33, 九十六 = 96,
// 一百一十 = 110, 一百零二 = 102.
func Convert(s string) int {
	if s == "" {
		return 0
	}

	if i := strings.Index(s, markerHundred); i >= 0 {
		mult := 1
		if prefix := s[:i]; prefix != "" {
			mult = digitValue(prefix)
		}
		// A filler 零 after 百 (一百零二) carries no value of its own.
		rest := strings.TrimPrefix(s[i+len(markerHundred):], "零")
		return mult*100 + Convert(rest)
	}

	total := 0
	switch {
	case strings.HasPrefix(s, markerTwenty):
		total += 20
		s = s[len(markerTwenty):]
	case strings.HasPrefix(s, markerThirty):
		total += 30
		s = s[len(markerThirty):]
	}

	if i := strings.Index(s, markerTen); i >= 0 {
		mult := 1
		if prefix := s[:i]; prefix != "" {
			mult = digitValue(prefix)
		}
		total += mult * 10
		s = s[i+len(markerTen):]
	}

	return total + digitValue(s)
}

// digitValue returns the value of a single-digit token. Empty, multi-rune,
// or unrecognized tokens contribute zero.
func digitValue(s string) int {
	r := []rune(s)
	if len(r) != 1 {
		return 0
	}
	return digits[r[0]]
}
