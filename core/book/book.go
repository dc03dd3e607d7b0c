// Package book resolves the Chinese book abbreviations used in citations
// against the 66-book canon.
package book

import "strings"

// Entry describes one canonical book.
type Entry struct {
	// Number is the canonical position, 1-66.
	Number int

	// Abbrev is the citation abbreviation (e.g. "创", "撒上", "约一").
	Abbrev string

	// Title is the full display title (e.g. "创世记").
	Title string
}

// canon is the fixed 66-entry book table in canonical order. Several
// abbreviations are proper prefixes of others (约 of 约一/约二/约三), so
// resolution must always take the longest match.
var canon = [...]Entry{
	{1, "创", "创世记"},
	{2, "出", "出埃及记"},
	{3, "利", "利未记"},
	{4, "民", "民数记"},
	{5, "申", "申命记"},
	{6, "书", "约书亚记"},
	{7, "士", "士师记"},
	{8, "得", "路得记"},
	{9, "撒上", "撒母耳记上"},
	{10, "撒下", "撒母耳记下"},
	{11, "王上", "列王纪上"},
	{12, "王下", "列王纪下"},
	{13, "代上", "历代志上"},
	{14, "代下", "历代志下"},
	{15, "拉", "以斯拉记"},
	{16, "尼", "尼希米记"},
	{17, "斯", "以斯帖记"},
	{18, "伯", "约伯记"},
	{19, "诗", "诗篇"},
	{20, "箴", "箴言"},
	{21, "传", "传道书"},
	{22, "歌", "雅歌"},
	{23, "赛", "以赛亚书"},
	{24, "耶", "耶利米书"},
	{25, "哀", "耶利米哀歌"},
	{26, "结", "以西结书"},
	{27, "但", "但以理书"},
	{28, "何", "何西阿书"},
	{29, "珥", "约珥书"},
	{30, "摩", "阿摩司书"},
	{31, "俄", "俄巴底亚书"},
	{32, "拿", "约拿书"},
	{33, "弥", "弥迦书"},
	{34, "鸿", "那鸿书"},
	{35, "哈", "哈巴谷书"},
	{36, "番", "西番雅书"},
	{37, "该", "哈该书"},
	{38, "亚", "撒迦利亚书"},
	{39, "玛", "玛拉基书"},
	{40, "太", "马太福音"},
	{41, "可", "马可福音"},
	{42, "路", "路加福音"},
	{43, "约", "约翰福音"},
	{44, "徒", "使徒行传"},
	{45, "罗", "罗马书"},
	{46, "林前", "哥林多前书"},
	{47, "林后", "哥林多后书"},
	{48, "加", "加拉太书"},
	{49, "弗", "以弗所书"},
	{50, "腓", "腓立比书"},
	{51, "西", "歌罗西书"},
	{52, "帖前", "帖撒罗尼迦前书"},
	{53, "帖后", "帖撒罗尼迦后书"},
	{54, "提前", "提摩太前书"},
	{55, "提后", "提摩太后书"},
	{56, "多", "提多书"},
	{57, "门", "腓利门书"},
	{58, "来", "希伯来书"},
	{59, "雅", "雅各书"},
	{60, "彼前", "彼得前书"},
	{61, "彼后", "彼得后书"},
	{62, "约一", "约翰一书"},
	{63, "约二", "约翰二书"},
	{64, "约三", "约翰三书"},
	{65, "犹", "犹大书"},
	{66, "启", "启示录"},
}

// byAbbrev indexes the canon by abbreviation. Built once at package load,
// never mutated.
var byAbbrev = func() map[string]Entry {
	m := make(map[string]Entry, len(canon))
	for _, e := range canon {
		m[e.Abbrev] = e
	}
	return m
}()

// Resolution is the result of matching a citation head against the table.
type Resolution struct {
	// Number is the matched book number, 1-66.
	Number int

	// Abbrev is the abbreviation that matched.
	Abbrev string

	// Rest is the unmatched suffix of the citation.
	Rest string
}

// Resolve matches the longest table abbreviation that is a prefix of the
// citation. Naive first-match would silently pick 约翰福音 for a 约翰一书
// citation, so the whole table is scanned and the longest match wins.
// Returns ok=false when no abbreviation prefixes the citation.
func Resolve(citation string) (Resolution, bool) {
	var best Entry
	for _, e := range canon {
		if len(e.Abbrev) > len(best.Abbrev) && strings.HasPrefix(citation, e.Abbrev) {
			best = e
		}
	}
	if best.Number == 0 {
		return Resolution{}, false
	}
	return Resolution{
		Number: best.Number,
		Abbrev: best.Abbrev,
		Rest:   citation[len(best.Abbrev):],
	}, true
}

// Title returns the full display title for an abbreviation. Unknown
// abbreviations are returned unchanged so callers always have something
// printable.
func Title(abbrev string) string {
	if e, ok := byAbbrev[abbrev]; ok {
		return e.Title
	}
	return abbrev
}

// ByNumber returns the canon entry for book number n (1-66).
func ByNumber(n int) (Entry, bool) {
	if n < 1 || n > len(canon) {
		return Entry{}, false
	}
	return canon[n-1], true
}

// Count is the number of canonical books.
const Count = len(canon)
