package render

import (
	"strings"
	"testing"

	"github.com/dailywalk/dailywalk/core/scripture"
)

// testDoc builds a small document: Genesis 1-2 and Psalm 102.
func testDoc() *scripture.MemDocument {
	doc := scripture.NewMemDocument()
	doc.SetVerses(1, 1, []scripture.Verse{
		{Number: 1, Text: "起初神创造天地。"},
		{Number: 2, Text: "地是空虚混沌。"},
	})
	doc.SetVerses(1, 2, []scripture.Verse{
		{Number: 1, Text: "天地万物都造齐了。"},
	})
	doc.SetVerses(19, 102, []scripture.Verse{
		{Number: 1, Text: "耶和华啊，求你听我的祷告。"},
	})
	return doc
}

func TestRenderRange(t *testing.T) {
	got := Render("创一至二章", testDoc())

	want := "创世记 第1章\n" +
		"1 起初神创造天地。\n" +
		"2 地是空虚混沌。\n" +
		"创世记 第2章\n" +
		"1 天地万物都造齐了。\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderArabicCitation(t *testing.T) {
	got := Render("诗102", testDoc())
	if !strings.Contains(got, "诗篇 第102章") {
		t.Errorf("missing chapter heading in %q", got)
	}
	if !strings.Contains(got, "1 耶和华啊，求你听我的祷告。") {
		t.Errorf("missing verse in %q", got)
	}
}

func TestRenderUnparseable(t *testing.T) {
	got := Render("xyz", testDoc())
	if !strings.Contains(got, "无法识别的经文引用") {
		t.Errorf("want unparseable placeholder, got %q", got)
	}
}

func TestRenderNoDocument(t *testing.T) {
	got := Render("创一章", nil)
	if !strings.Contains(got, "经文数据尚未加载") {
		t.Errorf("want data-unavailable placeholder, got %q", got)
	}
}

func TestRenderBookMissing(t *testing.T) {
	got := Render("启22", testDoc())
	if !strings.Contains(got, "找不到该书卷") {
		t.Errorf("want book-not-found placeholder, got %q", got)
	}
}

func TestRenderSkipsMissingChapters(t *testing.T) {
	// Chapters 1-5 requested, only 1 and 2 exist: present chapters render,
	// absent ones are skipped, no error.
	got := Render("创1-5", testDoc())
	if !strings.Contains(got, "第1章") || !strings.Contains(got, "第2章") {
		t.Errorf("present chapters should render, got %q", got)
	}
	if strings.Contains(got, "第3章") {
		t.Errorf("absent chapter should be skipped, got %q", got)
	}
}

func TestRenderBackwardsRangeIsEmpty(t *testing.T) {
	if got := Render("创三至一章", testDoc()); got != "" {
		t.Errorf("backwards range should render empty, got %q", got)
	}
}

func TestRenderIdempotent(t *testing.T) {
	doc := testDoc()
	first := Render("创一至二章", doc)
	second := Render("创一至二章", doc)
	if first != second {
		t.Error("repeated renders differ")
	}
}
