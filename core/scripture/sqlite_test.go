package scripture

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// newTestDB creates a scripture database with a handful of verses.
func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bible.db")

	db, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE verses (
			book    INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			verse   INTEGER NOT NULL,
			text    TEXT    NOT NULL,
			PRIMARY KEY (book, chapter, verse)
		)`,
		`INSERT INTO verses VALUES (1, 1, 2, '地是空虚混沌。')`,
		`INSERT INTO verses VALUES (1, 1, 1, '起初神创造天地。')`,
		`INSERT INTO verses VALUES (1, 2, 1, '天地万物都造齐了。')`,
		`INSERT INTO verses VALUES (19, 102, 1, '耶和华啊，求你听我的祷告。')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestSQLiteDocument(t *testing.T) {
	path := newTestDB(t)

	doc, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer doc.Close()

	b, ok := doc.Book(1)
	if !ok {
		t.Fatal("Book(1) not found")
	}
	if _, ok := doc.Book(66); ok {
		t.Error("Book(66) should not exist")
	}

	c, ok := b.Chapter(1)
	if !ok {
		t.Fatal("Chapter(1) not found")
	}
	verses := c.Verses()
	if len(verses) != 2 {
		t.Fatalf("len(Verses) = %d, want 2", len(verses))
	}
	// ORDER BY verse, regardless of insert order.
	if verses[0].Number != 1 || verses[1].Number != 2 {
		t.Errorf("verse order = %d,%d, want 1,2", verses[0].Number, verses[1].Number)
	}

	if _, ok := b.Chapter(99); ok {
		t.Error("Chapter(99) should not exist")
	}
}

func TestOpenSQLiteMissing(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing database")
	}
}
