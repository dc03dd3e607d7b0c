package scripture

import (
	"database/sql"

	"github.com/dailywalk/dailywalk/core/errors"
)

// SQLiteDocument reads a scripture database with a single verses table:
//
//	CREATE TABLE verses (
//	    book    INTEGER NOT NULL,
//	    chapter INTEGER NOT NULL,
//	    verse   INTEGER NOT NULL,
//	    text    TEXT    NOT NULL,
//	    PRIMARY KEY (book, chapter, verse)
//	);
//
// The driver is modernc.org/sqlite by default and mattn/go-sqlite3 when
// built with -tags cgo_sqlite.
type SQLiteDocument struct {
	db *sql.DB
}

// DriverType identifies the compiled-in SQLite implementation, "purego" or
// "cgo".
func DriverType() string {
	return driverType
}

// OpenSQLite opens a scripture database read-only.
func OpenSQLite(path string) (*SQLiteDocument, error) {
	db, err := sql.Open(driverName, path+"?mode=ro")
	if err != nil {
		return nil, &errors.IOError{Operation: "open", Path: path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &errors.IOError{Operation: "open", Path: path, Err: err}
	}
	return &SQLiteDocument{db: db}, nil
}

// Close releases the database handle.
func (d *SQLiteDocument) Close() error {
	return d.db.Close()
}

// Book implements Document.
func (d *SQLiteDocument) Book(n int) (Book, bool) {
	var exists bool
	err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM verses WHERE book = ?)`, n).Scan(&exists)
	if err != nil || !exists {
		return nil, false
	}
	return &sqliteBook{db: d.db, book: n}, true
}

type sqliteBook struct {
	db   *sql.DB
	book int
}

func (b *sqliteBook) Chapter(n int) (Chapter, bool) {
	var exists bool
	err := b.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM verses WHERE book = ? AND chapter = ?)`, b.book, n).Scan(&exists)
	if err != nil || !exists {
		return nil, false
	}
	return &sqliteChapter{db: b.db, book: b.book, chapter: n}, true
}

type sqliteChapter struct {
	db      *sql.DB
	book    int
	chapter int
}

func (c *sqliteChapter) Verses() []Verse {
	rows, err := c.db.Query(
		`SELECT verse, text FROM verses WHERE book = ? AND chapter = ? ORDER BY verse`,
		c.book, c.chapter)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var verses []Verse
	for rows.Next() {
		var v Verse
		if err := rows.Scan(&v.Number, &v.Text); err != nil {
			continue
		}
		verses = append(verses, v)
	}
	return verses
}
