package scripture

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/dailywalk/dailywalk/core/errors"
)

// Fingerprint returns the hex blake3 digest of data. It identifies one
// exact revision of a scripture document and doubles as the data version
// reported to clients.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FromBytes builds a document from raw file content. The format is chosen
// by the filename extension; a trailing .xz is decompressed first. Returns
// the document and its content fingerprint (of the uncompressed bytes).
func FromBytes(name string, data []byte) (Document, string, error) {
	if strings.HasSuffix(name, ".xz") {
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", &errors.ParseError{Format: "xz", Path: name, Message: err.Error(), Err: err}
		}
		plain, err := io.ReadAll(xr)
		if err != nil {
			return nil, "", &errors.ParseError{Format: "xz", Path: name, Message: err.Error(), Err: err}
		}
		data = plain
		name = strings.TrimSuffix(name, ".xz")
	}

	fp := Fingerprint(data)
	switch {
	case strings.HasSuffix(name, ".xml"):
		doc, err := LoadXML(bytes.NewReader(data))
		if err != nil {
			return nil, "", err
		}
		return doc, fp, nil
	case strings.HasSuffix(name, ".json"):
		doc, err := LoadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, "", err
		}
		return doc, fp, nil
	default:
		return nil, "", &errors.UnsupportedError{Feature: "document format", Reason: name}
	}
}

// Load opens a scripture document from a local path. XML and JSON files
// (optionally .xz-compressed) are loaded through FromBytes; .db and
// .sqlite files open as SQLite documents.
func Load(path string) (Document, string, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", &errors.IOError{Operation: "read", Path: path, Err: err}
		}
		doc, err := OpenSQLite(path)
		if err != nil {
			return nil, "", err
		}
		return doc, Fingerprint(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", &errors.IOError{Operation: "read", Path: path, Err: err}
	}
	return FromBytes(path, data)
}
