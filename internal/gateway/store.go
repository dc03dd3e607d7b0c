package gateway

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zeebo/blake3"

	dwerrors "github.com/dailywalk/dailywalk/core/errors"
)

// Entry is one cached response keyed by request identity. The digest covers
// the body so a torn or tampered entry reads back as a cache miss instead of
// corrupt content.
type Entry struct {
	Key      string      `json:"key"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	Digest   string      `json:"digest"`
	StoredAt time.Time   `json:"stored_at"`
}

// bodyDigest returns the hex blake3 digest of b.
func bodyDigest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// seal stamps the entry with its body digest and storage time.
func (e *Entry) seal() {
	e.Digest = bodyDigest(e.Body)
	e.StoredAt = time.Now().UTC()
}

// verify checks the body against the stored digest.
func (e *Entry) verify() error {
	if e.Digest != bodyDigest(e.Body) {
		return &dwerrors.NotFoundError{Resource: "cache entry", ID: e.Key, Err: dwerrors.ErrInvalidInput}
	}
	return nil
}

// Response reconstructs an http.Response from the entry. The body is an
// in-memory reader, so callers may close it freely.
func (e Entry) Response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// snapshotEntry drains resp into an Entry. The response body is consumed and
// closed; callers serve the entry's Response afterwards.
func snapshotEntry(key string, resp *http.Response) (Entry, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, dwerrors.NewIO("read response", key, err)
	}
	return Entry{
		Key:    key,
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

// Store is a collection of version-named buckets. Isolation across cache
// versions comes from the naming, not from locking.
type Store interface {
	// Open returns the bucket named version, creating it if needed.
	Open(version string) (Bucket, error)
	// List returns the names of all existing buckets.
	List() ([]string, error)
	// Delete removes the named bucket and all its entries.
	Delete(version string) error
}

// Bucket holds the cached entries of one version.
type Bucket interface {
	// Get returns the entry for key. A missing or corrupt entry yields an
	// error unwrapping to errors.ErrNotFound.
	Get(key string) (Entry, error)
	// Put stores or overwrites the entry under its key, stamping its body
	// digest and storage time.
	Put(e Entry) error
	// Keys returns all entry keys in the bucket.
	Keys() ([]string, error)
}
