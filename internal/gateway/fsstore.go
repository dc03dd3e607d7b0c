package gateway

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	dwerrors "github.com/dailywalk/dailywalk/core/errors"
)

// FSStore persists cache buckets on disk: one directory per version under
// the root, one JSON file per entry. Entry files are named by the blake3
// digest of the request key, so arbitrary URL paths never leak into
// filesystem paths.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, dwerrors.NewValidation("dir", "cache directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dwerrors.NewIO("create", dir, err)
	}
	return &FSStore{root: dir}, nil
}

// Open returns the bucket named version, creating its directory if needed.
func (s *FSStore) Open(version string) (Bucket, error) {
	if version == "" {
		return nil, dwerrors.NewValidation("version", "bucket version must not be empty")
	}
	dir := filepath.Join(s.root, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dwerrors.NewIO("create", dir, err)
	}
	return &fsBucket{dir: dir}, nil
}

// List returns the names of all version directories.
func (s *FSStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, dwerrors.NewIO("read", s.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Delete removes the named version directory and everything in it.
func (s *FSStore) Delete(version string) error {
	if err := os.RemoveAll(filepath.Join(s.root, version)); err != nil {
		return dwerrors.NewIO("delete", version, err)
	}
	return nil
}

type fsBucket struct {
	dir string
}

// entryPath maps a request key to its on-disk file.
func (b *fsBucket) entryPath(key string) string {
	sum := blake3.Sum256([]byte(key))
	return filepath.Join(b.dir, hex.EncodeToString(sum[:])+".json")
}

func (b *fsBucket) Get(key string) (Entry, error) {
	path := b.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, dwerrors.NewNotFound("cache entry", key)
		}
		return Entry{}, dwerrors.NewIO("read", path, err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Torn write or manual edit: drop it and report a miss.
		_ = os.Remove(path)
		return Entry{}, &dwerrors.NotFoundError{Resource: "cache entry", ID: key, Err: err}
	}
	if err := e.verify(); err != nil {
		_ = os.Remove(path)
		return Entry{}, err
	}
	return e, nil
}

func (b *fsBucket) Put(e Entry) error {
	e.seal()
	data, err := json.Marshal(e)
	if err != nil {
		return dwerrors.Wrap(err, "encode cache entry")
	}
	path := b.entryPath(e.Key)
	// Write-then-rename so a reader never sees a half-written entry.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return dwerrors.NewIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return dwerrors.NewIO("rename", path, err)
	}
	return nil
}

func (b *fsBucket) Keys() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, dwerrors.NewIO("read", b.dir, err)
	}
	var keys []string
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(b.dir, de.Name()))
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		keys = append(keys, e.Key)
	}
	return keys, nil
}
