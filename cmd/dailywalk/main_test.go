package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dailywalk/dailywalk/internal/gateway"
)

func TestParseCmdUnparseable(t *testing.T) {
	cmd := &ParseCmd{Citation: "not a citation"}
	if err := cmd.Run(); err == nil {
		t.Error("expected error for unparseable citation")
	}
}

func TestConvertCmd(t *testing.T) {
	cmd := &ConvertCmd{Numeral: "一百零二"}
	if err := cmd.Run(); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestRenderCmdMissingData(t *testing.T) {
	cmd := &RenderCmd{Citation: "创一章", Data: filepath.Join(t.TempDir(), "missing.xml")}
	if err := cmd.Run(); err == nil {
		t.Error("expected error for missing data file")
	}
}

func TestRenderCmd(t *testing.T) {
	const xml = `<bible><book number="1"><chapter number="1">` +
		`<verse number="1">起初神创造天地。</verse></chapter></book></bible>`
	path := filepath.Join(t.TempDir(), "bible.xml")
	if err := os.WriteFile(path, []byte(xml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := &RenderCmd{Citation: "创一章", Data: path}
	if err := cmd.Run(); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestInstallCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "shell")
	})
	mux.HandleFunc("/bible.xml", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<bible/>")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	dir := t.TempDir()
	cmd := &InstallCmd{
		Upstream: ts.URL,
		CacheDir: dir,
		Version:  "v1",
		DataPath: "/bible.xml",
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The manifest is retrievable from the store without the network.
	store, err := gateway.NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	bucket, err := store.Open("v1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, key := range []string{"/", "/bible.xml"} {
		if _, err := bucket.Get(key); err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
	}
}
