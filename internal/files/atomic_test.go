package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type failingReader struct{ after int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.after <= 0 {
		return 0, errors.New("stream broken")
	}
	n := min(len(p), r.after)
	for i := range n {
		p[i] = 'x'
	}
	r.after -= n
	return n, nil
}

func TestAtomicWrite_WritesBytesExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a_translated.png")
	want := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}

	if err := AtomicWrite(path, want, 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("content mismatch: got %v, want %v", got, want)
	}
}

func TestAtomicWriteFrom_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b_translated.jpg")

	if _, err := AtomicWriteFrom(path, &failingReader{after: 10}, 0644); err == nil {
		t.Fatalf("expected error from broken reader")
	}
	if Exists(path) {
		t.Fatalf("destination must not exist after failed write")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteFrom_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.webp")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := AtomicWriteFrom(path, strings.NewReader("new-bytes"), 0644)
	if err != nil {
		t.Fatalf("AtomicWriteFrom failed: %v", err)
	}
	if n != int64(len("new-bytes")) {
		t.Fatalf("written = %d, want %d", n, len("new-bytes"))
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new-bytes" {
		t.Fatalf("content = %q", got)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if !Exists(dir) {
		t.Fatalf("expected directory to exist")
	}
	if Exists(filepath.Join(dir, "missing.png")) {
		t.Fatalf("expected missing file to be absent")
	}
}
