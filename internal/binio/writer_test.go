package binio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriter_WriteAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	w := NewWriter(path)
	if !w.IsOpen() {
		t.Fatal("NewWriter did not open the file")
	}
	if !filepath.IsAbs(w.FullPath()) {
		t.Errorf("FullPath should be absolute, got %q", w.FullPath())
	}

	w.Write([]byte("Hello, "))
	w.Write([]byte("bitmap!"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if w.IsOpen() {
		t.Error("IsOpen should be false after Close")
	}
	if w.FullPath() != "" {
		t.Errorf("FullPath should be reset after Close, got %q", w.FullPath())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "Hello, bitmap!" {
		t.Errorf("file content: got %q, want %q", data, "Hello, bitmap!")
	}
}

func TestWriter_OpenTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAA}, 100), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	w := NewWriter(path)
	w.Write([]byte{1, 2, 3})
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("file content: got %v, want [1 2 3]", data)
	}
}

func TestWriter_ReopenClosesPrevious(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.bin")
	second := filepath.Join(dir, "second.bin")

	w := NewWriter(first)
	w.Write([]byte("first"))
	if !w.Open(second) {
		t.Fatal("Open of second file failed")
	}
	w.Write([]byte("second"))
	w.Close()

	data, _ := os.ReadFile(first)
	if string(data) != "first" {
		t.Errorf("first file should be flushed on reopen, got %q", data)
	}
	data, _ = os.ReadFile(second)
	if string(data) != "second" {
		t.Errorf("second file: got %q", data)
	}
}

func TestWriter_OpenInvalidPath(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing", "dir", "out.bin"))
	if w.IsOpen() {
		t.Error("IsOpen should be false for an uncreatable path")
	}
	if w.FullPath() != "" {
		t.Errorf("FullPath should be empty, got %q", w.FullPath())
	}
}

func TestWriter_CloseTwice(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "out.bin"))
	if err := w.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestWriter_WriteWhenClosed(t *testing.T) {
	var w Writer
	w.Write([]byte{1})
	if !errors.Is(w.Err(), ErrNotOpen) {
		t.Errorf("Err: got %v, want ErrNotOpen", w.Err())
	}
}
