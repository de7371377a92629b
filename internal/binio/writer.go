package binio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotOpen is recorded when writing to a Writer that holds no file.
var ErrNotOpen = errors.New("binio: file is not open")

// Writer writes raw bytes to a file opened for binary output.
//
// The zero value is a closed Writer ready for Open.
type Writer struct {
	file     *os.File
	buf      *bufio.Writer
	fullPath string
	err      error
}

// NewWriter creates a Writer and opens path for writing.
//
// The returned Writer is never nil; use IsOpen to check whether the file
// was created.
func NewWriter(path string) *Writer {
	w := &Writer{}
	w.Open(path)
	return w
}

// Open creates or truncates the file at path.
//
// Any file already held by the Writer is closed first, and the recorded
// write error is reset. Returns false if the file cannot be created
// (missing parent directory, permissions, invalid path).
func (w *Writer) Open(path string) bool {
	if w.file != nil {
		_ = w.Close()
	}
	w.err = nil

	f, err := os.Create(path)
	if err != nil {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w.file = f
	w.buf = bufio.NewWriter(f)
	w.fullPath = abs
	return true
}

// IsOpen reports whether the Writer currently holds a file.
func (w *Writer) IsOpen() bool {
	return w.file != nil
}

// Write writes all of p to the file.
//
// Write has no return value. The first failure is kept and returned by Err;
// once a failure is recorded, further writes are dropped.
func (w *Writer) Write(p []byte) {
	if w.err != nil {
		return
	}
	if w.file == nil {
		w.err = ErrNotOpen
		return
	}
	if _, err := w.buf.Write(p); err != nil {
		w.err = fmt.Errorf("binio: write %s: %w", w.fullPath, err)
	}
}

// Err returns the first write or flush failure since the last Open.
func (w *Writer) Err() error {
	return w.err
}

// Close flushes buffered data and releases the file.
//
// Calling Close on a closed Writer is a no-op and returns nil.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.buf.Flush()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		err = fmt.Errorf("binio: close %s: %w", w.fullPath, err)
		if w.err == nil {
			w.err = err
		}
	}

	w.file = nil
	w.buf = nil
	w.fullPath = ""
	return err
}

// FullPath returns the absolute path of the open file, or "" when closed.
func (w *Writer) FullPath() string {
	return w.fullPath
}
