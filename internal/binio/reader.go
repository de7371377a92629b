package binio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// Reader reads raw bytes from a file opened for binary input.
//
// The zero value is a closed Reader ready for Open.
type Reader struct {
	file     *os.File
	buf      *bufio.Reader
	size     int64
	fullPath string
}

// NewReader creates a Reader and opens path for reading.
//
// The returned Reader is never nil; use IsOpen to check whether the file
// was opened.
func NewReader(path string) *Reader {
	r := &Reader{}
	r.Open(path)
	return r
}

// Open opens the file at path and caches its total size.
//
// Any file already held by the Reader is closed first. Returns false if the
// path does not exist, is a directory, or cannot be read.
func (r *Reader) Open(path string) bool {
	if r.file != nil {
		_ = r.Close()
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}

	stat, err := f.Stat()
	if err != nil || stat.IsDir() {
		f.Close()
		return false
	}

	size, err := fileSize(f)
	if err != nil {
		f.Close()
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	r.file = f
	r.buf = bufio.NewReader(f)
	r.size = size
	r.fullPath = abs
	return true
}

// fileSize seeks to the end of f and restores the original position.
func fileSize(f *os.File) (int64, error) {
	cur, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := f.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

// IsOpen reports whether the Reader currently holds a file.
func (r *Reader) IsOpen() bool {
	return r.file != nil
}

// Read fills p with up to len(p) bytes and returns the count transferred.
//
// A return value smaller than len(p) means end of file or a read failure;
// Read reports nothing else. Returns 0 when the Reader is closed.
func (r *Reader) Read(p []byte) int {
	if r.file == nil {
		return 0
	}
	n, _ := io.ReadFull(r.buf, p)
	return n
}

// Size returns the cached file size in bytes, or 0 when no file is open.
func (r *Reader) Size() int64 {
	return r.size
}

// Close releases the file. Calling Close on a closed Reader returns nil.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.buf = nil
	r.size = 0
	r.fullPath = ""
	return err
}

// FullPath returns the absolute path of the open file, or "" when closed.
func (r *Reader) FullPath() string {
	return r.fullPath
}
