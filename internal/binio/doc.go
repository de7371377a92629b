// Package binio provides sequential binary file access for the BMP codec.
//
// Writer and Reader each own exactly one *os.File. They are deliberately small:
// a Writer never returns an error from Write, and a Reader never returns an error
// from Read. Instead, callers inspect the stream after the fact.
//
// # Short Reads
//
// Reader.Read returns the number of bytes actually transferred. A count smaller
// than the requested length means the file ended (or the read failed) and is the
// only failure signal. The BMP decoder relies on this to abort on truncated files.
//
// # Write Failures
//
// Writer.Write records the first failure and ignores subsequent writes. The
// recorded error is available from Writer.Err, and Writer.Close reports any
// failure to flush buffered data.
//
// # Thread Safety
//
// Handles are not safe for concurrent use. Each codec call opens its own handle.
package binio
