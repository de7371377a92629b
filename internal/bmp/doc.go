// Package bmp reads and writes 24-bit uncompressed Windows Bitmap files.
//
// The codec translates between a raster.Image and the on-disk layout: a fixed
// 54-byte little-endian header followed by rows of B,G,R pixel triples.
//
// # Row Stride
//
// Every row occupies Stride(width) = width*3 + width%4 bytes. Since 3w and -w
// are congruent mod 4, this is always the usual 4-byte aligned row size, so
// files written here open in other BMP readers and vice versa.
//
// # Row Order
//
// Save always writes a positive height, meaning rows are stored bottom-up.
// Load honours both orders: a positive height places the first stored row at
// image row height-1, a negative height places it at row 0.
//
// # Failure Handling
//
// Save and Load return wrapped sentinel errors (ErrEmptyImage, ErrOpen,
// ErrShortWrite, ErrTruncated, ErrUnsupportedDepth, ErrInvalidDimensions) that
// can be tested with errors.Is. Encode and Decode collapse them into a single
// failure value: false, or an empty image. No partial image is ever returned.
// A failed Save may leave a truncated file on disk.
//
// Load is lenient: it rejects any depth other than 24 bits but does not check
// the signature, compression or colour table fields. LoadStrict runs
// Header.Validate first.
package bmp
