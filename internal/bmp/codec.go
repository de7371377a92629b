package bmp

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/bmp-tools/internal/binio"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

// Errors returned by Save, Load and Header.Validate.
var (
	ErrEmptyImage        = errors.New("bmp: image is empty")
	ErrOpen              = errors.New("bmp: cannot open file")
	ErrShortWrite        = errors.New("bmp: write failed")
	ErrTruncated         = errors.New("bmp: file is truncated")
	ErrUnsupportedDepth  = errors.New("bmp: unsupported bits per pixel")
	ErrInvalidDimensions = errors.New("bmp: invalid image dimensions")
	ErrBadSignature      = errors.New("bmp: bad signature")
	ErrUnsupportedHeader = errors.New("bmp: unsupported header")
)

// Stride returns the number of bytes one row of the given width occupies on disk.
func Stride(width int) int {
	return width*3 + width%4
}

// Save writes img to path as a bottom-up 24-bit BMP.
//
// The alpha channel is dropped and pad bytes are zero. A nil or empty image
// fails with ErrEmptyImage before anything is created on disk.
func Save(img *raster.Image, path string) error {
	if img == nil || img.IsEmpty() {
		return ErrEmptyImage
	}

	width := img.Width()
	height := img.Height()
	stride := Stride(width)
	size := int64(stride) * int64(height)
	if width > math.MaxInt32 || height > math.MaxInt32 || size > math.MaxUint32-HeaderSize {
		return fmt.Errorf("%w: %dx%d is too large", ErrInvalidDimensions, width, height)
	}

	w := binio.NewWriter(path)
	if !w.IsOpen() {
		return fmt.Errorf("%w: %s", ErrOpen, path)
	}
	defer w.Close()

	header, err := NewHeader(int32(width), int32(height), uint32(size)).MarshalBinary()
	if err != nil {
		return err
	}
	w.Write(header)

	line := make([]byte, stride)
	for y := height - 1; y >= 0; y-- {
		packRow(line, img.Row(y))
		w.Write(line)
	}

	w.Close()
	if err := w.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrShortWrite, err)
	}
	return nil
}

// Encode is Save with a boolean result.
func Encode(img *raster.Image, path string) bool {
	return Save(img, path) == nil
}

// packRow stores row as B,G,R triples at the start of dst and zeroes the rest.
func packRow(dst []byte, row []raster.Color) {
	for x, c := range row {
		dst[x*3] = c.B
		dst[x*3+1] = c.G
		dst[x*3+2] = c.R
	}
	clear(dst[len(row)*3:])
}

// unpackRow reads B,G,R triples from src into row. Alpha is set to 255.
func unpackRow(row []raster.Color, src []byte) {
	for x := range row {
		row[x] = raster.Color{R: src[x*3+2], G: src[x*3+1], B: src[x*3], A: 255}
	}
}

// Load reads a 24-bit BMP file.
//
// Pixel data is read directly after the 54-byte header; the data offset field
// is not consulted. Any failure returns a nil image and a wrapped sentinel error.
func Load(path string) (*raster.Image, error) {
	return load(path, false)
}

// LoadStrict is Load with Header.Validate applied before decoding.
func LoadStrict(path string) (*raster.Image, error) {
	return load(path, true)
}

// Decode is Load returning an empty image on any failure.
func Decode(path string) *raster.Image {
	img, err := Load(path)
	if err != nil {
		return raster.Empty()
	}
	return img
}

// ReadHeader reads and returns only the header of the BMP file at path.
func ReadHeader(path string) (*Header, error) {
	r := binio.NewReader(path)
	if !r.IsOpen() {
		return nil, fmt.Errorf("%w: %s", ErrOpen, path)
	}
	defer r.Close()

	return readHeader(r)
}

func readHeader(r *binio.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if n := r.Read(buf); n != HeaderSize {
		return nil, fmt.Errorf("%w: header is %d of %d bytes", ErrTruncated, n, HeaderSize)
	}

	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return &h, nil
}

func load(path string, strict bool) (*raster.Image, error) {
	r := binio.NewReader(path)
	if !r.IsOpen() {
		return nil, fmt.Errorf("%w: %s", ErrOpen, path)
	}
	defer r.Close()

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := h.Validate(); err != nil {
			return nil, err
		}
	}

	// Positive height: rows are stored bottom-up.
	reverse := !h.TopDown()
	width := int(h.Width)
	height := h.PixelHeight()

	if h.BitCount != BitsPerPixel {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, h.BitCount)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}

	// Compare by division so hostile dimensions cannot overflow.
	stride := Stride(width)
	avail := r.Size() - HeaderSize
	if int64(height) > avail/int64(stride) {
		return nil, fmt.Errorf("%w: %d rows of %d bytes, file has %d bytes of pixel data", ErrTruncated, height, stride, avail)
	}
	if int64(width) > math.MaxInt/int64(height) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	img := raster.New(width, height, raster.White)
	line := make([]byte, stride)

	dstY, step := 0, 1
	if reverse {
		dstY, step = height-1, -1
	}

	for y := 0; y < height; y++ {
		// Only reachable when the file shrinks after the size check.
		if n := r.Read(line); n != stride {
			return nil, fmt.Errorf("%w: row %d is %d of %d bytes", ErrTruncated, y, n, stride)
		}
		unpackRow(img.Row(dstY), line)
		dstY += step
	}

	return img, nil
}
