package bmp

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the combined size of the file header and the info header.
	HeaderSize = 54

	// FileType is the signature "BM" read as a little-endian uint16.
	FileType uint16 = 0x4D42

	// InfoHeaderSize is the size of a BITMAPINFOHEADER.
	InfoHeaderSize = 40

	// BitsPerPixel is the only pixel depth this codec reads or writes.
	BitsPerPixel = 24
)

// Header is the 54-byte BMP file header followed by the BITMAPINFOHEADER.
//
// See https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapinfoheader
type Header struct {
	Type            uint16 // File type: must be 0x4D42 ("BM").
	FileSize        uint32 // Size of the whole file in bytes.
	Reserved1       uint16 // Reserved; zero.
	Reserved2       uint16 // Reserved; zero.
	DataOffset      uint32 // Offset from the start of the file to the pixel data.
	InfoSize        uint32 // Size of the info header (40).
	Width           int32  // Width in pixels.
	Height          int32  // Height in pixels; negative means rows are stored top-down.
	Planes          uint16 // Number of planes; always 1.
	BitCount        uint16 // Bits per pixel.
	Compression     uint32 // Compression method; 0 is uncompressed.
	ImageSize       uint32 // Size of the pixel data in bytes.
	XPixelsPerMeter int32  // Horizontal resolution.
	YPixelsPerMeter int32  // Vertical resolution.
	ColorsUsed      uint32 // Number of colour table entries used.
	ColorsImportant uint32 // Number of colour table entries required.
}

// NewHeader returns the header written for a bottom-up 24-bit image with
// imageSize bytes of pixel data.
func NewHeader(width, height int32, imageSize uint32) Header {
	return Header{
		Type:       FileType,
		FileSize:   HeaderSize + imageSize,
		DataOffset: HeaderSize,
		InfoSize:   InfoHeaderSize,
		Width:      width,
		Height:     height,
		Planes:     1,
		BitCount:   BitsPerPixel,
		ImageSize:  imageSize,
	}
}

// MarshalBinary encodes h into exactly HeaderSize little-endian bytes.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	le := binary.LittleEndian

	le.PutUint16(buf[0:], h.Type)
	le.PutUint32(buf[2:], h.FileSize)
	le.PutUint16(buf[6:], h.Reserved1)
	le.PutUint16(buf[8:], h.Reserved2)
	le.PutUint32(buf[10:], h.DataOffset)
	le.PutUint32(buf[14:], h.InfoSize)
	le.PutUint32(buf[18:], uint32(h.Width))
	le.PutUint32(buf[22:], uint32(h.Height))
	le.PutUint16(buf[26:], h.Planes)
	le.PutUint16(buf[28:], h.BitCount)
	le.PutUint32(buf[30:], h.Compression)
	le.PutUint32(buf[34:], h.ImageSize)
	le.PutUint32(buf[38:], uint32(h.XPixelsPerMeter))
	le.PutUint32(buf[42:], uint32(h.YPixelsPerMeter))
	le.PutUint32(buf[46:], h.ColorsUsed)
	le.PutUint32(buf[50:], h.ColorsImportant)

	return buf, nil
}

// UnmarshalBinary decodes the first HeaderSize bytes of data into h.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncated, HeaderSize, len(data))
	}
	le := binary.LittleEndian

	h.Type = le.Uint16(data[0:])
	h.FileSize = le.Uint32(data[2:])
	h.Reserved1 = le.Uint16(data[6:])
	h.Reserved2 = le.Uint16(data[8:])
	h.DataOffset = le.Uint32(data[10:])
	h.InfoSize = le.Uint32(data[14:])
	h.Width = int32(le.Uint32(data[18:]))
	h.Height = int32(le.Uint32(data[22:]))
	h.Planes = le.Uint16(data[26:])
	h.BitCount = le.Uint16(data[28:])
	h.Compression = le.Uint32(data[30:])
	h.ImageSize = le.Uint32(data[34:])
	h.XPixelsPerMeter = int32(le.Uint32(data[38:]))
	h.YPixelsPerMeter = int32(le.Uint32(data[42:]))
	h.ColorsUsed = le.Uint32(data[46:])
	h.ColorsImportant = le.Uint32(data[50:])

	return nil
}

// TopDown reports whether rows are stored top-to-bottom (negative height).
func (h Header) TopDown() bool {
	return h.Height < 0
}

// PixelHeight returns the absolute image height.
func (h Header) PixelHeight() int {
	if h.Height < 0 {
		return -int(h.Height)
	}
	return int(h.Height)
}

// Validate checks every field Load ignores.
//
// It rejects a wrong signature, depths other than 24 bits, an info header
// other than BITMAPINFOHEADER, pixel data that does not start right after the
// header, planes other than 1, compression, a colour table, and non-positive
// dimensions. A file that is not 24-bit always fails with ErrUnsupportedDepth,
// whatever else its header says.
func (h Header) Validate() error {
	if h.Type != FileType {
		return fmt.Errorf("%w: 0x%04X", ErrBadSignature, h.Type)
	}
	// Depth first, so callers can hand other depths to a general decoder.
	if h.BitCount != BitsPerPixel {
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedDepth, h.BitCount)
	}
	if h.InfoSize != InfoHeaderSize {
		return fmt.Errorf("%w: info header size %d", ErrUnsupportedHeader, h.InfoSize)
	}
	if h.DataOffset != HeaderSize {
		return fmt.Errorf("%w: pixel data offset %d", ErrUnsupportedHeader, h.DataOffset)
	}
	if h.Planes != 1 {
		return fmt.Errorf("%w: %d planes", ErrUnsupportedHeader, h.Planes)
	}
	if h.Compression != 0 {
		return fmt.Errorf("%w: compression %d", ErrUnsupportedHeader, h.Compression)
	}
	if h.ColorsUsed != 0 {
		return fmt.Errorf("%w: %d colour table entries", ErrUnsupportedHeader, h.ColorsUsed)
	}
	if h.Width <= 0 || h.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}
	return nil
}
