package raster

import (
	"image"
	"image/color"
	"slices"
)

// Image is a row-major RGBA pixel buffer with its origin at the top-left.
//
// The zero value is an empty image.
type Image struct {
	pix    []Color
	width  int
	height int
}

// New creates a width x height image with every pixel set to fill.
//
// If either dimension is not positive the result is an empty image.
func New(width, height int, fill Color) *Image {
	m := &Image{}
	m.Resize(width, height, fill)
	return m
}

// Empty returns an image with no pixels.
func Empty() *Image {
	return &Image{}
}

// FromImage copies any image.Image into a new Image.
//
// The source bounds are translated so the result's origin is (0, 0).
func FromImage(src image.Image) *Image {
	if m, ok := src.(*Image); ok {
		return m.Clone()
	}

	b := src.Bounds()
	m := New(b.Dx(), b.Dy(), Color{})
	if m.IsEmpty() {
		return m
	}

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < m.height; y++ {
			row := m.Row(y)
			off := n.PixOffset(b.Min.X, b.Min.Y+y)
			for x := range row {
				p := n.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
				row[x] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
			}
		}
		return m
	}

	for y := 0; y < m.height; y++ {
		row := m.Row(y)
		for x := range row {
			row[x] = convert(src.At(b.Min.X+x, b.Min.Y+y)).(Color)
		}
	}
	return m
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.height }

// NumPixels returns width*height.
func (m *Image) NumPixels() int { return len(m.pix) }

// IsEmpty reports whether the image holds no pixels.
func (m *Image) IsEmpty() bool { return len(m.pix) == 0 }

// Pixels returns the underlying row-major pixel slice.
func (m *Image) Pixels() []Color { return m.pix }

// Row returns row y as a slice sharing storage with the image.
//
// Row panics if y is outside [0, Height()).
func (m *Image) Row(y int) []Color {
	return m.pix[y*m.width : (y+1)*m.width : (y+1)*m.width]
}

// ColorAt returns the pixel at (x, y), or the zero Color when out of bounds.
func (m *Image) ColorAt(x, y int) Color {
	if !m.inBounds(x, y) {
		return Color{}
	}
	return m.pix[y*m.width+x]
}

// SetColor sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (m *Image) SetColor(x, y int, c Color) {
	if !m.inBounds(x, y) {
		return
	}
	m.pix[y*m.width+x] = c
}

func (m *Image) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Fill sets every pixel to c.
func (m *Image) Fill(c Color) {
	for i := range m.pix {
		m.pix[i] = c
	}
}

// Clear releases the pixels and makes the image empty.
func (m *Image) Clear() {
	m.pix = nil
	m.width = 0
	m.height = 0
}

// Resize discards the current contents and reallocates the image as
// width x height filled with fill. Non-positive dimensions empty the image.
func (m *Image) Resize(width, height int, fill Color) {
	if width <= 0 || height <= 0 {
		m.Clear()
		return
	}
	m.pix = make([]Color, width*height)
	m.width = width
	m.height = height
	m.Fill(fill)
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	return &Image{
		pix:    slices.Clone(m.pix),
		width:  m.width,
		height: m.height,
	}
}

// Equal reports whether both images have the same dimensions and pixels.
func (m *Image) Equal(o *Image) bool {
	return m.width == o.width && m.height == o.height && slices.Equal(m.pix, o.pix)
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return Model }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

// At implements image.Image.
func (m *Image) At(x, y int) color.Color { return m.ColorAt(x, y) }

// Set implements draw.Image.
func (m *Image) Set(x, y int, c color.Color) {
	m.SetColor(x, y, convert(c).(Color))
}

// NRGBA copies the image into a non-premultiplied *image.NRGBA.
func (m *Image) NRGBA() *image.NRGBA {
	n := image.NewNRGBA(m.Bounds())
	for i, c := range m.pix {
		n.Pix[i*4+0] = c.R
		n.Pix[i*4+1] = c.G
		n.Pix[i*4+2] = c.B
		n.Pix[i*4+3] = c.A
	}
	return n
}
