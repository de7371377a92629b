package raster

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied RGBA color with 8-bit channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	// Black is opaque black.
	Black = Color{0, 0, 0, 255}

	// White is opaque white. New images are commonly filled with it.
	White = Color{255, 255, 255, 255}
)

// RGB returns an opaque color from red, green and blue components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Gray returns an opaque color with all three components set to v.
func Gray(v uint8) Color {
	return Color{R: v, G: v, B: v, A: 255}
}

// RGBA implements color.Color. The returned values are alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// GrayscaleUint8 returns the ITU-R BT.601 luma of c (0.299R + 0.587G + 0.114B).
func (c Color) GrayscaleUint8() uint8 {
	return uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
}

// Grayscale returns the luma of c scaled to [0, 1].
func (c Color) Grayscale() float64 {
	return 0.299/255.0*float64(c.R) + 0.587/255.0*float64(c.G) + 0.114/255.0*float64(c.B)
}

// Hex returns c as "#RRGGBB". Alpha is not included.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HSL returns hue in degrees [0, 360), and saturation and lightness in [0, 1].
func (c Color) HSL() (h, s, l float64) {
	return c.colorful().Hsl()
}

// DistanceLab returns the CIE L*a*b* distance between c and o, ignoring alpha.
func (c Color) DistanceLab(o Color) float64 {
	return c.colorful().DistanceLab(o.colorful())
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
// Alpha defaults to 255 for the six-digit form.
func ParseHex(hex string) (Color, error) {
	if len(hex) == 0 {
		return Color{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return RGB(uint8(val>>16), uint8(val>>8), uint8(val)), nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return Color{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %d", len(hex))
	}
}

// Model converts any color.Color to a Color.
var Model color.Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if rc, ok := c.(Color); ok {
		return rc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
