package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/bmp-tools/internal/raster"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
	Gray uint8     `json:"gray"` // Luma with 0.299/0.587/0.114 weighting
}

// NewColorResult describes c in every representation ColorResult carries.
func NewColorResult(c raster.Color) ColorResult {
	return ColorResult{
		Hex:  c.Hex(),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  toHSL(c),
		Gray: c.GrayscaleUint8(),
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: Source image. Any image.Image is accepted; its color is converted to
//     a non-premultiplied raster.Color before reporting.
//   - x: Horizontal coordinate (0 = left edge).
//   - y: Vertical coordinate (0 = top edge).
//
// Returns:
//   - *ColorResult: The color as hex, RGB, RGBA, HSL and gray.
//   - error: Non-nil if (x, y) is outside the image bounds.
//
// Coordinates are relative to img.Bounds().Min, which is (0, 0) for every
// image this package produces.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := raster.Model.Convert(img.At(x, y)).(raster.Color)
	res := NewColorResult(c)
	return &res, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples from multiple points, in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a single call.
//
// Parameters:
//   - img: Source image.
//   - points: Coordinates to sample, each with an optional label that is copied
//     into the result.
//
// Returns:
//   - *MultiColorResult: One sample per point, in input order.
//   - error: Non-nil if any point is outside the image. No partial results are
//     returned in that case.
func SampleColorsMulti(img image.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is inclusive and (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns r as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Width returns X2 - X1.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns Y2 - Y1.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts the N most common colors from an image or region.
//
// Parameters:
//   - img: Source image.
//   - count: Maximum number of colors to return. Must be positive.
//   - region: Area to analyze, or nil for the whole image. It is clipped to the
//     image bounds and must not be empty after clipping.
//
// Returns:
//   - *DominantColorsResult: Up to count colors, most frequent first.
//   - error: Non-nil for a non-positive count or an empty region.
//
// # Quantization
//
// Components are quantized to multiples of 16 before counting, so #F0F0F0 and
// #FAFAFA are counted as the same color. Ties are broken by hex value so the
// result is deterministic.
func DominantColors(img image.Image, count int, region *Region) (*DominantColorsResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	bounds := img.Bounds()
	if region != nil {
		bounds = region.Rect().Intersect(bounds)
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("region contains no pixels")
	}

	counts := make(map[raster.Color]int)
	totalPixels := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := raster.Model.Convert(img.At(x, y)).(raster.Color)
			q := raster.RGB(c.R/16*16, c.G/16*16, c.B/16*16)
			counts[q]++
			totalPixels++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, cnt := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(cnt) / float64(totalPixels) * 100,
			RGB:        RGBColor{R: c.R, G: c.G, B: c.B},
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

// toHSL rounds go-colorful's HSL to whole degrees and percentages.
func toHSL(c raster.Color) HSLColor {
	h, s, l := c.HSL()
	hue := int(math.Round(h)) % 360
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
