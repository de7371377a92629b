package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/ironsheep/bmp-tools/internal/raster"
)

// DefaultGridColor is semi-transparent red.
var DefaultGridColor = raster.Color{R: 255, G: 0, B: 0, A: 128}

var (
	labelColor   = raster.White
	labelBgColor = raster.Color{R: 0, G: 0, B: 0, A: 180}
)

// GridOverlay returns a copy of img with grid lines every spacing pixels.
//
// Parameters:
//   - img: Source image, left unmodified.
//   - spacing: Distance between lines in pixels. Must be positive.
//   - showCoordinates: Label each intersection "x,y" in a 3x5 pixel font.
//   - lineColor: Line color. It is composited over the image, so a translucent
//     color lets the pixels underneath show through.
//
// Returns an error for a non-positive spacing.
func GridOverlay(img *raster.Image, spacing int, showCoordinates bool, lineColor raster.Color) (*raster.Image, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}

	out := img.Clone()
	width, height := out.Width(), out.Height()
	line := image.NewUniform(lineColor)

	for x := spacing; x < width; x += spacing {
		draw.Draw(out, image.Rect(x, 0, x+1, height), line, image.Point{}, draw.Over)
	}
	for y := spacing; y < height; y += spacing {
		draw.Draw(out, image.Rect(0, y, width, y+1), line, image.Point{}, draw.Over)
	}

	if showCoordinates {
		for y := spacing; y < height; y += spacing {
			for x := spacing; x < width; x += spacing {
				drawLabel(out, x+2, y+2, fmt.Sprintf("%d,%d", x, y), labelColor, labelBgColor)
			}
		}
	}

	return out, nil
}

// glyphs is a 3x5 pixel font covering digits and the comma.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

const (
	glyphAdvance = 4
	labelHeight  = 7
)

// drawLabel paints text with its top-left corner at (x, y) over a background box.
// Runes without a glyph leave a blank cell. Pixels outside the image are skipped.
func drawLabel(img *raster.Image, x, y int, text string, fg, bg raster.Color) {
	box := image.Rect(x-1, y-1, x+len(text)*glyphAdvance, y+labelHeight)
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, bits := range glyph {
				for col, bit := range bits {
					if bit == '1' {
						img.SetColor(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += glyphAdvance
	}
}
