package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/bmp-tools/internal/raster"
)

// Crop extracts a rectangular region from an image and optionally scales it.
//
// Parameters:
//   - img: Source image, left unmodified.
//   - r: Region to extract. It must lie inside the image with X1 < X2 and Y1 < Y2.
//   - scale: Zoom factor applied after cropping with Lanczos resampling. A scale
//     of 1.0, or any value <= 0, keeps the cropped size.
//
// Returns:
//   - *raster.Image: The cropped (and possibly scaled) image, origin at (0, 0).
//   - error: Non-nil if the region is invalid or the scale leaves no pixels.
func Crop(img *raster.Image, r Region, scale float64) (*raster.Image, error) {
	bounds := img.Bounds()

	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img.NRGBA(), r.Rect())

	if scale != 1.0 && scale > 0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.3f reduces the crop to nothing", scale)
		}
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	return raster.FromImage(cropped), nil
}

// QuadrantRegion maps a named region to coordinates within a width x height image.
//
// Names: top-left, top-right, bottom-left, bottom-right, top-half, bottom-half,
// left-half, right-half and center (the middle 50%).
func QuadrantRegion(name string, width, height int) (Region, error) {
	midX := width / 2
	midY := height / 2

	switch name {
	case "top-left":
		return Region{0, 0, midX, midY}, nil
	case "top-right":
		return Region{midX, 0, width, midY}, nil
	case "bottom-left":
		return Region{0, midY, midX, height}, nil
	case "bottom-right":
		return Region{midX, midY, width, height}, nil
	case "top-half":
		return Region{0, 0, width, midY}, nil
	case "bottom-half":
		return Region{0, midY, width, height}, nil
	case "left-half":
		return Region{0, 0, midX, height}, nil
	case "right-half":
		return Region{midX, 0, width, height}, nil
	case "center":
		qW := width / 4
		qH := height / 4
		return Region{qW, qH, width - qW, height - qH}, nil
	}
	return Region{}, fmt.Errorf("unknown region: %s", name)
}

// CropQuadrant extracts a named region from an image.
func CropQuadrant(img *raster.Image, name string, scale float64) (*raster.Image, error) {
	r, err := QuadrantRegion(name, img.Width(), img.Height())
	if err != nil {
		return nil, err
	}
	return Crop(img, r, scale)
}

// Resize scales an image to width x height using Lanczos resampling.
//
// Parameters:
//   - img: Source image. Must not be empty.
//   - width, height: Target size. If one is 0 it is derived from the other so
//     the aspect ratio is preserved.
//
// Returns an error if both are 0 or either is negative.
func Resize(img *raster.Image, width, height int) (*raster.Image, error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	if img.IsEmpty() {
		return nil, fmt.Errorf("cannot resize an empty image")
	}
	return raster.FromImage(imaging.Resize(img.NRGBA(), width, height, imaging.Lanczos)), nil
}

// Flip mirrors an image.
//
// Parameters:
//   - img: Source image, left unmodified
//   - horizontal: true swaps left and right, false swaps top and bottom
//
// Returns a new image. Translucent pixels keep their exact channel values.
func Flip(img *raster.Image, horizontal bool) *raster.Image {
	if img.IsEmpty() {
		return raster.Empty()
	}
	if horizontal {
		return raster.FromImage(imaging.FlipH(img.NRGBA()))
	}
	return raster.FromImage(imaging.FlipV(img.NRGBA()))
}

// Invert returns the negative of an image. Alpha is kept.
func Invert(img *raster.Image) *raster.Image {
	if img.IsEmpty() {
		return raster.Empty()
	}
	return raster.FromImage(imaging.Invert(img.NRGBA()))
}

// Grayscale replaces every pixel with its luma (0.299R + 0.587G + 0.114B).
// Alpha is kept.
func Grayscale(img *raster.Image) *raster.Image {
	out := img.Clone()
	pix := out.Pixels()
	for i, c := range pix {
		g := raster.Gray(c.GrayscaleUint8())
		g.A = c.A
		pix[i] = g
	}
	return out
}

// FillRect returns a copy of img with region r painted c.
//
// Parameters:
//   - img: Source image, left unmodified.
//   - r: Region to paint. It is clipped to the image.
//   - c: Fill color. It replaces the pixels, alpha included; nothing is blended.
//
// Returns an error if r misses the image entirely.
func FillRect(img *raster.Image, r Region, c raster.Color) (*raster.Image, error) {
	rect := r.Rect().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) does not overlap the image", r.X1, r.Y1, r.X2, r.Y2)
	}

	out := img.Clone()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := out.Row(y)[rect.Min.X:rect.Max.X]
		for x := range row {
			row[x] = c
		}
	}
	return out, nil
}
