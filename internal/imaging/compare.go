package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/bmp-tools/internal/raster"
)

// Size is a width and height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// diffThreshold is the mean per-channel difference above which a pixel counts as different.
const diffThreshold = 10

// CompareResult contains pixel difference statistics between two regions.
type CompareResult struct {
	SimilarityScore  float64 `json:"similarity_score"`
	PixelsDifferent  int     `json:"pixels_different"`
	PixelsExact      int     `json:"pixels_exact"`
	TotalPixels      int     `json:"total_pixels"`
	SameSize         bool    `json:"same_size"`
	Identical        bool    `json:"identical"`
	Size1            Size    `json:"size1"`
	Size2            Size    `json:"size2"`
	AverageColorDiff float64 `json:"average_color_diff"`
	MaxChannelDiff   int     `json:"max_channel_diff"`
	MeanDeltaE       float64 `json:"mean_delta_e"` // Mean CIE L*a*b* distance
}

// Compare compares two whole images.
//
// Only the overlapping top-left area is compared when the sizes differ. See
// CompareRegions for the statistics reported.
func Compare(a, b *raster.Image) (*CompareResult, error) {
	return CompareRegions(a, Region{0, 0, a.Width(), a.Height()}, b, Region{0, 0, b.Width(), b.Height()})
}

// CompareRegions compares region r1 of a with region r2 of b pixel by pixel.
//
// Parameters:
//   - a, r1: First image and the region of it to compare.
//   - b, r2: Second image and its region.
//
// Returns:
//   - *CompareResult: Counts of differing pixels, similarity in percent, the
//     mean and max channel difference, and the mean CIE L*a*b* distance.
//   - error: Non-nil if either region is empty or outside its image.
//
// # Matching
//
// The compared area is the smaller of the two regions in each dimension,
// anchored at each region's top-left corner. A pixel differs when its mean
// channel difference exceeds 10. Alpha is ignored.
func CompareRegions(a *raster.Image, r1 Region, b *raster.Image, r2 Region) (*CompareResult, error) {
	if err := checkRegion(a, r1); err != nil {
		return nil, fmt.Errorf("first region: %w", err)
	}
	if err := checkRegion(b, r2); err != nil {
		return nil, fmt.Errorf("second region: %w", err)
	}

	minW := min(r1.Width(), r2.Width())
	minH := min(r1.Height(), r2.Height())

	totalPixels := minW * minH
	pixelsDifferent := 0
	pixelsExact := 0
	maxDiff := 0
	var totalColorDiff, totalDeltaE float64

	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			c1 := a.ColorAt(r1.X1+dx, r1.Y1+dy)
			c2 := b.ColorAt(r2.X1+dx, r2.Y1+dy)

			dr := absDiff(c1.R, c2.R)
			dg := absDiff(c1.G, c2.G)
			db := absDiff(c1.B, c2.B)
			maxDiff = max(maxDiff, dr, dg, db)

			diff := float64(dr+dg+db) / 3.0
			totalColorDiff += diff
			if diff > diffThreshold {
				pixelsDifferent++
			}
			if dr+dg+db == 0 {
				pixelsExact++
				continue
			}
			totalDeltaE += c1.DistanceLab(c2)
		}
	}

	sameSize := r1.Width() == r2.Width() && r1.Height() == r2.Height()
	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)

	return &CompareResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		PixelsExact:      pixelsExact,
		TotalPixels:      totalPixels,
		SameSize:         sameSize,
		Identical:        sameSize && pixelsExact == totalPixels,
		Size1:            Size{Width: r1.Width(), Height: r1.Height()},
		Size2:            Size{Width: r2.Width(), Height: r2.Height()},
		AverageColorDiff: math.Round(totalColorDiff/float64(totalPixels)*100) / 100,
		MaxChannelDiff:   maxDiff,
		MeanDeltaE:       math.Round(totalDeltaE/float64(totalPixels)*10000) / 10000,
	}, nil
}

func checkRegion(img *raster.Image, r Region) error {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region (%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
	}
	if !r.Rect().In(img.Bounds()) {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.X1, r.Y1, r.X2, r.Y2, img.Width(), img.Height())
	}
	return nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
