package imaging

import (
	"testing"

	"github.com/ironsheep/bmp-tools/internal/raster"
)

func TestCompare_Identical(t *testing.T) {
	img := createPatternImage(20, 20)

	result, err := Compare(img, img.Clone())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if !result.Identical || !result.SameSize {
		t.Errorf("expected identical same-size images, got %+v", result)
	}
	if result.SimilarityScore != 1.0 {
		t.Errorf("SimilarityScore: got %f, want 1.0", result.SimilarityScore)
	}
	if result.PixelsDifferent != 0 || result.PixelsExact != 400 || result.TotalPixels != 400 {
		t.Errorf("counts: got different=%d exact=%d total=%d", result.PixelsDifferent, result.PixelsExact, result.TotalPixels)
	}
	if result.MeanDeltaE != 0 || result.MaxChannelDiff != 0 || result.AverageColorDiff != 0 {
		t.Errorf("expected no difference, got %+v", result)
	}
}

func TestCompare_HalfDifferent(t *testing.T) {
	a := raster.New(10, 10, raster.White)
	b, err := FillRect(a, Region{0, 0, 10, 5}, raster.Black)
	if err != nil {
		t.Fatal(err)
	}

	result, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if result.Identical {
		t.Error("images should not be identical")
	}
	if result.PixelsDifferent != 50 || result.PixelsExact != 50 {
		t.Errorf("counts: got different=%d exact=%d, want 50/50", result.PixelsDifferent, result.PixelsExact)
	}
	if result.SimilarityScore != 0.5 {
		t.Errorf("SimilarityScore: got %f, want 0.5", result.SimilarityScore)
	}
	if result.MaxChannelDiff != 255 {
		t.Errorf("MaxChannelDiff: got %d, want 255", result.MaxChannelDiff)
	}
	if result.AverageColorDiff != 127.5 {
		t.Errorf("AverageColorDiff: got %f, want 127.5", result.AverageColorDiff)
	}
	// Black to white is the full L* range; go-colorful scales L* to [0, 1].
	if result.MeanDeltaE < 0.45 || result.MeanDeltaE > 0.55 {
		t.Errorf("MeanDeltaE: got %f, want about 0.5", result.MeanDeltaE)
	}
}

func TestCompare_SmallDifferenceBelowThreshold(t *testing.T) {
	a := raster.New(4, 4, raster.Gray(100))
	b := raster.New(4, 4, raster.Gray(105))

	result, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.PixelsDifferent != 0 || result.SimilarityScore != 1.0 {
		t.Errorf("a 5-level shift should not count as different: %+v", result)
	}
	if result.PixelsExact != 0 || result.MeanDeltaE == 0 {
		t.Errorf("a 5-level shift should still be measured: %+v", result)
	}
}

func TestCompare_DifferentSizes(t *testing.T) {
	a := raster.New(10, 6, raster.White)
	b := raster.New(4, 8, raster.White)

	result, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.SameSize || result.Identical {
		t.Error("different sizes reported as same")
	}
	if result.TotalPixels != 24 {
		t.Errorf("TotalPixels: got %d, want 24 (4x6 overlap)", result.TotalPixels)
	}
	if result.Size1 != (Size{10, 6}) || result.Size2 != (Size{4, 8}) {
		t.Errorf("sizes: got %+v and %+v", result.Size1, result.Size2)
	}
}

func TestCompareRegions(t *testing.T) {
	img := createPatternImage(20, 20)

	tests := []struct {
		name      string
		r1, r2    Region
		identical bool
	}{
		{"red vs red", Region{0, 0, 5, 5}, Region{5, 5, 10, 10}, true},
		{"red vs green", Region{0, 0, 10, 10}, Region{10, 0, 20, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CompareRegions(img, tt.r1, img, tt.r2)
			if err != nil {
				t.Fatalf("CompareRegions failed: %v", err)
			}
			if result.Identical != tt.identical {
				t.Errorf("Identical: got %v, want %v", result.Identical, tt.identical)
			}
		})
	}
}

func TestCompareRegions_Invalid(t *testing.T) {
	img := createPatternImage(10, 10)

	tests := []struct {
		name   string
		r1, r2 Region
	}{
		{"empty first", Region{5, 5, 5, 8}, Region{0, 0, 3, 3}},
		{"inverted second", Region{0, 0, 3, 3}, Region{5, 5, 2, 2}},
		{"outside", Region{0, 0, 3, 3}, Region{8, 8, 12, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompareRegions(img, tt.r1, img, tt.r2); err == nil {
				t.Error("CompareRegions should fail")
			}
		})
	}

	if _, err := Compare(raster.Empty(), img); err == nil {
		t.Error("Compare should fail for an empty image")
	}
}

func TestAbsDiff(t *testing.T) {
	tests := []struct {
		a, b uint8
		want int
	}{
		{0, 0, 0},
		{10, 3, 7},
		{3, 10, 7},
		{0, 255, 255},
	}
	for _, tt := range tests {
		if got := absDiff(tt.a, tt.b); got != tt.want {
			t.Errorf("absDiff(%d, %d): got %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
