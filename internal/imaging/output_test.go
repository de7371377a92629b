package imaging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/bmp-tools/internal/bmp"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	p1 := OutputPath(dir, "gray")
	p2 := OutputPath(dir, "gray")

	if p1 == p2 {
		t.Error("OutputPath returned the same path twice")
	}
	if filepath.Dir(p1) != dir {
		t.Errorf("dir: got %s, want %s", filepath.Dir(p1), dir)
	}
	base := filepath.Base(p1)
	if !strings.HasPrefix(base, "gray-") || filepath.Ext(base) != ".bmp" {
		t.Errorf("unexpected name %s", base)
	}
	// ksuid strings are 27 characters.
	if len(base) != len("gray-")+27+len(".bmp") {
		t.Errorf("unexpected name length %d for %s", len(base), base)
	}
}

func TestSaveBMP(t *testing.T) {
	img := createPatternImage(7, 3)
	path := OutputPath(t.TempDir(), "pattern")

	result, err := SaveBMP(img, path)
	if err != nil {
		t.Fatalf("SaveBMP failed: %v", err)
	}

	if result.Width != 7 || result.Height != 3 {
		t.Errorf("size: got %dx%d, want 7x3", result.Width, result.Height)
	}
	if result.Stride != 24 {
		t.Errorf("Stride: got %d, want 24", result.Stride)
	}
	if result.FileSizeBytes != int64(bmp.HeaderSize+24*3) {
		t.Errorf("FileSizeBytes: got %d, want %d", result.FileSizeBytes, bmp.HeaderSize+24*3)
	}
	if !filepath.IsAbs(result.Path) {
		t.Errorf("Path should be absolute: %s", result.Path)
	}

	loaded, err := bmp.Load(result.Path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Equal(img) {
		t.Error("saved image does not round-trip")
	}
}

func TestSaveBMP_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := SaveBMP(raster.Empty(), filepath.Join(dir, "empty.bmp")); err == nil {
		t.Error("SaveBMP should fail for an empty image")
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.bmp")); !os.IsNotExist(err) {
		t.Error("SaveBMP created a file for an empty image")
	}

	if _, err := SaveBMP(createPatternImage(2, 2), filepath.Join(dir, "missing", "x.bmp")); err == nil {
		t.Error("SaveBMP should fail when the directory does not exist")
	}
}
