package imaging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"

	"github.com/ironsheep/bmp-tools/internal/bmp"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

// OutputResult describes a BMP file written by SaveBMP.
type OutputResult struct {
	Path          string `json:"path"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Stride        int    `json:"stride"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// OutputPath returns a unique BMP path in dir such as "gray-2Nq0...Xk.bmp".
func OutputPath(dir, prefix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.bmp", prefix, ksuid.New().String()))
}

// SaveBMP encodes img to path as a 24-bit BMP and reports what was written.
//
// Parameters:
//   - img: Image to encode. Alpha is dropped.
//   - path: Destination file. An existing file is overwritten.
//
// Returns:
//   - *OutputResult: Path, dimensions, row stride and the size on disk.
//   - error: Non-nil if the image is empty or the file cannot be written.
func SaveBMP(img *raster.Image, path string) (*OutputResult, error) {
	if err := bmp.Save(img, path); err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &OutputResult{
		Path:          abs,
		Width:         img.Width(),
		Height:        img.Height(),
		Stride:        bmp.Stride(img.Width()),
		FileSizeBytes: stat.Size(),
	}, nil
}
