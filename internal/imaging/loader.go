package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp" // Register BMP decoder for depths the codec rejects

	"github.com/ironsheep/bmp-tools/internal/bmp"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// Every image is stored as a *raster.Image regardless of its source format, keyed by
// the file path it was loaded from. Once an image is loaded, subsequent Load() calls
// for the same path return the cached copy without disk I/O.
//
// Cached images are shared. Operations in this package never modify their input;
// callers that want to draw on a loaded image must Clone() it first.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.bmp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.bmp") // Optional: free memory
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	strict  bool
}

type cacheEntry struct {
	img        *raster.Image
	colorDepth string
	hasAlpha   bool
}

// CacheOption configures an ImageCache.
type CacheOption func(*ImageCache)

// WithStrictHeaders makes the cache validate BMP headers before decoding.
func WithStrictHeaders() CacheOption {
	return func(c *ImageCache) {
		c.strict = true
	}
}

// NewImageCache creates and initializes a new empty image cache.
//
// Without options BMP headers are read leniently. Pass WithStrictHeaders to
// reject malformed 24-bit files before their pixels are decoded.
func NewImageCache(opts ...CacheOption) *ImageCache {
	c := &ImageCache{
		entries: make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image.
//
// Returns:
//   - *raster.Image: The decoded image. It is shared with the cache and must not
//     be modified.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
//
// # Decoders
//
// Files with a ".bmp" extension are decoded by the 24-bit BMP codec. BMP files at
// other bit depths fall back to the generic BMP decoder, in strict mode too.
// Everything else goes through image.Decode, so PNG, JPEG and GIF are accepted
// as well.
func (c *ImageCache) Load(path string) (*raster.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	var (
		e   *cacheEntry
		err error
	)
	if formatFromPath(path) == "bmp" {
		e, err = c.loadBMP(path)
	} else {
		e, err = decodeFile(path)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()

	return e, nil
}

func (c *ImageCache) loadBMP(path string) (*cacheEntry, error) {
	load := bmp.Load
	if c.strict {
		load = bmp.LoadStrict
	}

	img, err := load(path)
	if errors.Is(err, bmp.ErrUnsupportedDepth) {
		return decodeFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode bmp: %w", err)
	}
	return &cacheEntry{img: img, colorDepth: "8-bit"}, nil
}

func decodeFile(path string) (*cacheEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	e := &cacheEntry{img: raster.FromImage(src), colorDepth: "8-bit"}
	switch src.(type) {
	case *image.RGBA, *image.NRGBA:
		e.hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		e.hasAlpha = true
		e.colorDepth = "16-bit"
	case *image.Gray16:
		e.colorDepth = "16-bit"
	}
	return e, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// BMPHeaderInfo describes the on-disk layout of a BMP file.
type BMPHeaderInfo struct {
	BitsPerPixel int    `json:"bits_per_pixel"`
	Compression  uint32 `json:"compression"`
	DataOffset   uint32 `json:"data_offset"`
	Stride       int    `json:"stride"`
	RowOrder     string `json:"row_order"` // "bottom-up" or "top-down"
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "bmp", "png", "jpeg", "gif", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the source carries an alpha channel.
	// 24-bit BMP files never do.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// BMP is set for ".bmp" files.
	BMP *BMPHeaderInfo `json:"bmp,omitempty"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Dimensions, format, color depth, alpha presence and file size.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
//
// # BMP Files
//
// The header is read again so BMP reflects the file's own bit depth, stride
// and row order rather than the decoded pixels.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &ImageInfo{
		Width:         e.img.Width(),
		Height:        e.img.Height(),
		Format:        formatFromPath(path),
		ColorDepth:    e.colorDepth,
		HasAlpha:      e.hasAlpha,
		FileSizeBytes: stat.Size(),
	}

	if info.Format == "bmp" {
		h, err := bmp.ReadHeader(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read bmp header: %w", err)
		}
		info.BMP = headerInfo(h)
	}

	return info, nil
}

func headerInfo(h *bmp.Header) *BMPHeaderInfo {
	order := "bottom-up"
	if h.TopDown() {
		order = "top-down"
	}
	return &BMPHeaderInfo{
		BitsPerPixel: int(h.BitCount),
		Compression:  h.Compression,
		DataOffset:   h.DataOffset,
		Stride:       bmp.Stride(int(h.Width)),
		RowOrder:     order,
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp"
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	}
	return "unknown"
}
