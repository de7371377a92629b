// Package imaging provides the image operations behind the bmp-tools server and CLI.
//
// Images are loaded through ImageCache, which decodes BMP files with the internal
// codec and other formats with the standard decoders, and always hands back a
// *raster.Image. Operations never modify their input and results can be written
// back to disk with SaveBMP.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// The top-left origin holds for BMP files too, whatever their on-disk row order.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual operations are
// stateless and can be called concurrently.
//
// # Transforms
//
// Crop, Resize, Flip and Invert run disintegration/imaging on a
// non-premultiplied copy of the source, so translucent pixels keep their
// channel values. Grayscale and Invert keep alpha. SaveBMP drops it.
//
// # Color Representation
//
// Colors are returned in multiple formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB and RGBA: 8-bit components (0-255)
//   - HSL: Hue (0-359), Saturation (0-100), Lightness (0-100)
//   - Gray: luma using 0.299R + 0.587G + 0.114B
package imaging
