// Package raster provides the in-memory pixel buffer used by the BMP codec.
//
// An Image is a row-major grid of 8-bit RGBA Color values with the origin at the
// top-left corner. Row y occupies elements [y*width, (y+1)*width) of the pixel
// slice, and the slice length always equals width*height. An Image with no
// pixels is valid and represents "no image"; the codec uses it as its failure
// value.
//
// Image implements image.Image and draw.Image, so it can be passed directly to
// the standard library and to third-party image processing packages.
//
// Colors are stored non-premultiplied. The alpha channel is carried in memory
// but is not written by the 24-bit BMP encoder.
package raster
