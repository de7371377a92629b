// Package server exposes the BMP codec and image operations as MCP tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// File operations:
//   - bmp_info: Dimensions, format and, for BMP files, header details
//   - bmp_create: New solid-color 24-bit BMP
//   - bmp_convert: Any supported image to 24-bit BMP
//   - bmp_roundtrip: Encode, decode and report whether pixels survived
//
// Color operations:
//   - bmp_sample_color, bmp_sample_colors_multi: Pixel colors
//   - bmp_dominant_colors: Quantized palette
//
// Transforms write a new BMP and return its path:
//   - bmp_crop, bmp_crop_quadrant, bmp_resize, bmp_flip
//   - bmp_invert, bmp_grayscale, bmp_fill_rect
//   - bmp_grid, bmp_edges
//
// Analysis:
//   - bmp_compare: Pixel and CIE Lab comparison of images or regions
//
// Source images are decoded once and kept in an in-memory cache keyed by path.
// Transforms never modify the cached image. Results without an explicit
// "output" argument go to the directory set with WithOutputDir.
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error string in data.
//
//	srv := server.New(server.WithOutputDir("/tmp/bmp"))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
