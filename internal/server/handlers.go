package server

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/bmp-tools/internal/bmp"
	"github.com/ironsheep/bmp-tools/internal/imaging"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bmp_info", "bmp_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	out, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(out)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the imaging function and writes any resulting image as BMP
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// File Operations
	case "bmp_info":
		return s.handleInfo(args)
	case "bmp_create":
		return s.handleCreate(args)
	case "bmp_convert":
		return s.handleConvert(args)
	case "bmp_roundtrip":
		return s.handleRoundtrip(args)

	// Color Operations
	case "bmp_sample_color":
		return s.handleSampleColor(args)
	case "bmp_sample_colors_multi":
		return s.handleSampleColorsMulti(args)
	case "bmp_dominant_colors":
		return s.handleDominantColors(args)

	// Transforms
	case "bmp_crop":
		return s.handleCrop(args)
	case "bmp_crop_quadrant":
		return s.handleCropQuadrant(args)
	case "bmp_resize":
		return s.handleResize(args)
	case "bmp_flip":
		return s.handleFlip(args)
	case "bmp_invert":
		return s.handleInvert(args)
	case "bmp_grayscale":
		return s.handleGrayscale(args)
	case "bmp_fill_rect":
		return s.handleFillRect(args)
	case "bmp_grid":
		return s.handleGrid(args)
	case "bmp_edges":
		return s.handleEdges(args)

	// Analysis
	case "bmp_compare":
		return s.handleCompare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// outputPath returns explicit when set, otherwise a generated path in the output directory.
func (s *Server) outputPath(explicit, prefix string) string {
	if explicit != "" {
		return explicit
	}
	return imaging.OutputPath(s.outputDir, prefix)
}

// save writes img and drops any cached copy of the destination.
func (s *Server) save(img *raster.Image, explicit, prefix string) (*imaging.OutputResult, error) {
	path := s.outputPath(explicit, prefix)
	res, err := imaging.SaveBMP(img, path)
	// A failed write may still have truncated the file.
	s.cache.Evict(path)
	if err != nil {
		return nil, err
	}
	s.cache.Evict(res.Path)
	if s.debug {
		log.Printf("Wrote %s (%dx%d, %d bytes, %d images cached)", res.Path, res.Width, res.Height, res.FileSizeBytes, s.cache.Len())
	}
	return res, nil
}

// parseColor parses a hex color argument, returning def when it is empty.
func parseColor(hex string, def raster.Color) (raster.Color, error) {
	if hex == "" {
		return def, nil
	}
	c, err := raster.ParseHex(hex)
	if err != nil {
		return raster.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// === File Operation Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type createArgs struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
	Output string `json:"output"`
}

func (s *Server) handleCreate(args json.RawMessage) (interface{}, error) {
	var a createArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	fill, err := parseColor(a.Color, raster.White)
	if err != nil {
		return nil, err
	}
	return s.save(raster.New(a.Width, a.Height, fill), a.Output, "create")
}

type outputArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
}

func (s *Server) handleConvert(args json.RawMessage) (interface{}, error) {
	var a outputArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.save(img, a.Output, "convert")
}

type roundtripResult struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Stride        int     `json:"stride"`
	FileSizeBytes int64   `json:"file_size_bytes"`
	Identical     bool    `json:"identical"`
	MeanDeltaE    float64 `json:"mean_delta_e"`
}

// handleRoundtrip encodes the image to a scratch BMP, decodes it again and
// compares the two.
func (s *Server) handleRoundtrip(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, err := imaging.SaveBMP(img, imaging.OutputPath(s.outputDir, "roundtrip"))
	if err != nil {
		return nil, err
	}
	defer os.Remove(out.Path)

	back, err := bmp.Load(out.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode round-tripped image: %w", err)
	}

	// Alpha is not stored, so compare against an opaque copy.
	opaque := img.Clone()
	pix := opaque.Pixels()
	for i := range pix {
		pix[i].A = 255
	}

	cmp, err := imaging.Compare(opaque, back)
	if err != nil {
		return nil, err
	}

	return &roundtripResult{
		Width:         back.Width(),
		Height:        back.Height(),
		Stride:        out.Stride,
		FileSizeBytes: out.FileSizeBytes,
		Identical:     opaque.Equal(back),
		MeanDeltaE:    cmp.MeanDeltaE,
	}, nil
}

// === Color Operation Handlers ===

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type sampleColorsMultiArgs struct {
	Path   string                 `json:"path"`
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a sampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColorsMulti(img, a.Points)
}

type dominantColorsArgs struct {
	Path   string          `json:"path"`
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, a.Region)
}

// === Transform Handlers ===

type cropArgs struct {
	Path   string  `json:"path"`
	X1     int     `json:"x1"`
	Y1     int     `json:"y1"`
	X2     int     `json:"x2"`
	Y2     int     `json:"y2"`
	Scale  float64 `json:"scale"`
	Output string  `json:"output"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.Crop(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}, a.Scale)
	if err != nil {
		return nil, err
	}
	return s.save(cropped, a.Output, "crop")
}

type cropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
	Output string  `json:"output"`
}

func (s *Server) handleCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a cropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.CropQuadrant(img, a.Region, a.Scale)
	if err != nil {
		return nil, err
	}
	return s.save(cropped, a.Output, "crop")
}

type resizeArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Output string `json:"output"`
}

func (s *Server) handleResize(args json.RawMessage) (interface{}, error) {
	var a resizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	resized, err := imaging.Resize(img, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return s.save(resized, a.Output, "resize")
}

type flipArgs struct {
	Path      string `json:"path"`
	Direction string `json:"direction"`
	Output    string `json:"output"`
}

func (s *Server) handleFlip(args json.RawMessage) (interface{}, error) {
	var a flipArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	var horizontal bool
	switch a.Direction {
	case "", "horizontal":
		horizontal = true
	case "vertical":
	default:
		return nil, fmt.Errorf("unknown direction %q: must be horizontal or vertical", a.Direction)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.save(imaging.Flip(img, horizontal), a.Output, "flip")
}

func (s *Server) handleInvert(args json.RawMessage) (interface{}, error) {
	var a outputArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.save(imaging.Invert(img), a.Output, "invert")
}

func (s *Server) handleGrayscale(args json.RawMessage) (interface{}, error) {
	var a outputArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.save(imaging.Grayscale(img), a.Output, "gray")
}

type fillRectArgs struct {
	Path   string `json:"path"`
	X1     int    `json:"x1"`
	Y1     int    `json:"y1"`
	X2     int    `json:"x2"`
	Y2     int    `json:"y2"`
	Color  string `json:"color"`
	Output string `json:"output"`
}

func (s *Server) handleFillRect(args json.RawMessage) (interface{}, error) {
	var a fillRectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColor(a.Color, raster.Black)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	filled, err := imaging.FillRect(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}, c)
	if err != nil {
		return nil, err
	}
	return s.save(filled, a.Output, "fill")
}

type gridArgs struct {
	Path            string `json:"path"`
	Spacing         int    `json:"spacing"`
	ShowCoordinates bool   `json:"show_coordinates"`
	Color           string `json:"color"`
	Output          string `json:"output"`
}

func (s *Server) handleGrid(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Spacing == 0 {
		a.Spacing = 50
	}
	c, err := parseColor(a.Color, imaging.DefaultGridColor)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	grid, err := imaging.GridOverlay(img, a.Spacing, a.ShowCoordinates, c)
	if err != nil {
		return nil, err
	}
	return s.save(grid, a.Output, "grid")
}

type edgesArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
	Output        string `json:"output"`
}

type edgesResult struct {
	*imaging.OutputResult
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a edgesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 150
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	edges, err := imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
	if err != nil {
		return nil, err
	}
	out, err := s.save(edges.Image, a.Output, "edges")
	if err != nil {
		return nil, err
	}
	return &edgesResult{OutputResult: out, EdgePixels: edges.EdgePixels}, nil
}

// === Analysis Handlers ===

type compareArgs struct {
	Path1   string          `json:"path1"`
	Path2   string          `json:"path2"`
	Region1 *imaging.Region `json:"region1"`
	Region2 *imaging.Region `json:"region2"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path2 == "" {
		a.Path2 = a.Path1
	}
	img1, err := s.cache.Load(a.Path1)
	if err != nil {
		return nil, err
	}
	img2, err := s.cache.Load(a.Path2)
	if err != nil {
		return nil, err
	}

	r1 := wholeImage(img1)
	if a.Region1 != nil {
		r1 = *a.Region1
	}
	r2 := wholeImage(img2)
	if a.Region2 != nil {
		r2 = *a.Region2
	}
	return imaging.CompareRegions(img1, r1, img2, r2)
}

func wholeImage(img *raster.Image) imaging.Region {
	return imaging.Region{X2: img.Width(), Y2: img.Height()}
}
