package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func schema(required []string, props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var (
	pathProp   = prop("string", "Absolute path to the source image (BMP, PNG, JPEG or GIF)")
	outputProp = prop("string", "Optional path for the resulting BMP. Defaults to a generated name in the server's output directory")
	regionProp = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"description": "Region with inclusive (x1,y1) and exclusive (x2,y2)",
	}
)

// rectProps returns path, output and the four corner coordinates.
func rectProps() map[string]interface{} {
	return map[string]interface{}{
		"path":   pathProp,
		"output": outputProp,
		"x1":     prop("integer", "Left edge X coordinate (0-based)"),
		"y1":     prop("integer", "Top edge Y coordinate (0-based)"),
		"x2":     prop("integer", "Right edge X coordinate (exclusive)"),
		"y2":     prop("integer", "Bottom edge Y coordinate (exclusive)"),
	}
}

// GetToolDefinitions returns all available tools.
//
// The list is rebuilt on every call and is what tools/list reports. Every tool
// name starts with "bmp_" and each schema lists its required arguments.
func GetToolDefinitions() []Tool {
	crop := rectProps()
	crop["scale"] = propDefault("number", "Optional scale factor (e.g., 2.0 to double size)", 1.0)

	fill := rectProps()
	fill["color"] = propDefault("string", "Fill color as #RRGGBB or #RRGGBBAA", "#000000")

	return []Tool{
		// File Operations
		{
			Name:        "bmp_info",
			Description: "Load an image and return its dimensions, format and file size. For BMP files also reports bits per pixel, row stride and row order.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path": pathProp,
			}),
		},
		{
			Name:        "bmp_create",
			Description: "Create a new 24-bit BMP filled with a single color.",
			InputSchema: schema([]string{"width", "height"}, map[string]interface{}{
				"width":  prop("integer", "Width in pixels"),
				"height": prop("integer", "Height in pixels"),
				"color":  propDefault("string", "Fill color as #RRGGBB", "#FFFFFF"),
				"output": outputProp,
			}),
		},
		{
			Name:        "bmp_convert",
			Description: "Convert an image to a 24-bit bottom-up BMP. Alpha is discarded.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
			}),
		},
		{
			Name:        "bmp_roundtrip",
			Description: "Encode an image as BMP, decode it again and report whether the pixels survived unchanged.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path": pathProp,
			}),
		},

		// Color Operations
		{
			Name:        "bmp_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate as hex, RGB, RGBA, HSL and gray.",
			InputSchema: schema([]string{"path", "x", "y"}, map[string]interface{}{
				"path": pathProp,
				"x":    prop("integer", "X coordinate (0-based, from left)"),
				"y":    prop("integer", "Y coordinate (0-based, from top)"),
			}),
		},
		{
			Name:        "bmp_sample_colors_multi",
			Description: "Get color values at multiple pixel coordinates in a single call.",
			InputSchema: schema([]string{"path", "points"}, map[string]interface{}{
				"path": pathProp,
				"points": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "integer"},
							"y":     map[string]interface{}{"type": "integer"},
							"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Array of points to sample",
				},
			}),
		},
		{
			Name:        "bmp_dominant_colors",
			Description: "Return the N most common colors, quantized to steps of 16 per channel.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":   pathProp,
				"count":  propDefault("integer", "Number of colors to return", 5),
				"region": regionProp,
			}),
		},

		// Transforms
		{
			Name:        "bmp_crop",
			Description: "Crop a rectangular region, optionally scale it, and write it as BMP.",
			InputSchema: schema([]string{"path", "x1", "y1", "x2", "y2"}, crop),
		},
		{
			Name:        "bmp_crop_quadrant",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center) and write it as BMP.",
			InputSchema: schema([]string{"path", "region"}, map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
				"region": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
					"description": "Named region to extract",
				},
				"scale": propDefault("number", "Optional scale factor", 1.0),
			}),
		},
		{
			Name:        "bmp_resize",
			Description: "Resize with Lanczos resampling. Give width or height as 0 to keep the aspect ratio.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
				"width":  prop("integer", "Target width in pixels"),
				"height": prop("integer", "Target height in pixels"),
			}),
		},
		{
			Name:        "bmp_flip",
			Description: "Mirror the image horizontally or vertically.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"horizontal", "vertical"},
					"description": "Flip direction",
					"default":     "horizontal",
				},
			}),
		},
		{
			Name:        "bmp_invert",
			Description: "Write the color negative of the image.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
			}),
		},
		{
			Name:        "bmp_grayscale",
			Description: "Convert to gray using 0.299R + 0.587G + 0.114B.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
			}),
		},
		{
			Name:        "bmp_fill_rect",
			Description: "Paint a rectangle in a solid color. The rectangle is clipped to the image.",
			InputSchema: schema([]string{"path", "x1", "y1", "x2", "y2"}, fill),
		},
		{
			Name:        "bmp_grid",
			Description: "Overlay a coordinate grid, optionally labelling each intersection.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":             pathProp,
				"output":           outputProp,
				"spacing":          propDefault("integer", "Pixels between grid lines", 50),
				"show_coordinates": propDefault("boolean", "Label intersections with x,y", false),
				"color":            propDefault("string", "Line color as #RRGGBB or #RRGGBBAA", "#FF000080"),
			}),
		},
		{
			Name:        "bmp_edges",
			Description: "Canny-style edge detection. Writes a black BMP with edges in white.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":           pathProp,
				"output":         outputProp,
				"threshold_low":  propDefault("integer", "Low hysteresis threshold (0-255)", 50),
				"threshold_high": propDefault("integer", "High hysteresis threshold (0-255)", 150),
			}),
		},

		// Analysis
		{
			Name:        "bmp_compare",
			Description: "Compare two images, or regions of them, pixel by pixel. Reports similarity, channel differences and mean CIE Lab distance.",
			InputSchema: schema([]string{"path1"}, map[string]interface{}{
				"path1":   prop("string", "First image"),
				"path2":   prop("string", "Second image. Defaults to path1 for comparing two regions of one image"),
				"region1": regionProp,
				"region2": regionProp,
			}),
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
