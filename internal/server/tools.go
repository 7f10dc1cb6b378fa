package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var pointListSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer"},
			"y": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x", "y"},
	},
	"description": "Polygon vertices in overlay coordinates. Fewer than 3 points selects the whole overlay.",
}

// geometryProperties are shared by every tool that places an overlay region
// into a base image.
func geometryProperties() map[string]interface{} {
	return map[string]interface{}{
		"base_path":    pathProperty("Absolute path to the base (background) image"),
		"overlay_path": pathProperty("Absolute path to the overlay image"),
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "X position of the overlay origin in the base image",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Y position of the overlay origin in the base image",
		},
		"polygon": pointListSchema,
	}
}

func outputProperties(props map[string]interface{}) map[string]interface{} {
	props["output_path"] = pathProperty("Optional path to save the result (png, jpg, gif, bmp, tiff)")
	props["return_image"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return a base64 PNG preview of the inserted region. Default false",
		"default":     false,
	}
	props["preview_margin"] = map[string]interface{}{
		"type":        "integer",
		"description": "Pixels of surrounding base image to include in the preview. Default 16",
		"default":     16,
	}
	props["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional preview scale factor. Default 1.0",
		"default":     1.0,
	}
	return props
}

func blendProperties() map[string]interface{} {
	props := outputProperties(geometryProperties())
	props["color_model"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"rgb", "hsl", "cmy", "cmyk"},
		"description": "Color model the system is solved in. Default rgb",
		"default":     "rgb",
	}
	props["solver"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"jacobi", "gauss-seidel", "sor"},
		"description": "Iterative solver. Default jacobi",
		"default":     "jacobi",
	}
	props["relaxation"] = map[string]interface{}{
		"type":        "number",
		"description": "SOR relaxation factor, strictly between 0 and 2. Default 1.9",
		"default":     1.9,
	}
	props["field"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"normal", "linear", "mixed"},
		"description": "Guidance field: overlay gradient, average of both gradients, or the stronger gradient. Default normal",
		"default":     "normal",
	}
	props["threshold"] = map[string]interface{}{
		"type":        "number",
		"description": "Accepted error between sweeps. 0 uses the default for the solver and model",
	}
	props["metric"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"max", "euclidean"},
		"description": "Error metric. Default max",
		"default":     "max",
	}
	props["max_iterations"] = map[string]interface{}{
		"type":        "integer",
		"description": "Fail after this many sweeps. 0 means unlimited",
	}
	props["parallel"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Solve each color channel concurrently",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for later blends.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel in hex, RGBA and every blend color model (RGB, HSL, CMY, CMYK).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get color values at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
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
				},
				"required": []string{"path", "points"},
			},
		},

		// Placement
		{
			Name:        "image_outline",
			Description: "Draw the insertion region on the base image and return it as base64 PNG. Use this to check a placement before blending.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := geometryProperties()
					props["color"] = map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (#RRGGBB or #RRGGBBAA). Default #FF0000",
						"default":     "#FF0000",
					}
					props["show_coordinates"] = map[string]interface{}{
						"type":        "boolean",
						"description": "Label each vertex with its base-image coordinates",
					}
					return props
				}(),
				"required": []string{"base_path", "overlay_path", "x", "y"},
			},
		},

		// Compositing
		{
			Name:        "image_blend",
			Description: "Seamlessly blend a polygon region of the overlay into the base image (Poisson blending). Returns timings, iterations per color channel and change statistics.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": blendProperties(),
				"required":   []string{"base_path", "overlay_path", "x", "y"},
			},
		},
		{
			Name:        "image_paste",
			Description: "Copy a polygon region of the overlay into the base image without blending, for comparison with image_blend.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": outputProperties(geometryProperties()),
				"required":   []string{"base_path", "overlay_path", "x", "y"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
