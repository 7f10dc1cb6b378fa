package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/poisson-blend/internal/blend"
	"github.com/ironsheep/poisson-blend/internal/imaging"
	"github.com/ironsheep/poisson-blend/internal/mask"
	"github.com/ironsheep/poisson-blend/internal/pixel"
	"github.com/ironsheep/poisson-blend/internal/solver"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_blend").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)

	// Placement
	case "image_outline":
		return s.handleImageOutline(args)

	// Compositing
	case "image_blend":
		return s.handleImageBlend(args)
	case "image_paste":
		return s.handleImagePaste(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

// === Placement Handlers ===

type pointArg struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// geometryArgs locate the overlay region inside the base image.
type geometryArgs struct {
	BasePath    string     `json:"base_path"`
	OverlayPath string     `json:"overlay_path"`
	X           int        `json:"x"`
	Y           int        `json:"y"`
	Polygon     []pointArg `json:"polygon"`
}

func (g geometryArgs) insert() image.Point {
	return image.Pt(g.X, g.Y)
}

func (g geometryArgs) polygon() []image.Point {
	if len(g.Polygon) == 0 {
		return nil
	}
	pts := make([]image.Point, len(g.Polygon))
	for i, p := range g.Polygon {
		pts[i] = image.Pt(p.X, p.Y)
	}
	return pts
}

// load returns the base and overlay images from the cache.
func (s *Server) load(g geometryArgs) (image.Image, image.Image, error) {
	if g.BasePath == "" || g.OverlayPath == "" {
		return nil, nil, fmt.Errorf("base_path and overlay_path are required")
	}
	base, err := s.cache.Load(g.BasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load base image: %w", err)
	}
	overlay, err := s.cache.Load(g.OverlayPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load overlay image: %w", err)
	}
	return base, overlay, nil
}

type imageOutlineArgs struct {
	geometryArgs
	Color           string `json:"color"`
	ShowCoordinates bool   `json:"show_coordinates"`
}

func (s *Server) handleImageOutline(args json.RawMessage) (interface{}, error) {
	var a imageOutlineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	base, overlay, err := s.load(a.geometryArgs)
	if err != nil {
		return nil, err
	}

	size := overlay.Bounds().Size()
	out := imaging.Outline(base, a.polygon(), a.insert(), size, a.Color, a.ShowCoordinates)
	return imaging.EncodePNG(out)
}

// === Compositing Handlers ===

// outputArgs control what happens to a composited image.
type outputArgs struct {
	OutputPath    string  `json:"output_path"`
	ReturnImage   bool    `json:"return_image"`
	PreviewMargin *int    `json:"preview_margin"`
	Scale         float64 `json:"scale"`
}

const defaultPreviewMargin = 16

// compositeResult is shared by image_blend and image_paste.
type compositeResult struct {
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Region     regionInfo            `json:"region"`
	ElapsedMS  float64               `json:"elapsed_ms"`
	OutputPath string                `json:"output_path,omitempty"`
	Preview    *imaging.EncodedImage `json:"preview,omitempty"`
}

type regionInfo struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	Width    int `json:"width"`
	Height   int `json:"height"`
	Interior int `json:"interior_pixels"`
	Border   int `json:"border_pixels"`
}

type blendResult struct {
	compositeResult
	ColorModel string           `json:"color_model"`
	Solver     string           `json:"solver"`
	Field      string           `json:"field"`
	Threshold  float64          `json:"threshold"`
	Channels   []channelSummary `json:"channels"`
	Stats      blend.Stats      `json:"stats"`
}

type channelSummary struct {
	Name       string  `json:"name"`
	Iterations int     `json:"iterations"`
	ElapsedMS  float64 `json:"elapsed_ms"`
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// finish fills the result fields common to both compositing tools, saving
// and previewing img as requested.
func (s *Server) finish(img *image.RGBA, m *mask.Mask, insert image.Point, elapsed time.Duration, out outputArgs) (compositeResult, error) {
	region := m.Bounds().Add(m.Offset).Add(insert)
	res := compositeResult{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Region: regionInfo{
			X:        region.Min.X,
			Y:        region.Min.Y,
			Width:    region.Dx(),
			Height:   region.Dy(),
			Interior: m.Len(),
			Border:   m.BorderCount(),
		},
		ElapsedMS: milliseconds(elapsed),
	}

	if out.OutputPath != "" {
		if err := imaging.Save(img, out.OutputPath); err != nil {
			return res, err
		}
		res.OutputPath = imaging.ExpandPath(out.OutputPath)
		// A later image_load of the same path must see the new file.
		s.cache.Evict(out.OutputPath)
	}

	if out.ReturnImage {
		margin := defaultPreviewMargin
		if out.PreviewMargin != nil {
			margin = *out.PreviewMargin
		}
		if out.Scale == 0 {
			out.Scale = 1.0
		}
		preview, err := imaging.Preview(img, region, margin, out.Scale)
		if err != nil {
			return res, err
		}
		res.Preview = preview
	}
	return res, nil
}

type imageBlendArgs struct {
	geometryArgs
	outputArgs
	ColorModel    string  `json:"color_model"`
	Solver        string  `json:"solver"`
	Relaxation    float64 `json:"relaxation"`
	Field         string  `json:"field"`
	Threshold     float64 `json:"threshold"`
	Metric        string  `json:"metric"`
	MaxIterations int     `json:"max_iterations"`
	Parallel      bool    `json:"parallel"`
}

// options converts the tool arguments into blend options, applying the
// same defaults as the command line.
func (a imageBlendArgs) options() (blend.Options, error) {
	opts := blend.DefaultOptions()

	if a.ColorModel != "" {
		model, err := pixel.ParseModel(a.ColorModel)
		if err != nil {
			return opts, err
		}
		opts.Model = model
	}
	if a.Solver != "" {
		method, err := solver.ParseMethod(a.Solver)
		if err != nil {
			return opts, err
		}
		opts.Solver.Method = method
	}
	if a.Metric != "" {
		metric, err := solver.ParseMetric(a.Metric)
		if err != nil {
			return opts, err
		}
		opts.Solver.Metric = metric
	}
	field, err := blend.ParseFieldMode(a.Field)
	if err != nil {
		return opts, err
	}
	opts.Field = field

	opts.Solver.Relaxation = a.Relaxation
	if opts.Solver.Relaxation == 0 {
		opts.Solver.Relaxation = solver.DefaultRelaxation
	}
	opts.Solver.Threshold = a.Threshold
	opts.Solver.MaxIterations = a.MaxIterations
	opts.Parallel = a.Parallel
	return opts, nil
}

func (s *Server) handleImageBlend(args json.RawMessage) (interface{}, error) {
	var a imageBlendArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	opts.Log = s.progress

	base, overlay, err := s.load(a.geometryArgs)
	if err != nil {
		return nil, err
	}

	res, err := blend.Blend(base, overlay, a.insert(), a.polygon(), opts)
	if err != nil {
		return nil, err
	}

	common, err := s.finish(res.Image, res.Mask, a.insert(), res.Elapsed, a.outputArgs)
	if err != nil {
		return nil, err
	}

	threshold := opts.Solver.Threshold
	if threshold == 0 {
		threshold, _ = solver.DefaultThreshold(opts.Solver.Method, opts.Model)
	}
	out := &blendResult{
		compositeResult: common,
		ColorModel:      opts.Model.String(),
		Solver:          opts.Solver.Method.String(),
		Field:           opts.Field.String(),
		Threshold:       threshold,
		Stats:           res.Stats,
	}
	for _, c := range res.Channels {
		out.Channels = append(out.Channels, channelSummary{
			Name:       c.Name,
			Iterations: c.Iterations,
			ElapsedMS:  milliseconds(c.Elapsed),
		})
	}
	return out, nil
}

type imagePasteArgs struct {
	geometryArgs
	outputArgs
}

func (s *Server) handleImagePaste(args json.RawMessage) (interface{}, error) {
	var a imagePasteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	base, overlay, err := s.load(a.geometryArgs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := blend.Paste(base, overlay, a.insert(), a.polygon())
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	size := overlay.Bounds().Size()
	m := mask.Build(a.polygon(), size.X, size.Y)
	return s.finish(img, m, a.insert(), elapsed, a.outputArgs)
}
