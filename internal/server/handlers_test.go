package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/poisson-blend/internal/imaging"
)

// createTestImageFile creates a solid test image file in a temp dir and
// returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return f.Name()
}

func toolRequest(t *testing.T, name string, args map[string]interface{}) *MCPRequest {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	return &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params}
}

// callTool runs a tool and decodes the JSON text content of its result.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp := s.handleRequest(toolRequest(t, name, args))
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("%s failed: %s: %v", name, resp.Error.Message, resp.Error.Data)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content %v", content)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	return out
}

// callToolError runs a tool that is expected to fail and returns the error.
func callToolError(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPError {
	t.Helper()
	resp := s.handleRequest(toolRequest(t, name, args))
	if resp == nil || resp.Error == nil {
		t.Fatalf("%s: expected an error response, got %+v", name, resp)
	}
	return resp.Error
}

// blendFixture is a 10x10 gray base and a 4x4 red overlay.
type blendFixture struct {
	base, overlay, dir string
}

func newBlendFixture(t *testing.T) blendFixture {
	t.Helper()
	return blendFixture{
		base:    createTestImageFile(t, 10, 10, color.RGBA{128, 128, 128, 255}),
		overlay: createTestImageFile(t, 4, 4, color.RGBA{200, 50, 50, 255}),
		dir:     t.TempDir(),
	}
}

func (f blendFixture) args(extra map[string]interface{}) map[string]interface{} {
	args := map[string]interface{}{
		"base_path":    f.base,
		"overlay_path": f.overlay,
		"x":            3,
		"y":            3,
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New("test")
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	out := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})

	if out["width"] != float64(100) || out["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v", out["width"], out["height"])
	}
	if out["format"] != "png" {
		t.Errorf("format: got %v", out["format"])
	}
	if s.cache.Len() != 1 {
		t.Errorf("expected image to be cached, cache has %d entries", s.cache.Len())
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New("test")
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	out := callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath})

	if out["width"] != float64(200) || out["height"] != float64(150) {
		t.Errorf("dimensions: got %vx%v", out["width"], out["height"])
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New("test")
	mcpErr := callToolError(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})

	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New("test")
	mcpErr := callToolError(t, s, "image_crop", map[string]interface{}{})

	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
	if data, _ := mcpErr.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("Error data: got %v", mcpErr.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New("test")
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid json}`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New("test")
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	out := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 5, "y": 5})

	if out["hex"] != "#FF0000" {
		t.Errorf("hex: got %v", out["hex"])
	}
	models, ok := out["models"].([]interface{})
	if !ok || len(models) != 4 {
		t.Fatalf("models: got %v", out["models"])
	}
	cmy := models[2].(map[string]interface{})
	if cmy["model"] != "CMY" {
		t.Errorf("models[2]: got %v", cmy["model"])
	}
	channels := cmy["channels"].(map[string]interface{})
	if channels["C"] != float64(0) || channels["M"] != float64(1) || channels["Y"] != float64(1) {
		t.Errorf("CMY channels: got %v", channels)
	}
}

func TestHandleToolsCall_SampleColorOutOfBounds(t *testing.T) {
	s := New("test")
	imgPath := createTestImageFile(t, 10, 10, color.White)

	callToolError(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 10, "y": 0})
}

func TestHandleToolsCall_SampleColorsMulti(t *testing.T) {
	s := New("test")
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{0, 0, 255, 255})

	out := callTool(t, s, "image_sample_colors_multi", map[string]interface{}{
		"path": imgPath,
		"points": []map[string]interface{}{
			{"x": 0, "y": 0, "label": "corner"},
			{"x": 9, "y": 9},
		},
	})

	samples, ok := out["samples"].([]interface{})
	if !ok || len(samples) != 2 {
		t.Fatalf("samples: got %v", out["samples"])
	}
	first := samples[0].(map[string]interface{})
	if first["label"] != "corner" {
		t.Errorf("label: got %v", first["label"])
	}
	if first["color"].(map[string]interface{})["hex"] != "#0000FF" {
		t.Errorf("color: got %v", first["color"])
	}
}

func TestHandleToolsCall_Outline(t *testing.T) {
	s := New("test")
	f := newBlendFixture(t)

	out := callTool(t, s, "image_outline", f.args(map[string]interface{}{
		"color":            "#00FF00",
		"show_coordinates": true,
	}))

	if out["width"] != float64(10) || out["height"] != float64(10) {
		t.Errorf("dimensions: got %vx%v", out["width"], out["height"])
	}
	if out["mime_type"] != "image/png" {
		t.Errorf("mime_type: got %v", out["mime_type"])
	}
	if s, _ := out["image_base64"].(string); s == "" {
		t.Error("image_base64 is empty")
	}
}

func TestHandleToolsCall_Blend(t *testing.T) {
	s := New("test")
	var progress []string
	s.SetProgressLog(func(msg string) { progress = append(progress, msg) })

	f := newBlendFixture(t)
	outPath := filepath.Join(f.dir, "blend.png")

	out := callTool(t, s, "image_blend", f.args(map[string]interface{}{
		"output_path":    outPath,
		"return_image":   true,
		"preview_margin": 1,
	}))

	if out["color_model"] != "RGB" || out["solver"] != "jacobi" || out["field"] != "normal" {
		t.Errorf("options echoed: %v %v %v", out["color_model"], out["solver"], out["field"])
	}
	region := out["region"].(map[string]interface{})
	if region["x"] != float64(3) || region["width"] != float64(4) {
		t.Errorf("region: got %v", region)
	}
	if region["interior_pixels"] != float64(4) || region["border_pixels"] != float64(12) {
		t.Errorf("mask counts: got %v", region)
	}

	channels := out["channels"].([]interface{})
	if len(channels) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(channels))
	}
	if name := channels[0].(map[string]interface{})["name"]; name != "R" {
		t.Errorf("channels[0]: got %v", name)
	}

	if out["output_path"] != outPath {
		t.Errorf("output_path: got %v", out["output_path"])
	}
	saved, err := imaging.NewImageCache().Load(outPath)
	if err != nil {
		t.Fatalf("failed to load saved result: %v", err)
	}
	r, g, b, _ := saved.At(4, 4).RGBA()
	if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
		t.Errorf("blended pixel = (%d,%d,%d), want (128,128,128)", r>>8, g>>8, b>>8)
	}

	// The 4x4 region grown by a 1 pixel margin
	preview := out["preview"].(map[string]interface{})
	if preview["width"] != float64(6) || preview["height"] != float64(6) {
		t.Errorf("preview: got %vx%v", preview["width"], preview["height"])
	}

	if len(progress) == 0 || progress[0] != "Blending started for RGB color model." {
		t.Errorf("progress: got %q", progress)
	}
}

func TestHandleToolsCall_BlendOptions(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]interface{}
		model string
		n     int
	}{
		{"hsl sor", map[string]interface{}{"color_model": "hsl", "solver": "sor", "relaxation": 1.5}, "HSL", 3},
		{"cmyk gauss-seidel", map[string]interface{}{"color_model": "cmyk", "solver": "gauss-seidel"}, "CMYK", 4},
		{"mixed parallel", map[string]interface{}{"field": "mixed", "parallel": true, "metric": "euclidean"}, "RGB", 3},
		{"polygon", map[string]interface{}{"polygon": []map[string]int{{"x": 0, "y": 0}, {"x": 3, "y": 0}, {"x": 3, "y": 3}, {"x": 0, "y": 3}}}, "RGB", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("test")
			f := newBlendFixture(t)

			out := callTool(t, s, "image_blend", f.args(tt.extra))

			if out["color_model"] != tt.model {
				t.Errorf("color_model: got %v, want %s", out["color_model"], tt.model)
			}
			if got := len(out["channels"].([]interface{})); got != tt.n {
				t.Errorf("channels: got %d, want %d", got, tt.n)
			}
			if _, ok := out["preview"]; ok {
				t.Error("preview should be omitted unless requested")
			}
			if _, ok := out["output_path"]; ok {
				t.Error("output_path should be omitted when not saving")
			}
		})
	}
}

func TestHandleToolsCall_BlendErrors(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]interface{}
		want  string
	}{
		{"out of bounds", map[string]interface{}{"x": 8}, "outside image bounds"},
		{"unknown model", map[string]interface{}{"color_model": "lab"}, "lab"},
		{"unknown solver", map[string]interface{}{"solver": "multigrid"}, "multigrid"},
		{"unknown field", map[string]interface{}{"field": "average"}, "average"},
		{"bad relaxation", map[string]interface{}{"solver": "sor", "relaxation": 2.5}, "relaxation"},
		{"missing overlay", map[string]interface{}{"overlay_path": ""}, "overlay_path"},
		{"iteration cap", map[string]interface{}{"max_iterations": 1}, "converge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("test")
			f := newBlendFixture(t)

			mcpErr := callToolError(t, s, "image_blend", f.args(tt.extra))
			if mcpErr.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
			}
			if data, _ := mcpErr.Data.(string); !strings.Contains(data, tt.want) {
				t.Errorf("error %q does not mention %q", data, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_Paste(t *testing.T) {
	s := New("test")
	f := newBlendFixture(t)
	outPath := filepath.Join(f.dir, "paste.png")

	out := callTool(t, s, "image_paste", f.args(map[string]interface{}{"output_path": outPath}))

	region := out["region"].(map[string]interface{})
	if region["interior_pixels"] != float64(4) || region["border_pixels"] != float64(12) {
		t.Errorf("mask counts: got %v", region)
	}

	saved, err := imaging.NewImageCache().Load(outPath)
	if err != nil {
		t.Fatalf("failed to load saved result: %v", err)
	}
	r, g, b, _ := saved.At(3, 3).RGBA()
	if r>>8 != 200 || g>>8 != 50 || b>>8 != 50 {
		t.Errorf("pasted pixel = (%d,%d,%d), want (200,50,50)", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = saved.At(2, 2).RGBA()
	if r>>8 != 128 {
		t.Errorf("pixel outside region changed: R=%d", r>>8)
	}
}

func TestHandleToolsCall_SaveRefreshesCache(t *testing.T) {
	s := New("test")
	f := newBlendFixture(t)
	outPath := createTestImageFile(t, 2, 2, color.Black)

	// Cache the old contents of the output path
	callTool(t, s, "image_dimensions", map[string]interface{}{"path": outPath})
	callTool(t, s, "image_paste", f.args(map[string]interface{}{"output_path": outPath}))

	out := callTool(t, s, "image_dimensions", map[string]interface{}{"path": outPath})
	if out["width"] != float64(10) {
		t.Errorf("stale cache entry: width %v, want 10", out["width"])
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New("test")
	f := newBlendFixture(t)

	args := map[string]map[string]interface{}{
		"image_load":                {"path": f.base},
		"image_dimensions":          {"path": f.base},
		"image_sample_color":        {"path": f.base, "x": 0, "y": 0},
		"image_sample_colors_multi": {"path": f.base, "points": []map[string]int{{"x": 1, "y": 1}}},
		"image_outline":             f.args(nil),
		"image_blend":               f.args(nil),
		"image_paste":               f.args(nil),
	}

	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			a, ok := args[tool.Name]
			if !ok {
				t.Fatalf("no test arguments for %s", tool.Name)
			}
			raw, _ := json.Marshal(a)
			if _, err := s.executeTool(tool.Name, raw); err != nil {
				t.Errorf("executeTool(%s) failed: %v", tool.Name, err)
			}
		})
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New("test")
	for _, tool := range GetToolDefinitions() {
		if _, err := s.executeTool(tool.Name, json.RawMessage(`{"path": 5`)); err == nil {
			t.Errorf("%s: expected error for invalid JSON", tool.Name)
		}
	}
}
