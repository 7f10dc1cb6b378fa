package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when saving results as JPEG.
const DefaultJPEGQuality = 95

// Save writes img to path. The format follows the extension: .jpg, .jpeg,
// .png, .gif, .tif, .tiff or .bmp. Missing parent directories are created.
func Save(img image.Image, path string) error {
	path = ExpandPath(path)
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(DefaultJPEGQuality)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// EncodedImage is a PNG rendition of an image for transport as text.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ErrEmptyRegion is returned when a preview region has no pixels inside the image.
var ErrEmptyRegion = errors.New("region does not intersect the image")

// Preview crops region, grown by margin on every side and clipped to the
// image, and scales the crop by scale. A scale of 1 or less than or equal to
// zero keeps the original size.
func Preview(img image.Image, region image.Rectangle, margin int, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()
	r := region.Inset(-margin).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("%w: %v in %v", ErrEmptyRegion, region, bounds)
	}

	cropped := imaging.Crop(img, r)
	if scale != 1.0 && scale > 0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}
	return EncodePNG(cropped)
}
