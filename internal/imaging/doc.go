// Package imaging provides the image file plumbing around blending.
//
// It loads and caches source images, saves results, renders PNG previews for
// transport as text, samples pixel colors in every blend color model, and
// draws insertion outlines for checking a placement before blending.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward.
//
// # Formats
//
// Loading accepts PNG, JPEG, GIF, WEBP, BMP and TIFF, detected from the file
// contents. Saving picks the encoder from the file extension and supports
// every format above except WEBP.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input images.
package imaging
