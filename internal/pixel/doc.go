// Package pixel provides the channel-vector representation of colors used by
// the blending solver.
//
// A Vector is a fixed-size array of float64 channels tagged with the color
// Model it belongs to. Arithmetic works per channel and never clamps; values
// are clamped to each model's valid range only when converting back to a
// device color with Vector.Color.
//
// # Color Models
//
// The supported models and their channel ranges are:
//   - RGB: R, G, B in 0-255 (device passthrough)
//   - HSL: H, S, L in 0-1 (hue is stored as a fraction of a full turn)
//   - CMY: C, M, Y in 0-1
//   - CMYK: C, M, Y, K in 0-1
//
// # Errors
//
// Combining vectors of different models returns ErrModelMismatch. Looking up a
// channel name the model does not define returns ErrUnknownChannel.
package pixel
