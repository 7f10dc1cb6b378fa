// Package blend performs seamless (Poisson) image compositing.
//
// Blend inserts a region of an overlay image into a base image. Inside the
// region the result reproduces the overlay's gradients; on the region border
// it takes the base colors, so the seam disappears. The steps are:
//
//  1. Build the region mask from a polygon, or from the whole overlay.
//  2. Accumulate the guidance field (AddGuidanceField) and the known border
//     colors (AddBorderColors) into the right-hand side of the system.
//  3. Solve one scalar system per color channel (package solver).
//  4. Composite the solved interior pixels into a copy of the base.
//
// # Coordinates
//
// The polygon is given in overlay coordinates. The mask's bounding box is
// placed at insert + offset in the base image. Both images are treated as if
// their bounds started at (0,0).
//
// # Logging
//
// Progress messages go to Options.Log. Package diagnostics go to the
// slog.Logger set with SetLogger and are silent by default.
package blend
