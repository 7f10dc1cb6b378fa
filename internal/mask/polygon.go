package mask

import "image"

// fromPolygon traces the polygon into border cells and fills its interior
// row by row. Each traced cell is tagged by the direction of its edge: cells
// of edges that move up (end.Y < start.Y) open an interior run, cells of all
// other edges close it.
func fromPolygon(polygon []image.Point) *Mask {
	pts := orient(polygon)

	bounds := boundingBox(pts)
	m := newMask(bounds.Min, bounds.Dx()+1, bounds.Dy()+1)

	opening := make([]bool, len(m.border))
	closing := make([]bool, len(m.border))

	for i, end := range pts {
		start := pts[(i+len(pts)-1)%len(pts)]
		up := end.Y < start.Y
		for _, p := range Line(start, end) {
			k := (p.Y-m.Offset.Y)*m.Width + (p.X - m.Offset.X)
			m.border[k] = true
			if up {
				opening[k] = true
			} else {
				closing[k] = true
			}
		}
	}

	run := make([]int, 0, m.Width)
	for y := 0; y < m.Height; y++ {
		in := false
		run = run[:0]
		for x := 0; x < m.Width; x++ {
			k := y*m.Width + x
			switch {
			case opening[k] && !closing[k]:
				in = true
				run = run[:0]
			case closing[k] && !opening[k] && in:
				in = false
				for _, rx := range run {
					m.interior[y*m.Width+rx] = true
				}
				run = run[:0]
			case in && !m.border[k]:
				run = append(run, x)
			}
		}
	}

	return m
}

// orient returns the polygon in the winding the fill rule expects: positive
// signed area with y pointing down, so left-hand edges move up.
func orient(pts []image.Point) []image.Point {
	if signedArea2(pts) >= 0 {
		return pts
	}
	rev := make([]image.Point, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	return rev
}

// signedArea2 returns twice the shoelace area of the closed polygon.
func signedArea2(pts []image.Point) int {
	area := 0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area
}

func boundingBox(pts []image.Point) image.Rectangle {
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// Line returns the lattice path from p0 to p1, both ends included, using
// Bresenham's integer algorithm.
func Line(p0, p1 image.Point) []image.Point {
	dx := abs(p1.X - p0.X)
	dy := abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}

	points := make([]image.Point, 0, max(dx, dy)+1)
	points = append(points, p0)

	err := dx - dy
	x, y := p0.X, p0.Y
	for x != p1.X || y != p1.Y {
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
		points = append(points, image.Pt(x, y))
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
