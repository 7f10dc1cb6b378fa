// Package mask builds the region of a blend: which cells are known border
// values, which are unknown interior pixels, and how interior pixels connect.
//
// Coordinates passed to the query methods are local to the mask, with (0,0)
// at Offset in overlay-image coordinates.
package mask

import "image"

// Mask classifies the cells of a width x height rectangle and indexes the
// interior cells compactly. Its topology never changes after Build.
type Mask struct {
	Width  int
	Height int

	// Offset is the top-left corner of the mask in overlay-image coordinates.
	Offset image.Point

	border   []bool
	interior []bool

	pixels    []image.Point
	index     map[image.Point]int
	neighbors [][]int
}

// Build creates the mask for a polygon boundary. A polygon with fewer than 3
// points selects the whole fallbackWidth x fallbackHeight rectangle: its
// outer ring is the border and everything else is interior.
func Build(polygon []image.Point, fallbackWidth, fallbackHeight int) *Mask {
	var m *Mask
	if len(polygon) >= 3 {
		m = fromPolygon(polygon)
	} else {
		m = fromRect(fallbackWidth, fallbackHeight)
	}
	m.buildIndex()
	return m
}

func newMask(offset image.Point, width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:    width,
		Height:   height,
		Offset:   offset,
		border:   make([]bool, width*height),
		interior: make([]bool, width*height),
	}
}

func fromRect(width, height int) *Mask {
	m := newMask(image.Point{}, width, height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			k := y*m.Width + x
			if x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1 {
				m.border[k] = true
			} else {
				m.interior[k] = true
			}
		}
	}
	return m
}

// buildIndex numbers the interior cells in row-major order and resolves each
// one's interior 4-neighbors to compact indices.
func (m *Mask) buildIndex() {
	m.index = make(map[image.Point]int)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.interior[y*m.Width+x] {
				p := image.Pt(x, y)
				m.index[p] = len(m.pixels)
				m.pixels = append(m.pixels, p)
			}
		}
	}

	m.neighbors = make([][]int, len(m.pixels))
	for i, p := range m.pixels {
		list := make([]int, 0, 4)
		for _, q := range Neighbors4(p) {
			if j, ok := m.index[q]; ok {
				list = append(list, j)
			}
		}
		m.neighbors[i] = list
	}
}

// Neighbors4 returns the left, right, upper and lower grid neighbors of p.
func Neighbors4(p image.Point) [4]image.Point {
	return [4]image.Point{
		{p.X - 1, p.Y},
		{p.X + 1, p.Y},
		{p.X, p.Y - 1},
		{p.X, p.Y + 1},
	}
}

// Bounds returns the local rectangle covered by the mask.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *Mask) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// IsBorder reports whether (x, y) lies on the region boundary.
func (m *Mask) IsBorder(x, y int) bool {
	return m.inside(x, y) && m.border[y*m.Width+x]
}

// IsInterior reports whether (x, y) is an unknown pixel to be solved.
func (m *Mask) IsInterior(x, y int) bool {
	return m.inside(x, y) && m.interior[y*m.Width+x]
}

// IsFull reports whether (x, y) belongs to the region at all.
func (m *Mask) IsFull(x, y int) bool {
	return m.IsBorder(x, y) || m.IsInterior(x, y)
}

// Len returns the number of interior pixels.
func (m *Mask) Len() int { return len(m.pixels) }

// Pixel returns the local coordinate of compact index i.
func (m *Mask) Pixel(i int) image.Point { return m.pixels[i] }

// Index returns the compact index of a local coordinate, if it is interior.
func (m *Mask) Index(p image.Point) (int, bool) {
	i, ok := m.index[p]
	return i, ok
}

// Neighbors returns the compact indices of the interior 4-neighbors of i.
func (m *Mask) Neighbors(i int) []int { return m.neighbors[i] }

// Adjacency returns the neighbor lists of every interior pixel. The result is
// shared with the mask and must be treated as read-only.
func (m *Mask) Adjacency() [][]int { return m.neighbors }

// BorderCount returns the number of border cells.
func (m *Mask) BorderCount() int {
	n := 0
	for _, b := range m.border {
		if b {
			n++
		}
	}
	return n
}
