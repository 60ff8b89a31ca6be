package board

import "fmt"

// Point is an image-space position in pixels; y grows downward.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for integer pixel positions.
func Pt(x, y int) Point { return Point{X: float64(x), Y: float64(y)} }

// Quad is the image-space outline of one square.
type Quad struct {
	TopLeft     Point
	TopRight    Point
	BottomLeft  Point
	BottomRight Point
}

// Contains reports whether p lies inside the quad. A point is rejected only
// when it is beyond both corners of the same edge, so near slanted edges
// the test is looser than a true polygon test.
func (q Quad) Contains(p Point) bool {
	if p.X < q.TopLeft.X && p.X < q.BottomLeft.X {
		return false
	}
	if p.Y < q.TopLeft.Y && p.Y < q.TopRight.Y {
		return false
	}
	if p.X > q.TopRight.X && p.X > q.BottomRight.X {
		return false
	}
	if p.Y > q.BottomLeft.Y && p.Y > q.BottomRight.Y {
		return false
	}
	return true
}

// Center is the mean of the four corners.
func (q Quad) Center() Point {
	return Point{
		X: (q.TopLeft.X + q.TopRight.X + q.BottomLeft.X + q.BottomRight.X) / 4,
		Y: (q.TopLeft.Y + q.TopRight.Y + q.BottomLeft.Y + q.BottomRight.Y) / 4,
	}
}

const gridCorners = 81

// gridQuads assembles the 9x9 corner lattice into an 8x8 grid indexed
// [h][v]. Corner 9*h+v is the top-left of cell (h, v); +9 steps to the
// next h, +1 to the next v.
func gridQuads(corners []Point) ([8][8]Quad, error) {
	var grid [8][8]Quad
	if len(corners) != gridCorners {
		return grid, fmt.Errorf("expected %d grid corners, got %d", gridCorners, len(corners))
	}
	for h := 0; h < 8; h++ {
		for v := 0; v < 8; v++ {
			base := 9*h + v
			grid[h][v] = Quad{
				TopLeft:     corners[base],
				TopRight:    corners[base+9],
				BottomLeft:  corners[base+1],
				BottomRight: corners[base+10],
			}
		}
	}
	return grid, nil
}
