package detect

import "github.com/park285/Cheese-board-tracker/internal/board"

// Anchor reduces a box to a point near the base of the piece: horizontally
// centred, 15% of the box height above the bottom edge. Coordinates are
// truncated to whole pixels first.
func Anchor(b Box) board.Point {
	xmin, ymin := int(b.XMin), int(b.YMin)
	xmax, ymax := int(b.XMax), int(b.YMax)
	height := float64(ymin - ymax)
	return board.Pt(int(float64(xmin+xmax)*0.5), ymax+int(height*0.15))
}

// Boundary finds the leftmost and rightmost pieces of a frame: the
// rightmost maximizes x*y and the leftmost minimizes x/y. Ties go to the
// later detection. Points on y == 0 never qualify as leftmost.
func Boundary(dets []board.Detection) (left, right board.Detection, ok bool) {
	var haveLeft, haveRight bool
	var lowest, highest float64
	for _, d := range dets {
		if prod := d.Point.X * d.Point.Y; !haveRight || prod >= highest {
			highest, right, haveRight = prod, d, true
		}
		if d.Point.Y == 0 {
			continue
		}
		if ratio := d.Point.X / d.Point.Y; !haveLeft || ratio <= lowest {
			lowest, left, haveLeft = ratio, d, true
		}
	}
	return left, right, haveLeft && haveRight
}

// BoundaryColors returns the color prefixes of the boundary pieces, the
// input to board orientation.
func BoundaryColors(dets []board.Detection) (left, right board.Color, err error) {
	l, r, ok := Boundary(dets)
	if !ok {
		return board.NoColor, board.NoColor, ErrNoBoundary
	}
	return l.Label.Color(), r.Label.Color(), nil
}
