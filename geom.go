package imui

// Pos2 is a position or vector in logical points.
// Origin (0,0) is the top-left corner of the screen rect; X increases
// right and Y increases down.
type Pos2 struct {
	X, Y float32
}

// Pos is a convenience function to create a Pos2.
func Pos(x, y float32) Pos2 {
	return Pos2{X: x, Y: y}
}

// Add returns the sum of two positions (vector addition).
func (p Pos2) Add(q Pos2) Pos2 {
	return Pos2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two positions (vector subtraction).
func (p Pos2) Sub(q Pos2) Pos2 {
	return Pos2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle in logical points, defined by its
// min (top-left) and max (bottom-right) corners.
type Rect struct {
	Min, Max Pos2
}

// RectMinMax creates a Rect from two corners.
func RectMinMax(min, max Pos2) Rect {
	return Rect{Min: min, Max: max}
}

// RectXYWH creates a Rect from a top-left corner and a size.
func RectXYWH(x, y, w, h float32) Rect {
	return Rect{Min: Pos2{X: x, Y: y}, Max: Pos2{X: x + w, Y: y + h}}
}

// Width returns the rectangle width. Negative for an inverted rect.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns the rectangle height. Negative for an inverted rect.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// IsEmpty reports whether the rectangle has no positive area.
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains reports whether p lies inside the rectangle.
// The max edges are exclusive.
func (r Rect) Contains(p Pos2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersect returns the overlap of two rectangles. The result may be
// empty (check with IsEmpty).
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Min: Pos2{X: max32(r.Min.X, o.Min.X), Y: max32(r.Min.Y, o.Min.Y)},
		Max: Pos2{X: min32(r.Max.X, o.Max.X), Y: min32(r.Max.Y, o.Max.Y)},
	}
	return out
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
