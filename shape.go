package imui

// Shape is one primitive recorded by the painter during a frame.
type Shape interface {
	isShape()
}

// RectShape fills and/or outlines an axis-aligned rectangle.
// A transparent Fill or a zero-width Stroke disables that part.
type RectShape struct {
	Rect   Rect
	Fill   Color32
	Stroke Stroke
}

// LineShape draws a straight line segment.
type LineShape struct {
	From, To Pos2
	Stroke   Stroke
}

// TextShape draws a single line of text with its pen origin at Pos
// (left edge, baseline computed from the style's ascent).
type TextShape struct {
	Pos   Pos2
	Text  string
	Style TextStyle
	Color Color32
}

func (RectShape) isShape() {}
func (LineShape) isShape() {}
func (TextShape) isShape() {}

// PaintCommand pairs a shape with the clip rectangle that was active
// when it was recorded. Commands keep their recording order all the way
// through tessellation and GPU drawing.
type PaintCommand struct {
	ClipRect Rect
	Shape    Shape
}
