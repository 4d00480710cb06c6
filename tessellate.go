package imui

import "math"

// Tessellate converts paint commands into clipped triangle meshes in
// command order. Consecutive commands sharing a clip rectangle collapse
// into a single mesh so the backend issues fewer draws; command order
// is preserved exactly (painter's algorithm).
//
// Commands whose clip rectangle has no area are dropped: nothing they
// produce could survive the scissor test.
func (c *Context) Tessellate(commands []PaintCommand) []ClippedMesh {
	var jobs []ClippedMesh
	var cur *Mesh
	whiteUV := c.atlas.WhiteUV()

	for _, cmd := range commands {
		if cmd.ClipRect.IsEmpty() {
			continue
		}
		if len(jobs) == 0 || jobs[len(jobs)-1].ClipRect != cmd.ClipRect {
			jobs = append(jobs, ClippedMesh{
				ClipRect: cmd.ClipRect,
				Mesh:     Mesh{Texture: TextureFontAtlas},
			})
		}
		cur = &jobs[len(jobs)-1].Mesh

		switch s := cmd.Shape.(type) {
		case RectShape:
			if !s.Fill.IsTransparent() {
				addQuad(cur, s.Rect, whiteUV, whiteUV, s.Fill)
			}
			if s.Stroke.Width > 0 && !s.Stroke.Color.IsTransparent() {
				addRectOutline(cur, s.Rect, s.Stroke, whiteUV)
			}
		case LineShape:
			if s.Stroke.Width > 0 && !s.Stroke.Color.IsTransparent() {
				addLine(cur, s.From, s.To, s.Stroke, whiteUV)
			}
		case TextShape:
			c.addText(cur, s)
		}
	}

	// Drop groups whose shapes produced no geometry (fully transparent
	// or unknown glyphs only).
	out := jobs[:0]
	for _, j := range jobs {
		if len(j.Mesh.Indices) > 0 {
			out = append(out, j)
		}
	}
	return out
}

// addQuad appends one rectangle as two triangles. uvMin/uvMax are
// normalized texture coordinates for the rect's min and max corners.
func addQuad(m *Mesh, r Rect, uvMin, uvMax Pos2, col Color32) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: r.Min, UV: uvMin, Color: col},
		Vertex{Pos: Pos2{X: r.Max.X, Y: r.Min.Y}, UV: Pos2{X: uvMax.X, Y: uvMin.Y}, Color: col},
		Vertex{Pos: r.Max, UV: uvMax, Color: col},
		Vertex{Pos: Pos2{X: r.Min.X, Y: r.Max.Y}, UV: Pos2{X: uvMin.X, Y: uvMax.Y}, Color: col},
	)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
}

// addRectOutline draws the four edges of r as thin quads. Corner pixels
// are covered by extending the horizontal edges.
func addRectOutline(m *Mesh, r Rect, s Stroke, whiteUV Pos2) {
	w := s.Width
	top := Rect{Min: Pos2{X: r.Min.X, Y: r.Min.Y}, Max: Pos2{X: r.Max.X, Y: r.Min.Y + w}}
	bottom := Rect{Min: Pos2{X: r.Min.X, Y: r.Max.Y - w}, Max: Pos2{X: r.Max.X, Y: r.Max.Y}}
	left := Rect{Min: Pos2{X: r.Min.X, Y: r.Min.Y + w}, Max: Pos2{X: r.Min.X + w, Y: r.Max.Y - w}}
	right := Rect{Min: Pos2{X: r.Max.X - w, Y: r.Min.Y + w}, Max: Pos2{X: r.Max.X, Y: r.Max.Y - w}}
	for _, edge := range []Rect{top, bottom, left, right} {
		if !edge.IsEmpty() {
			addQuad(m, edge, whiteUV, whiteUV, s.Color)
		}
	}
}

// addLine draws a segment as one quad offset half the stroke width to
// each side of the segment direction.
func addLine(m *Mesh, from, to Pos2, s Stroke, whiteUV Pos2) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := sqrt32(dx*dx + dy*dy)
	if length == 0 {
		return
	}
	// Unit normal scaled to half the stroke width.
	nx := -dy / length * s.Width / 2
	ny := dx / length * s.Width / 2

	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: Pos2{X: from.X + nx, Y: from.Y + ny}, UV: whiteUV, Color: s.Color},
		Vertex{Pos: Pos2{X: to.X + nx, Y: to.Y + ny}, UV: whiteUV, Color: s.Color},
		Vertex{Pos: Pos2{X: to.X - nx, Y: to.Y - ny}, UV: whiteUV, Color: s.Color},
		Vertex{Pos: Pos2{X: from.X - nx, Y: from.Y - ny}, UV: whiteUV, Color: s.Color},
	)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
}

// addText lays out one line of text along the baseline, emitting one
// quad per glyph present in the atlas. Runes without a glyph (beyond
// the space character) are skipped silently.
func (c *Context) addText(m *Mesh, s TextShape) {
	metrics := c.atlas.Metrics(s.Style)
	aw, ah := c.atlas.Size()
	penX := s.Pos.X
	baseline := s.Pos.Y + metrics.Ascent

	for _, r := range s.Text {
		if r == ' ' {
			penX += metrics.LineHeight * 0.5
			continue
		}
		g, ok := c.atlas.Glyph(s.Style, r)
		if !ok {
			continue
		}
		penX0 := penX
		penX += g.Advance
		if g.Size.X <= 0 || g.Size.Y <= 0 {
			continue
		}
		quad := Rect{
			Min: Pos2{X: penX0 + g.Offset.X, Y: baseline + g.Offset.Y},
			Max: Pos2{X: penX0 + g.Offset.X + g.Size.X, Y: baseline + g.Offset.Y + g.Size.Y},
		}
		uvMin := Pos2{X: g.UV.Min.X / float32(aw), Y: g.UV.Min.Y / float32(ah)}
		uvMax := Pos2{X: g.UV.Max.X / float32(aw), Y: g.UV.Max.Y / float32(ah)}
		addQuad(m, quad, uvMin, uvMax, s.Color)
	}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
