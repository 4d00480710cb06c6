package imui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrFontLoad is returned when font data cannot be parsed or a family
// references a font name with no data. Atlas construction fails fast on
// bad fonts instead of degrading to missing glyphs.
var ErrFontLoad = errors.New("imui: font load failed")

// atlasWidth is the fixed pixel width of the glyph atlas. Rows of
// glyphs are shelf-packed into this width and the atlas grows downward.
const atlasWidth = 1024

// glyphPadding is the pixel gap between packed glyphs, preventing
// bleed when the texture is sampled with linear filtering.
const glyphPadding = 1

// asciiFirst and asciiLast bound the printable ASCII range the atlas
// rasterizes for every text style.
const (
	asciiFirst = '!'
	asciiLast  = '~'
)

// Glyph describes one rasterized glyph in the atlas.
type Glyph struct {
	// UV is the glyph's pixel rectangle inside the atlas image.
	UV Rect

	// Offset is the top-left of the glyph quad relative to the pen
	// position on the baseline.
	Offset Pos2

	// Size is the glyph quad size in logical points.
	Size Pos2

	// Advance is the pen advance after this glyph.
	Advance float32
}

// StyleMetrics carries the vertical metrics of one text style.
type StyleMetrics struct {
	Ascent     float32
	LineHeight float32
}

// FontAtlas is a CPU-side glyph atlas: every printable ASCII glyph of
// every text style rasterized into one premultiplied RGBA image, plus a
// small solid-white region used as the UV for untextured shapes.
//
// The Generation counter increases every time the atlas is rebuilt.
// GPU backends compare it against the generation of their uploaded
// texture and re-upload only when it changed.
type FontAtlas struct {
	image      *image.RGBA
	glyphs     map[TextStyle]map[rune]Glyph
	metrics    map[TextStyle]StyleMetrics
	whiteUV    Pos2
	generation uint64
}

// buildFontAtlas rasterizes defs into a fresh atlas carrying the given
// generation number.
func buildFontAtlas(defs FontDefinitions, generation uint64) (*FontAtlas, error) {
	parsed := make(map[string]*opentype.Font, len(defs.FontData))
	for name, data := range defs.FontData {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %q: %v", ErrFontLoad, name, err)
		}
		parsed[name] = f
	}

	a := &FontAtlas{
		image:      image.NewRGBA(image.Rect(0, 0, atlasWidth, 256)),
		glyphs:     make(map[TextStyle]map[rune]Glyph),
		metrics:    make(map[TextStyle]StyleMetrics),
		generation: generation,
	}
	p := packer{atlas: a}

	// A solid white block at the top-left gives untextured shapes a UV
	// to sample. Its center stays clear of neighboring glyphs.
	wx, wy := p.alloc(4, 4)
	draw.Draw(a.image, image.Rect(wx, wy, wx+4, wy+4), image.NewUniform(color.White), image.Point{}, draw.Src)
	a.whiteUV = Pos2{X: float32(wx) + 2, Y: float32(wy) + 2}

	for _, style := range allTextStyles {
		spec, ok := defs.FamilyAndSize[style]
		if !ok {
			continue
		}
		faces, err := openFaces(parsed, defs.FontsForFamily[spec.Family], spec.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: style %v: %v", ErrFontLoad, style, err)
		}
		if len(faces) == 0 {
			continue
		}

		m := faces[0].Metrics()
		a.metrics[style] = StyleMetrics{
			Ascent:     fromFixed(m.Ascent),
			LineHeight: fromFixed(m.Height),
		}

		table := make(map[rune]Glyph)
		for r := rune(asciiFirst); r <= asciiLast; r++ {
			g, ok := p.rasterize(faces, r)
			if ok {
				table[r] = g
			}
		}
		a.glyphs[style] = table
	}

	a.trim(p.usedHeight())
	return a, nil
}

// Image returns the atlas pixels: premultiplied RGBA, white glyphs on
// transparent background. The returned image is owned by the atlas and
// must not be modified.
func (a *FontAtlas) Image() *image.RGBA { return a.image }

// Size returns the atlas dimensions in pixels.
func (a *FontAtlas) Size() (width, height int) {
	b := a.image.Bounds()
	return b.Dx(), b.Dy()
}

// Generation returns the atlas build counter. It strictly increases
// across rebuilds of the same Context's fonts.
func (a *FontAtlas) Generation() uint64 { return a.generation }

// WhiteUV returns the normalized UV of the solid-white region.
func (a *FontAtlas) WhiteUV() Pos2 {
	w, h := a.Size()
	return Pos2{X: a.whiteUV.X / float32(w), Y: a.whiteUV.Y / float32(h)}
}

// Glyph looks up the glyph for r in the given text style.
func (a *FontAtlas) Glyph(style TextStyle, r rune) (Glyph, bool) {
	g, ok := a.glyphs[style][r]
	return g, ok
}

// Metrics returns the vertical metrics for a text style. Styles with no
// installed fonts report zero metrics.
func (a *FontAtlas) Metrics(style TextStyle) StyleMetrics {
	return a.metrics[style]
}

// MeasureText returns the advance width of s in the given style.
// Runes with no atlas glyph contribute no width; spaces advance by the
// style's space advance approximated as half the line height.
func (a *FontAtlas) MeasureText(style TextStyle, s string) float32 {
	var w float32
	for _, r := range s {
		if r == ' ' {
			w += a.metrics[style].LineHeight * 0.5
			continue
		}
		if g, ok := a.glyphs[style][r]; ok {
			w += g.Advance
		}
	}
	return w
}

// trim shrinks the atlas image to the used height, rounded up so the
// backend's row stride assumptions stay simple.
func (a *FontAtlas) trim(used int) {
	h := (used + 3) &^ 3
	if h < 4 {
		h = 4
	}
	b := a.image.Bounds()
	if h >= b.Dy() {
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, atlasWidth, h))
	draw.Draw(dst, dst.Bounds(), a.image, image.Point{}, draw.Src)
	a.image = dst
}

// openFaces creates one face per fallback entry, in fallback order.
func openFaces(parsed map[string]*opentype.Font, names []string, size float32) ([]font.Face, error) {
	faces := make([]font.Face, 0, len(names))
	for _, name := range names {
		f, ok := parsed[name]
		if !ok {
			return nil, fmt.Errorf("no data for font %q", name)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("face for font %q: %v", name, err)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

// packer shelf-packs glyph rectangles into the atlas image, growing it
// downward as rows fill up.
type packer struct {
	atlas     *FontAtlas
	penX      int
	penY      int
	rowHeight int
}

// alloc reserves a w x h pixel rectangle and returns its top-left.
func (p *packer) alloc(w, h int) (x, y int) {
	if p.penX+w+glyphPadding > atlasWidth {
		p.penY += p.rowHeight + glyphPadding
		p.penX = 0
		p.rowHeight = 0
	}
	if h > p.rowHeight {
		p.rowHeight = h
	}
	p.ensureHeight(p.penY + p.rowHeight)
	x, y = p.penX, p.penY
	p.penX += w + glyphPadding
	return x, y
}

func (p *packer) usedHeight() int {
	return p.penY + p.rowHeight + glyphPadding
}

// ensureHeight grows the atlas image until at least h rows fit.
func (p *packer) ensureHeight(h int) {
	b := p.atlas.image.Bounds()
	if h <= b.Dy() {
		return
	}
	newH := b.Dy()
	for newH < h {
		newH *= 2
	}
	dst := image.NewRGBA(image.Rect(0, 0, atlasWidth, newH))
	draw.Draw(dst, b, p.atlas.image, image.Point{}, draw.Src)
	p.atlas.image = dst
}

// rasterize draws r using the first face that has a glyph for it and
// records its packed location. Returns false when no face covers r.
func (p *packer) rasterize(faces []font.Face, r rune) (Glyph, bool) {
	for _, face := range faces {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := dr.Dx(), dr.Dy()
		if w <= 0 || h <= 0 {
			// Whitespace-like glyph: advance but nothing to draw.
			return Glyph{Advance: fromFixed(advance)}, true
		}
		x, y := p.alloc(w, h)
		draw.DrawMask(p.atlas.image, image.Rect(x, y, x+w, y+h),
			image.NewUniform(color.White), image.Point{}, mask, maskp, draw.Over)
		return Glyph{
			UV:      RectXYWH(float32(x), float32(y), float32(w), float32(h)),
			Offset:  Pos2{X: float32(dr.Min.X), Y: float32(dr.Min.Y)},
			Size:    Pos2{X: float32(w), Y: float32(h)},
			Advance: fromFixed(advance),
		}, true
	}
	return Glyph{}, false
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
