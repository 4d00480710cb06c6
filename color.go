package imui

import "image/color"

// Color32 is a premultiplied sRGBA color with 8 bits per channel, the
// format vertices carry to the GPU (unorm8x4).
type Color32 struct {
	R, G, B, A uint8
}

// Stock colors used by the default visuals.
var (
	ColorTransparent = Color32{}
	ColorBlack       = Color32{A: 255}
	ColorWhite       = Color32{R: 255, G: 255, B: 255, A: 255}
)

// Gray creates an opaque gray color with all channels set to v.
func Gray(v uint8) Color32 {
	return Color32{R: v, G: v, B: v, A: 255}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b uint8) Color32 {
	return Color32{R: r, G: g, B: b, A: 255}
}

// FromColor converts a standard color.Color to Color32.
// color.Color values are already alpha-premultiplied, so the conversion
// is a straight 16-to-8 bit narrowing per channel.
func FromColor(c color.Color) Color32 {
	r, g, b, a := c.RGBA()
	return Color32{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

// Color converts Color32 to the standard color.Color interface.
func (c Color32) Color() color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsTransparent reports whether the color is fully transparent.
func (c Color32) IsTransparent() bool { return c.A == 0 }
