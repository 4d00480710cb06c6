package frame

import (
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/imui"
)

// Embedded typeface names.
const (
	fontGoMono    = "Go-Mono"
	fontGoRegular = "Go-Regular"
	fontGoMedium  = "Go-Medium"
)

// headingSize replaces the stock heading size, which is far too large
// next to body text in a compact overlay.
const headingSize = 16

// InstallFonts installs the embedded Go typefaces on the context:
// Go Mono leads the monospace family with Go Regular as fallback, and
// Go Regular starts the proportional family (the theme may later swap
// in Go Medium). Fails fast if any face cannot be rasterized.
func InstallFonts(ctx *imui.Context) error {
	defs := imui.DefaultFontDefinitions()

	defs.FontData[fontGoMono] = gomono.TTF
	defs.FontData[fontGoRegular] = goregular.TTF
	defs.FontData[fontGoMedium] = gomedium.TTF

	defs.FontsForFamily[imui.Monospace] = append(
		defs.FontsForFamily[imui.Monospace], fontGoMono, fontGoRegular)
	defs.FontsForFamily[imui.Proportional] = append(
		defs.FontsForFamily[imui.Proportional], fontGoRegular)

	spec := defs.FamilyAndSize[imui.TextStyleHeading]
	spec.Size = headingSize
	defs.FamilyAndSize[imui.TextStyleHeading] = spec

	return ctx.SetFonts(defs)
}
