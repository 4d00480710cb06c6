package imui

// FontFamily selects between the two logical font families.
type FontFamily int

const (
	// Proportional is the family used for regular UI text.
	Proportional FontFamily = iota

	// Monospace is the family used for fixed-width text.
	Monospace
)

// String returns the family name.
func (f FontFamily) String() string {
	switch f {
	case Proportional:
		return "Proportional"
	case Monospace:
		return "Monospace"
	default:
		return "Unknown"
	}
}

// TextStyle names a semantic text role. Each style maps to a family and
// size through [FontDefinitions.FamilyAndSize].
type TextStyle int

const (
	TextStyleSmall TextStyle = iota
	TextStyleBody
	TextStyleButton
	TextStyleHeading
	TextStyleMonospace
)

// String returns the text style name.
func (t TextStyle) String() string {
	switch t {
	case TextStyleSmall:
		return "Small"
	case TextStyleBody:
		return "Body"
	case TextStyleButton:
		return "Button"
	case TextStyleHeading:
		return "Heading"
	case TextStyleMonospace:
		return "Monospace"
	default:
		return "Unknown"
	}
}

// allTextStyles lists every style the atlas rasterizes.
var allTextStyles = []TextStyle{
	TextStyleSmall, TextStyleBody, TextStyleButton, TextStyleHeading, TextStyleMonospace,
}

// FontSpec binds a text style to a family and a size in logical points.
type FontSpec struct {
	Family FontFamily
	Size   float32
}

// FontDefinitions describes every font the toolkit can use: the raw
// font data, the per-family fallback order, and the per-style family
// and size assignments.
//
// Installing definitions with [Context.SetFonts] rebuilds the glyph
// atlas and bumps its generation, so backends re-upload the atlas
// texture on the next frame.
type FontDefinitions struct {
	// FontData maps a font name to its raw TTF/OTF bytes.
	FontData map[string][]byte

	// FontsForFamily maps each family to an ordered fallback list of
	// font names. The first entry is the primary face; later entries
	// are consulted for glyphs the primary face lacks.
	FontsForFamily map[FontFamily][]string

	// FamilyAndSize maps each text style to its family and size.
	FamilyAndSize map[TextStyle]FontSpec
}

// DefaultFontDefinitions returns the stock definitions: empty font
// tables and stock per-style sizes. The stock Heading size is far too
// large for compact UIs; callers installing fonts usually override it.
func DefaultFontDefinitions() FontDefinitions {
	return FontDefinitions{
		FontData:       make(map[string][]byte),
		FontsForFamily: make(map[FontFamily][]string),
		FamilyAndSize: map[TextStyle]FontSpec{
			TextStyleSmall:     {Family: Proportional, Size: 10},
			TextStyleBody:      {Family: Proportional, Size: 14},
			TextStyleButton:    {Family: Proportional, Size: 14},
			TextStyleHeading:   {Family: Proportional, Size: 30},
			TextStyleMonospace: {Family: Monospace, Size: 14},
		},
	}
}

// Clone returns a deep copy of the definitions. Font data slices are
// shared (they are treated as immutable); maps and fallback lists are
// copied so mutations to the clone never alias the original.
func (d FontDefinitions) Clone() FontDefinitions {
	out := FontDefinitions{
		FontData:       make(map[string][]byte, len(d.FontData)),
		FontsForFamily: make(map[FontFamily][]string, len(d.FontsForFamily)),
		FamilyAndSize:  make(map[TextStyle]FontSpec, len(d.FamilyAndSize)),
	}
	for name, data := range d.FontData {
		out.FontData[name] = data
	}
	for fam, names := range d.FontsForFamily {
		out.FontsForFamily[fam] = append([]string(nil), names...)
	}
	for style, spec := range d.FamilyAndSize {
		out.FamilyAndSize[style] = spec
	}
	return out
}
