package domain

// Color is one of the fixed highlight palette names.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
)

// DefaultColor matches the backend model default (#FFFF00).
const DefaultColor = ColorYellow

var colorHex = map[Color]string{
	ColorYellow: "#FFFF00",
	ColorGreen:  "#98FB98",
	ColorBlue:   "#87CEEB",
	ColorPink:   "#FFB6C1",
	ColorPurple: "#DDA0DD",
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	_, ok := colorHex[c]
	return ok
}

// Hex returns the CSS hex value for the color. Unknown colors fall back to
// the default so a stored record with a bad color still renders.
func (c Color) Hex() string {
	if hex, ok := colorHex[c]; ok {
		return hex
	}
	return colorHex[DefaultColor]
}

// Palette returns the palette names in a stable order.
func Palette() []Color {
	return []Color{ColorYellow, ColorGreen, ColorBlue, ColorPink, ColorPurple}
}
