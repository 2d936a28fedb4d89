package layout

import (
	"fmt"
	"math"
)

const white = 0xFFFFFF

// AlphaHex encodes opacity as the inverted two digit ASS alpha byte.
func AlphaHex(opacity float64) string {
	a := math.Round((1 - opacity) * 255)
	a = math.Max(0, math.Min(255, a))
	return fmt.Sprintf("%02X", int(a))
}

// Colour converts packed 0xRRGGBB into &HAABBGGRR.
func Colour(rgb uint32, opacity float64) string {
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF
	return fmt.Sprintf("&H%s%02X%02X%02X", AlphaHex(opacity), b, g, r)
}

// DefaultColour is the style's primary colour: white at the configured
// opacity.
func DefaultColour(opacity float64) string {
	return Colour(white, opacity)
}

// ColourOverride returns the per-event colour tag, or "" when the event
// uses the default colour.
func (c Config) ColourOverride(rgb uint32) string {
	colour := Colour(rgb, c.Opacity)
	if colour == DefaultColour(c.Opacity) {
		return ""
	}
	return "{\\c" + colour + "}"
}
