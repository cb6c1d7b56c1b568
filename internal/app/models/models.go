package models

import (
	"math/rand/v2"
	"strings"
)

// RoleType defines the role marker stored on staff and external identities
type RoleType string

const (
	RoleCounselor RoleType = "counselor"
	RoleStudent   RoleType = "student"
	// RoleExternalUser is the role every mirrored identity gets on Stream.
	RoleExternalUser RoleType = "USER"
)

// Color is a display color from the fixed palette.
type Color string

const (
	ColorRed    Color = "RED"
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorPurple Color = "PURPLE"
	ColorOrange Color = "ORANGE"
	ColorPink   Color = "PINK"
	ColorTeal   Color = "TEAL"
)

// Palette lists every assignable color.
var Palette = []Color{
	ColorRed, ColorBlue, ColorGreen, ColorYellow,
	ColorPurple, ColorOrange, ColorPink, ColorTeal,
}

// RandomColor draws a color uniformly from the palette.
func RandomColor() Color {
	return Palette[rand.IntN(len(Palette))]
}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Lower returns the lower-cased color name sent to external services.
func (c Color) Lower() string {
	return strings.ToLower(string(c))
}
