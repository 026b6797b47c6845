package isobuild

import "image/color"

// Theme is the editor palette.
type Theme struct {
	Background   color.NRGBA
	Canvas       color.NRGBA // grid panel
	IsoCanvas    color.NRGBA // isometric panel
	Text         color.NRGBA
	GridLine     color.NRGBA
	GhostOutline color.NRGBA
	GhostText    color.NRGBA
	LabelText    color.NRGBA
	Hover        color.NRGBA
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// LightTheme is the light palette.
var LightTheme = Theme{
	Background:   rgb(0xf0, 0xf0, 0xf0),
	Canvas:       rgb(0xff, 0xff, 0xff),
	IsoCanvas:    rgb(0xad, 0xd8, 0xe6), // lightblue
	Text:         rgb(0x00, 0x00, 0x00),
	GridLine:     rgb(0xbe, 0xbe, 0xbe), // gray
	GhostOutline: rgb(0xd3, 0xd3, 0xd3), // lightgray
	GhostText:    rgb(0x99, 0x99, 0x99),
	LabelText:    rgb(0xff, 0xff, 0xff),
	Hover:        colorRed,
}

// DarkTheme is the dark palette.
var DarkTheme = Theme{
	Background:   rgb(0x2d, 0x2d, 0x2d),
	Canvas:       rgb(0x40, 0x40, 0x40),
	IsoCanvas:    rgb(0x1a, 0x1a, 0x2e),
	Text:         rgb(0xff, 0xff, 0xff),
	GridLine:     rgb(0x66, 0x66, 0x66),
	GhostOutline: rgb(0x55, 0x55, 0x55),
	GhostText:    rgb(0x66, 0x66, 0x66),
	LabelText:    rgb(0xff, 0xff, 0xff),
	Hover:        colorRed,
}
