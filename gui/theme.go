//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	saffron = color.NRGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xff}
	india   = color.NRGBA{R: 0x13, G: 0x88, B: 0x08, A: 0xff}
)

// islifyTheme is the dark variant with a black canvas so letter images and
// gestures sit on a plain background, and no padding around the image.
type islifyTheme struct {
	fyne.Theme
}

func newTheme() fyne.Theme {
	return &islifyTheme{Theme: theme.DefaultTheme()}
}

func (t *islifyTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground:
		return color.Black
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return saffron
	case theme.ColorNameSuccess:
		return india
	}
	return t.Theme.Color(name, theme.VariantDark)
}

func (t *islifyTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 0
	}
	return t.Theme.Size(name)
}
