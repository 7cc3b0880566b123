//go:build gui

package gui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"fyne.io/fyne/v2"
)

// trayIcon draws a 22px saffron dot with a green ring.
func trayIcon() (fyne.Resource, error) {
	const size = 22
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - center + 0.5
			dy := float64(y) - center + 0.5
			switch dist := math.Sqrt(dx*dx + dy*dy); {
			case dist < 5:
				img.Set(x, y, color.RGBA{255, 153, 51, 255})
			case dist < 8:
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			case dist < 10:
				img.Set(x, y, color.RGBA{19, 136, 8, 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return fyne.NewStaticResource("tray.png", buf.Bytes()), nil
}
