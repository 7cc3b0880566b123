package display

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// LetterSource returns the spelling image for a lowercase letter.
type LetterSource interface {
	Letter(c rune) (image.Image, error)
}

// LetterDir loads <Dir>/<c>.jpg and scales it to Size x Size.
type LetterDir struct {
	Dir  string
	Size int
}

func (l LetterDir) Path(c rune) string {
	return filepath.Join(l.Dir, string(c)+".jpg")
}

func (l LetterDir) Letter(c rune) (image.Image, error) {
	path := l.Path(c)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if l.Size <= 0 {
		return src, nil
	}
	return Resize(src, l.Size, l.Size), nil
}

// Resize scales src to exactly w x h.
func Resize(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
