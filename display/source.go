package display

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"
)

const defaultFrameDelay = 100 * time.Millisecond

// Source is what a Player loads: a file on disk, an already decoded still
// image, or an already decoded GIF. Exactly one field is set.
type Source struct {
	path string
	img  image.Image
	anim *gif.GIF
}

func FromPath(path string) Source      { return Source{path: path} }
func FromImage(img image.Image) Source { return Source{img: img} }
func FromGIF(anim *gif.GIF) Source     { return Source{anim: anim} }

func (s Source) String() string {
	switch {
	case s.path != "":
		return s.path
	case s.anim != nil:
		return fmt.Sprintf("gif(%d frames)", len(s.anim.Image))
	case s.img != nil:
		return "image"
	}
	return "empty"
}

// FrameDecoder yields frames one at a time and returns io.EOF once the
// source has no more.
type FrameDecoder interface {
	Next() (image.Image, error)
	// Delay is the last non-zero frame delay decoded so far.
	Delay() time.Duration
}

func (s Source) decoder() (FrameDecoder, error) {
	switch {
	case s.anim != nil:
		return newGIFDecoder(s.anim)
	case s.img != nil:
		return &stillDecoder{img: s.img}, nil
	case s.path != "":
		return openPath(s.path)
	}
	return nil, errors.New("empty source")
}

func openPath(path string) (FrameDecoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if format == "gif" {
		anim, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return newGIFDecoder(anim)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &stillDecoder{img: img}, nil
}

// Frames decodes every frame of s.
func (s Source) Frames() ([]image.Image, error) {
	dec, err := s.decoder()
	if err != nil {
		return nil, err
	}
	return ReadFrames(dec)
}

// ReadFrames drains dec into a slice.
func ReadFrames(dec FrameDecoder) ([]image.Image, error) {
	var frames []image.Image
	for {
		img, err := dec.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
}

type stillDecoder struct {
	img  image.Image
	done bool
}

func (d *stillDecoder) Next() (image.Image, error) {
	if d.done {
		return nil, io.EOF
	}
	d.done = true
	return d.img, nil
}

func (d *stillDecoder) Delay() time.Duration { return defaultFrameDelay }

// gifDecoder composites each GIF frame onto a full canvas so every frame it
// returns is a complete picture, honoring the frame disposal methods.
type gifDecoder struct {
	anim   *gif.GIF
	next   int
	canvas *image.RGBA
	delay  time.Duration
}

func newGIFDecoder(anim *gif.GIF) (*gifDecoder, error) {
	if len(anim.Image) == 0 {
		return nil, errors.New("gif has no frames")
	}
	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		for _, fr := range anim.Image {
			bounds = bounds.Union(fr.Bounds())
		}
	}
	return &gifDecoder{
		anim:   anim,
		canvas: image.NewRGBA(bounds),
		delay:  defaultFrameDelay,
	}, nil
}

func (d *gifDecoder) Next() (image.Image, error) {
	if d.next >= len(d.anim.Image) {
		return nil, io.EOF
	}
	i := d.next
	d.next++

	fr := d.anim.Image[i]
	var disposal byte
	if i < len(d.anim.Disposal) {
		disposal = d.anim.Disposal[i]
	}
	if i < len(d.anim.Delay) && d.anim.Delay[i] > 0 {
		d.delay = time.Duration(d.anim.Delay[i]) * 10 * time.Millisecond
	}

	var restore *image.RGBA
	if disposal == gif.DisposalPrevious {
		restore = cloneRGBA(d.canvas)
	}
	draw.Draw(d.canvas, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
	out := cloneRGBA(d.canvas)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(d.canvas, fr.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		d.canvas = restore
	}
	return out, nil
}

func (d *gifDecoder) Delay() time.Duration { return d.delay }

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
