package display

import (
	"errors"
	"image"
	"time"
)

// Player cycles the frames of an animation on a Surface. A single-frame
// source is shown once and nothing is scheduled.
//
// Player is not safe for concurrent use; every method must run on the UI
// goroutine that the Scheduler calls back on.
type Player struct {
	surface Surface
	sched   Scheduler

	frames []image.Image
	delay  time.Duration
	loc    int
	// gen invalidates ticks scheduled by an earlier Load or before Unload.
	gen uint64
}

func NewPlayer(surface Surface, sched Scheduler) *Player {
	return &Player{surface: surface, sched: sched}
}

// Load decodes every frame of src up front and starts playback. Decode
// errors, including a missing file, are returned and leave the previous
// animation untouched.
func (p *Player) Load(src Source) error {
	dec, err := src.decoder()
	if err != nil {
		return err
	}
	frames, err := ReadFrames(dec)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.New("source has no frames")
	}

	p.gen++
	p.frames = frames
	p.loc = 0
	p.delay = dec.Delay()
	if p.delay <= 0 {
		p.delay = defaultFrameDelay
	}

	p.surface.Show(frames[0])
	if len(frames) > 1 {
		p.schedule()
	}
	return nil
}

// Unload clears the surface and drops the frames. Ticks already scheduled
// become no-ops.
func (p *Player) Unload() {
	p.gen++
	p.frames = nil
	p.loc = 0
	p.surface.Clear()
}

// Stop ends playback without touching the surface, for use once the owning
// window is gone.
func (p *Player) Stop() {
	p.gen++
	p.frames = nil
}

func (p *Player) Cursor() int          { return p.loc }
func (p *Player) Len() int             { return len(p.frames) }
func (p *Player) Delay() time.Duration { return p.delay }

func (p *Player) schedule() {
	gen := p.gen
	p.sched.AfterFunc(p.delay, func() { p.nextFrame(gen) })
}

func (p *Player) nextFrame(gen uint64) {
	if gen != p.gen || len(p.frames) == 0 {
		return
	}
	p.loc = (p.loc + 1) % len(p.frames)
	p.surface.Show(p.frames[p.loc])
	p.schedule()
}
