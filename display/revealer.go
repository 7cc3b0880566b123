package display

import (
	"errors"
	"io/fs"
	"time"
	"unicode"

	"islify/log"
)

const (
	DefaultLetterInterval = 800 * time.Millisecond
	DefaultLetterSize     = 500
)

// Revealer spells text one character per tick. Characters outside a-z, and
// letters whose image cannot be loaded, are skipped but still take a tick.
type Revealer struct {
	win      Window
	sched    Scheduler
	letters  LetterSource
	interval time.Duration

	text   []rune
	cursor int
	done   func()
	// run invalidates ticks from an earlier Reveal or after Stop.
	run uint64
}

func NewRevealer(win Window, sched Scheduler, letters LetterSource, interval time.Duration) *Revealer {
	if interval <= 0 {
		interval = DefaultLetterInterval
	}
	return &Revealer{win: win, sched: sched, letters: letters, interval: interval}
}

// Reveal starts spelling text. done runs one interval after the last
// character. Calling Reveal again abandons the previous run.
func (r *Revealer) Reveal(text string, done func()) {
	r.run++
	r.text = []rune(text)
	r.cursor = 0
	r.done = done
	r.step(r.run)
}

// Stop abandons the current run; pending ticks no-op and done is not called.
func (r *Revealer) Stop() {
	r.run++
}

func (r *Revealer) Cursor() int { return r.cursor }

func (r *Revealer) step(run uint64) {
	if run != r.run {
		return
	}
	if r.cursor >= len(r.text) {
		done := r.done
		r.sched.AfterFunc(r.interval, func() {
			if run == r.run && done != nil {
				done()
			}
		})
		return
	}

	r.showChar(unicode.ToLower(r.text[r.cursor]))
	r.cursor++
	r.sched.AfterFunc(r.interval, func() { r.step(run) })
}

func (r *Revealer) showChar(c rune) {
	if c < 'a' || c > 'z' {
		return
	}
	img, err := r.letters.Letter(c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			path := string(c)
			if ld, ok := r.letters.(LetterDir); ok {
				path = ld.Path(c)
			}
			log.MissingLetter(c, path)
		} else {
			log.Errorf("letter %q: %v", c, err)
		}
		return
	}
	r.win.Show(img)
	r.win.Recenter()
}
