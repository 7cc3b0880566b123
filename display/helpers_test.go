package display

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// manualScheduler queues callbacks against a virtual clock. Zero-delay
// callbacks run inline when inline is set.
type manualScheduler struct {
	inline bool
	now    time.Duration
	seq    int
	queue  []task
}

type task struct {
	at  time.Duration
	seq int
	fn  func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	if d == 0 && m.inline {
		fn()
		return
	}
	m.seq++
	m.queue = append(m.queue, task{at: m.now + d, seq: m.seq, fn: fn})
}

func (m *manualScheduler) Pending() int { return len(m.queue) }

// Step runs the earliest callback and reports whether there was one.
func (m *manualScheduler) Step() bool {
	if len(m.queue) == 0 {
		return false
	}
	sort.SliceStable(m.queue, func(i, j int) bool {
		if m.queue[i].at != m.queue[j].at {
			return m.queue[i].at < m.queue[j].at
		}
		return m.queue[i].seq < m.queue[j].seq
	})
	next := m.queue[0]
	m.queue = m.queue[1:]
	m.now = next.at
	next.fn()
	return true
}

// Advance runs every callback due within d.
func (m *manualScheduler) Advance(d time.Duration) {
	deadline := m.now + d
	for {
		earliest := -1
		for i, tk := range m.queue {
			if tk.at <= deadline && (earliest < 0 || tk.at < m.queue[earliest].at ||
				(tk.at == m.queue[earliest].at && tk.seq < m.queue[earliest].seq)) {
				earliest = i
			}
		}
		if earliest < 0 {
			break
		}
		tk := m.queue[earliest]
		m.queue = append(m.queue[:earliest], m.queue[earliest+1:]...)
		m.now = tk.at
		tk.fn()
	}
	m.now = deadline
}

// loopScheduler runs callbacks on one goroutine, like a UI event loop.
type loopScheduler struct {
	work chan func()
	stop chan struct{}
}

func newLoopScheduler(t *testing.T) *loopScheduler {
	l := &loopScheduler{work: make(chan func(), 64), stop: make(chan struct{})}
	go func() {
		for {
			select {
			case fn := <-l.work:
				fn()
			case <-l.stop:
				return
			}
		}
	}()
	t.Cleanup(func() { close(l.stop) })
	return l
}

func (l *loopScheduler) AfterFunc(d time.Duration, fn func()) {
	if d <= 0 {
		select {
		case l.work <- fn:
		case <-l.stop:
		}
		return
	}
	time.AfterFunc(d, func() {
		select {
		case l.work <- fn:
		case <-l.stop:
		}
	})
}

type fakeWindow struct {
	mu        sync.Mutex
	shows     int
	clears    int
	recenters int
	closed    bool
	current   image.Image
	history   []image.Image
	onClosed  func()
}

func (w *fakeWindow) Show(img image.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shows++
	w.current = img
	w.history = append(w.history, img)
}

func (w *fakeWindow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clears++
	w.current = nil
}

func (w *fakeWindow) Recenter() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recenters++
}

func (w *fakeWindow) SetOnClosed(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = fn
}

func (w *fakeWindow) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	fn := w.onClosed
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (w *fakeWindow) Shows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}

func (w *fakeWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

type fakeFactory struct {
	mu      sync.Mutex
	titles  []string
	windows []*fakeWindow
}

func (f *fakeFactory) NewWindow(title string) (Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &fakeWindow{}
	f.titles = append(f.titles, title)
	f.windows = append(f.windows, w)
	return w, nil
}

var testPalette = color.Palette{
	color.RGBA{0, 0, 0, 0},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 0, 255, 255},
	color.RGBA{0, 255, 0, 255},
}

func solidFrame(r image.Rectangle, idx uint8) *image.Paletted {
	p := image.NewPaletted(r, testPalette)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.SetColorIndex(x, y, idx)
		}
	}
	return p
}

// testGIF builds an n-frame 8x8 animation with the given delay in centiseconds.
func testGIF(n, delay int) *gif.GIF {
	g := &gif.GIF{Config: image.Config{Width: 8, Height: 8, ColorModel: testPalette}}
	for i := 0; i < n; i++ {
		g.Image = append(g.Image, solidFrame(image.Rect(0, 0, 8, 8), uint8(1+i%3)))
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	return g
}

func writeGIF(t *testing.T, dir, name string, g *gif.GIF) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}
