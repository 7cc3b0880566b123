package listen

import (
	"context"
	"errors"
	"sync"
	"time"

	"islify/audio"
	"islify/log"
)

var ErrClosed = errors.New("listener closed")

type Options struct {
	Threshold   float64
	Pause       time.Duration
	PhraseLimit time.Duration
}

// Listener reads frames from a capture device and hands out utterances.
// Audio that arrives while nobody is listening is queued until Flush.
type Listener struct {
	dev audio.CaptureDevice
	seg *Segmenter

	mu      sync.Mutex
	pending []byte
	ready   chan struct{}
	closed  chan struct{}
	once    sync.Once
}

func New(dev audio.CaptureDevice, opts Options) *Listener {
	return &Listener{
		dev:    dev,
		seg:    NewSegmenter(opts.Threshold, opts.Pause, opts.PhraseLimit),
		ready:  make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Start attaches to the device and begins capturing.
func (l *Listener) Start() error {
	l.dev.SetCallback(l.onData)
	if err := l.dev.Start(); err != nil {
		l.dev.ClearCallback()
		return err
	}
	log.Infof("listening on %s", l.dev.DeviceName())
	return nil
}

func (l *Listener) Close() {
	l.once.Do(func() {
		close(l.closed)
		l.dev.ClearCallback()
		l.dev.Stop()
	})
}

func (l *Listener) onData(data []byte, _ uint32) {
	l.mu.Lock()
	l.pending = append(l.pending, data...)
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Flush discards queued audio and any partial utterance.
func (l *Listener) Flush() {
	l.mu.Lock()
	l.pending = l.pending[:0]
	l.mu.Unlock()
	l.seg.reset()
}

func (l *Listener) Threshold() float64 { return l.seg.Threshold }

// next blocks until a whole frame is queued.
func (l *Listener) next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.mu.Lock()
		if len(l.pending) >= FrameBytes {
			frame := make([]byte, FrameBytes)
			copy(frame, l.pending)
			l.pending = l.pending[FrameBytes:]
			l.mu.Unlock()
			return frame, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-l.closed:
			return nil, ErrClosed
		case <-l.ready:
		}
	}
}

// Calibrate samples dur of ambient audio and sets the threshold from its
// mean energy.
func (l *Listener) Calibrate(ctx context.Context, dur time.Duration) (float64, error) {
	start := time.Now()
	n := max(frames(dur), 1)
	var sum float64
	for i := 0; i < n; i++ {
		frame, err := l.next(ctx)
		if err != nil {
			return 0, err
		}
		sum += Energy(frame)
	}
	l.seg.Threshold = max(MinThreshold, sum/float64(n)*ambientRatio)
	log.Calibrated(l.seg.Threshold, time.Since(start))
	return l.seg.Threshold, nil
}

// Listen blocks until a complete utterance has been heard and returns its PCM.
func (l *Listener) Listen(ctx context.Context) ([]byte, error) {
	for {
		frame, err := l.next(ctx)
		if err != nil {
			l.seg.reset()
			return nil, err
		}
		if utt, ok := l.seg.Push(frame); ok {
			return utt, nil
		}
	}
}
