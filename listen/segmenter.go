// Package listen turns a stream of microphone audio into utterances using an
// adaptive energy threshold.
package listen

import (
	"encoding/binary"
	"math"
	"time"

	"islify/encoder"
)

const (
	FrameDuration = 50 * time.Millisecond
	FrameSamples  = int(encoder.SampleRate * FrameDuration / time.Second)
	FrameBytes    = FrameSamples * encoder.BytesPerFrame

	DefaultThreshold   = 300.0
	MinThreshold       = 100.0
	DefaultPause       = 800 * time.Millisecond
	DefaultPhraseLimit = 15 * time.Second

	// Speech shorter than this is treated as a click or cough.
	minPhrase = 300 * time.Millisecond
	// Audio kept before the onset and after the last loud frame.
	padding = 500 * time.Millisecond

	// Fraction of the threshold left after one second of adjustment.
	dampingPerSecond = 0.15
	ambientRatio     = 1.5
)

// Energy returns the RMS of a little-endian s16 frame.
func Energy(frame []byte) float64 {
	n := len(frame) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(frame[i*2:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}

// Envelope returns the energy of each whole frame in pcm.
func Envelope(pcm []byte) []float64 {
	out := make([]float64, 0, len(pcm)/FrameBytes)
	for i := 0; i+FrameBytes <= len(pcm); i += FrameBytes {
		out = append(out, Energy(pcm[i:i+FrameBytes]))
	}
	return out
}

func frames(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(FrameDuration)))
}

// Segmenter collects frames into one utterance. Push one FrameBytes frame at
// a time; it is not safe for concurrent use.
type Segmenter struct {
	Threshold float64
	Dynamic   bool

	pauseFrames   int
	limitFrames   int
	minFrames     int
	paddingFrames int
	damping       float64

	speaking bool
	preroll  [][]byte
	buf      []byte
	nframes  int
	onset    int // preroll frames at the start of buf
	quiet    int
}

func NewSegmenter(threshold float64, pause, limit time.Duration) *Segmenter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if pause <= 0 {
		pause = DefaultPause
	}
	if limit <= 0 {
		limit = DefaultPhraseLimit
	}
	return &Segmenter{
		Threshold:     threshold,
		Dynamic:       true,
		pauseFrames:   frames(pause),
		limitFrames:   frames(limit),
		minFrames:     frames(minPhrase),
		paddingFrames: min(frames(padding), frames(pause)),
		damping:       math.Pow(dampingPerSecond, FrameDuration.Seconds()),
	}
}

// Speaking reports whether an utterance is in progress.
func (s *Segmenter) Speaking() bool { return s.speaking }

// Adjust moves the threshold toward ambientRatio times energy.
func (s *Segmenter) Adjust(energy float64) {
	target := energy * ambientRatio
	s.Threshold = max(MinThreshold, s.Threshold*s.damping+target*(1-s.damping))
}

// Push feeds one frame. It returns the utterance once a pause or the phrase
// limit ends it.
func (s *Segmenter) Push(frame []byte) ([]byte, bool) {
	e := Energy(frame)
	if !s.speaking {
		if e <= s.Threshold {
			if s.Dynamic {
				s.Adjust(e)
			}
			s.preroll = append(s.preroll, frame)
			if len(s.preroll) > s.paddingFrames {
				s.preroll = s.preroll[1:]
			}
			return nil, false
		}
		s.speaking = true
		s.buf = s.buf[:0]
		for _, f := range s.preroll {
			s.buf = append(s.buf, f...)
		}
		s.nframes = len(s.preroll)
		s.onset = s.nframes
		s.preroll = nil
		s.quiet = 0
	}

	s.buf = append(s.buf, frame...)
	s.nframes++
	if e > s.Threshold {
		s.quiet = 0
	} else {
		s.quiet++
	}

	switch {
	case s.nframes >= s.limitFrames:
		return s.finish(0), true
	case s.quiet >= s.pauseFrames:
		if s.nframes-s.onset-s.quiet < s.minFrames {
			s.reset()
			return nil, false
		}
		return s.finish(s.quiet - s.paddingFrames), true
	}
	return nil, false
}

func (s *Segmenter) finish(trim int) []byte {
	out := s.buf
	if trim > 0 {
		out = out[:len(out)-trim*FrameBytes]
	}
	utt := make([]byte, len(out))
	copy(utt, out)
	s.reset()
	return utt
}

// reset drops any partial utterance.
func (s *Segmenter) reset() {
	s.speaking = false
	s.buf = s.buf[:0]
	s.preroll = nil
	s.nframes = 0
	s.onset = 0
	s.quiet = 0
}
