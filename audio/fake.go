package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"islify/encoder"
)

const (
	fakeFrameSize     = 800 // 50ms at 16kHz
	fakeBytesPerFrame = encoder.BytesPerFrame
)

// FakeContext replays a fixed PCM buffer as if it came from a microphone,
// then keeps delivering silence until stopped.
type FakeContext struct {
	pcm      []byte
	realtime bool
}

func NewFakeContext(pcm []byte, realtime bool) *FakeContext {
	return &FakeContext{pcm: pcm, realtime: realtime}
}

// LoadWAV reads a 16kHz mono s16 WAV file and returns its PCM payload.
func LoadWAV(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < WAVHeaderSize || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%s: not a WAV file", path)
	}
	return data[WAVHeaderSize:], nil
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{pcm: f.pcm, realtime: f.realtime}, nil
}

type FakeCapture struct {
	pcm      []byte
	realtime bool

	mu       sync.Mutex
	cb       DataCallback
	pos      int
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake" }

// next returns the following chunk of the recording, or silence once the
// recording is exhausted.
func (f *FakeCapture) next() []byte {
	chunkBytes := fakeFrameSize * fakeBytesPerFrame
	chunk := make([]byte, chunkBytes)
	f.mu.Lock()
	if f.pos < len(f.pcm) {
		end := min(f.pos+chunkBytes, len(f.pcm))
		chunk = chunk[:copy(chunk, f.pcm[f.pos:end])]
		f.pos = end
	}
	f.mu.Unlock()
	return chunk
}

func (f *FakeCapture) Start() error {
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	interval := time.Millisecond
	if f.realtime {
		interval = time.Duration(fakeFrameSize) * time.Second / encoder.SampleRate
	}
	go func() {
		defer close(f.feedDone)
		for {
			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb != nil {
				chunk := f.next()
				cb(chunk, uint32(len(chunk)/fakeBytesPerFrame))
			}
			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() { f.Stop() }
