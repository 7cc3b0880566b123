package encoder

import (
	"encoding/binary"
	"time"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
	BytesPerFrame = Channels * BitsPerSample / 8
)

type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
	EncodeTime() time.Duration
}

// Samples converts little-endian s16 PCM to samples. A trailing odd byte is
// dropped.
func Samples(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return out
}

// EncodePCM feeds pcm through enc in BlockSize blocks, closes it, and
// returns the encoded bytes.
func EncodePCM(enc Encoder, pcm []byte) ([]byte, error) {
	samples := Samples(pcm)
	for start := 0; start < len(samples); start += BlockSize {
		end := min(start+BlockSize, len(samples))
		if err := enc.EncodeBlock(samples[start:end]); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// Duration is the play time of pcm at SampleRate.
func Duration(pcm []byte) time.Duration {
	frames := len(pcm) / BytesPerFrame
	return time.Duration(frames) * time.Second / SampleRate
}
