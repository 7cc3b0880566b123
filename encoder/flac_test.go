package encoder

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func tone(n int) []byte {
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		s := int16(8000 * math.Sin(2*math.Pi*300*float64(i)/SampleRate))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func TestEncodePCM(t *testing.T) {
	n := BlockSize*2 + BlockSize/3
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}

	data, err := EncodePCM(enc, tone(n))
	if err != nil {
		t.Fatalf("EncodePCM: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
	if enc.TotalFrames() != uint64(n) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), n)
	}
}

func TestFlacEncoderEmpty(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close on empty encoder: %v", err)
	}
	if enc.TotalFrames() != 0 {
		t.Errorf("TotalFrames = %d, want 0", enc.TotalFrames())
	}
	if len(enc.Bytes()) == 0 {
		t.Error("expected non-empty FLAC output (at least header)")
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestFlacEncoderRejectsOversizedBlock(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.EncodeBlock(make([]int16, BlockSize+1)); err == nil {
		t.Error("expected error for oversized block")
	}
}

func TestSamplesDropsOddByte(t *testing.T) {
	got := Samples([]byte{0x01, 0x00, 0xff, 0xff, 0x7f})
	if len(got) != 2 || got[0] != 1 || got[1] != -1 {
		t.Errorf("Samples = %v, want [1 -1]", got)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration(make([]byte, SampleRate*2)); got != time.Second {
		t.Errorf("Duration = %v, want 1s", got)
	}
}
