package transcriber

import (
	"context"
	"fmt"
	"sync"
)

// FakeTranscriber returns canned texts in order, repeating the last one.
type FakeTranscriber struct {
	mu    sync.Mutex
	texts []string
	err   error
	lang  string
	calls int
}

func NewFake(err error, texts ...string) *FakeTranscriber {
	return &FakeTranscriber{texts: texts, err: err}
}

func (f *FakeTranscriber) Name() string            { return "fake" }
func (f *FakeTranscriber) SetLanguage(lang string) { f.lang = lang }
func (f *FakeTranscriber) GetLanguage() string     { return f.lang }

func (f *FakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, _ []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if f.err != nil {
		return nil, fmt.Errorf("fake transcriber error: %w", f.err)
	}
	if len(f.texts) == 0 {
		return &Result{}, nil
	}
	return &Result{Text: f.texts[min(i, len(f.texts)-1)], Metrics: &NetworkMetrics{}}, nil
}
