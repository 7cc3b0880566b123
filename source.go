package main

import (
	"bufio"
	"context"
	"io"
	"time"

	"islify/listen"
	"islify/transcriber"
)

// phraseSource yields raw transcripts, one per utterance. io.EOF ends the
// session.
type phraseSource interface {
	Next(ctx context.Context) (string, error)
}

// micSource listens for an utterance and sends it to the speech service.
type micSource struct {
	listener *listen.Listener
	tr       transcriber.Transcriber
	sink     EventSink
}

func (m *micSource) Next(ctx context.Context) (string, error) {
	// audio heard while a gesture was on screen is stale
	m.listener.Flush()
	m.sink.Listening()
	pcm, err := m.listener.Listen(ctx)
	if err != nil {
		return "", err
	}
	m.sink.Recognizing()
	return transcriber.Recognize(ctx, m.tr, pcm)
}

// lineSource takes typed phrases instead of speech.
type lineSource struct {
	lines <-chan string
	sink  EventSink
}

func (l *lineSource) Next(ctx context.Context) (string, error) {
	l.sink.Listening()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// scanLines feeds r line by line into a channel that closes at EOF.
func scanLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- scanner.Text()
		}
	}()
	return ch
}

// fakeSource replays canned transcripts through a FakeTranscriber, pausing
// between them like a speaker would.
type fakeSource struct {
	tr    *transcriber.FakeTranscriber
	n     int
	pause time.Duration
	sink  EventSink
}

func newFakeSource(texts []string, pause time.Duration, sink EventSink) *fakeSource {
	return &fakeSource{tr: transcriber.NewFake(nil, texts...), n: len(texts), pause: pause, sink: sink}
}

func (f *fakeSource) Next(ctx context.Context) (string, error) {
	if f.tr.Calls() >= f.n {
		return "", io.EOF
	}
	f.sink.Listening()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(f.pause):
	}
	f.sink.Recognizing()
	return transcriber.Recognize(ctx, f.tr, nil)
}
