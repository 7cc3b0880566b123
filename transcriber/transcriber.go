// Package transcriber sends recorded utterances to a hosted speech-to-text
// API and returns the recognized text.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"islify/encoder"
	"islify/log"
)

// ErrNotUnderstood means the request succeeded but no words were recognized.
var ErrNotUnderstood = errors.New("speech not understood")

// RequestError is a transport failure or a non-200 reply from the provider.
type RequestError struct {
	Provider   string
	StatusCode int // 0 when no response arrived
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }

// NetworkMetrics splits an upload's wall time into request phases.
type NetworkMetrics struct {
	Connect     time.Duration
	TLS         time.Duration
	Upload      time.Duration
	TTFB        time.Duration
	Download    time.Duration
	Total       time.Duration
	ConnReused  bool
	TLSProtocol string
}

// Sum adds the sequential phases. TLS is part of Connect.
func (m *NetworkMetrics) Sum() time.Duration {
	return m.Connect + m.Upload + m.TTFB + m.Download
}

func firstNonEmpty(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return "?"
}

type Result struct {
	Text         string
	Metrics      *NetworkMetrics
	RateLimit    string
	NoSpeechProb float64
	AvgLogProb   float64
	Duration     float64
}

// silent applies whisper's own no-speech rule.
func (r *Result) silent() bool {
	return r.NoSpeechProb > 0.6 && r.AvgLogProb < -1
}

type Transcriber interface {
	Name() string
	SetLanguage(lang string)
	GetLanguage() string
	// Transcribe uploads little-endian s16 mono PCM at encoder.SampleRate.
	Transcribe(ctx context.Context, pcm []byte) (*Result, error)
}

type baseTranscriber struct {
	client *TracedClient
	apiURL string
	apiKey string
	lang   string
}

func (b *baseTranscriber) SetLanguage(lang string) { b.lang = lang }

func (b *baseTranscriber) GetLanguage() string { return b.lang }

// New picks a provider. An empty name means the first one with an API key in
// the environment, Groq before OpenAI.
func New(provider string) (Transcriber, error) {
	groqKey := os.Getenv("GROQ_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	switch provider {
	case "groq":
		if groqKey == "" {
			return nil, errors.New("GROQ_API_KEY is not set")
		}
		return NewGroq(groqKey), nil
	case "openai":
		if openaiKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		return NewOpenAI(openaiKey), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown provider %q (want groq or openai)", provider)
	}

	if groqKey != "" {
		return NewGroq(groqKey), nil
	}
	if openaiKey != "" {
		return NewOpenAI(openaiKey), nil
	}
	return nil, errors.New("set GROQ_API_KEY or OPENAI_API_KEY environment variable")
}

// Recognize transcribes one utterance and returns its text, trimmed. It logs
// timing for every attempt.
func Recognize(ctx context.Context, t Transcriber, pcm []byte) (string, error) {
	start := time.Now()
	res, err := t.Transcribe(ctx, pcm)
	log.Utterance(encoder.Duration(pcm).Seconds(), time.Since(start).Milliseconds(), t.Name())
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(res.Text)
	if text == "" || res.silent() {
		return "", ErrNotUnderstood
	}
	return text, nil
}
