package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
)

const groqURL = "https://api.groq.com/openai/v1/audio/transcriptions"

type Groq struct {
	baseTranscriber
}

func NewGroq(apiKey string) *Groq {
	return &Groq{baseTranscriber{
		client: NewTracedClient(),
		apiURL: groqURL,
		apiKey: apiKey,
	}}
}

func (g *Groq) Name() string { return "groq" }

type groqResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Text         string  `json:"text"`
		NoSpeechProb float64 `json:"no_speech_prob"`
		AvgLogProb   float64 `json:"avg_logprob"`
	} `json:"segments"`
}

func (g *Groq) Transcribe(ctx context.Context, pcm []byte) (*Result, error) {
	resp, err := g.upload(ctx, g.Name(), pcm, map[string]string{
		"model":           "whisper-large-v3-turbo",
		"response_format": "verbose_json",
		"temperature":     "0",
	})
	if err != nil {
		return nil, err
	}

	var gResp groqResponse
	if err := json.Unmarshal(resp.Body, &gResp); err != nil {
		return nil, fmt.Errorf("groq response parse error: %w", err)
	}

	res := &Result{
		Text:      gResp.Text,
		Metrics:   resp.Metrics,
		RateLimit: rateLimit(resp.Header),
		Duration:  gResp.Duration,
	}
	if len(gResp.Segments) > 0 {
		var logProbSum float64
		for _, seg := range gResp.Segments {
			res.NoSpeechProb = max(res.NoSpeechProb, seg.NoSpeechProb)
			logProbSum += seg.AvgLogProb
		}
		res.AvgLogProb = logProbSum / float64(len(gResp.Segments))
	}
	return res, nil
}
