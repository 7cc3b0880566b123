package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
)

const openaiURL = "https://api.openai.com/v1/audio/transcriptions"

type OpenAI struct {
	baseTranscriber
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{baseTranscriber{
		client: NewTracedClient(),
		apiURL: openaiURL,
		apiKey: apiKey,
	}}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Transcribe(ctx context.Context, pcm []byte) (*Result, error) {
	resp, err := o.upload(ctx, o.Name(), pcm, map[string]string{
		"model":           "gpt-4o-transcribe",
		"response_format": "json",
	})
	if err != nil {
		return nil, err
	}

	var oResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body, &oResp); err != nil {
		return nil, fmt.Errorf("openai response parse error: %w", err)
	}
	return &Result{
		Text:      oResp.Text,
		Metrics:   resp.Metrics,
		RateLimit: rateLimit(resp.Header),
	}, nil
}
