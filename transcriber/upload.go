package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"islify/encoder"
	"islify/log"
)

// upload encodes pcm as FLAC and posts it as a multipart form. Any transport
// failure or non-200 status comes back as a *RequestError.
func (b *baseTranscriber) upload(ctx context.Context, provider string, pcm []byte, fields map[string]string) (*TracedResponse, error) {
	enc, err := encoder.NewFlac()
	if err != nil {
		return nil, err
	}
	audio, err := encoder.EncodePCM(enc, pcm)
	if err != nil {
		return nil, fmt.Errorf("encoding audio: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio.flac")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if b.lang != "" {
		writer.WriteField("language", b.lang)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &RequestError{Provider: provider, Err: err}
	}
	m := resp.Metrics
	log.Upload(provider, resp.StatusCode, len(audio), m.Connect, m.TTFB, m.Total, m.ConnReused)
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Provider: provider, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return resp, nil
}

func rateLimit(h http.Header) string {
	remaining := firstNonEmpty(h, "x-ratelimit-remaining-requests")
	limit := firstNonEmpty(h, "x-ratelimit-limit-requests")
	return remaining + "/" + limit
}
