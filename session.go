package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"islify/dispatch"
	"islify/log"
	"islify/transcriber"
)

// runSession turns phrases into displays until the user says goodbye, the
// source runs dry, or ctx ends. Recognition and display failures are
// reported and the loop keeps going. It returns the number of phrases
// handled and whether the user said goodbye.
func runSession(ctx context.Context, src phraseSource, ctrl *dispatch.Controller, sink EventSink) (int, bool) {
	handled := 0
	for {
		raw, err := src.Next(ctx)
		if ctx.Err() != nil {
			return handled, false
		}
		var reqErr *transcriber.RequestError
		switch {
		case errors.Is(err, io.EOF):
			return handled, false
		case errors.Is(err, transcriber.ErrNotUnderstood):
			log.Warn("speech not understood")
			sink.Problem("Sorry, I could not understand the audio")
			continue
		case errors.As(err, &reqErr):
			log.Errorf("recognition request: %v", err)
			sink.Problem("Could not request results from the speech service: " + reqErr.Error())
			continue
		case err != nil:
			log.Errorf("recognition: %v", err)
			sink.Problem(fmt.Sprintf("Error: %v", err))
			continue
		}

		phrase := dispatch.Clean(raw)
		if phrase == "" {
			continue
		}
		handled++
		log.TranscriptText(phrase)
		sink.Heard(phrase)

		outcome, err := ctrl.Process(ctx, phrase)
		if outcome == dispatch.OutcomeExit {
			sink.Goodbye()
			return handled, true
		}
		if err == nil || ctx.Err() != nil {
			continue
		}
		log.Errorf("display %q: %v", phrase, err)
		if errors.Is(err, fs.ErrNotExist) {
			sink.Problem(fmt.Sprintf("No gesture animation for %q", phrase))
		} else {
			sink.Problem(fmt.Sprintf("Could not show %q: %v", phrase, err))
		}
	}
}
