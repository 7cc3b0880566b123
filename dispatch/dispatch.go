package dispatch

import (
	"context"
	"strings"

	"islify/config"
	"islify/log"
)

type Outcome int

const (
	OutcomeGesture Outcome = iota
	OutcomeSpelled
	OutcomeExit
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGesture:
		return "gesture"
	case OutcomeSpelled:
		return "spell"
	case OutcomeExit:
		return "exit"
	case OutcomeEmpty:
		return "empty"
	}
	return "unknown"
}

// Display shows a recognized phrase. Both calls block until the display
// they open has closed.
type Display interface {
	Gesture(ctx context.Context, phrase string) error
	Spell(ctx context.Context, text string) error
}

// Controller routes each recognized phrase to a gesture, to spelling, or to
// the end of the session.
type Controller struct {
	phrases config.PhraseSet
	exit    config.PhraseSet
	display Display
}

func New(phrases config.PhraseSet, exitPhrases []string, display Display) *Controller {
	if len(exitPhrases) == 0 {
		exitPhrases = config.DefaultExitPhrases
	}
	return &Controller{
		phrases: phrases,
		exit:    config.NewPhraseSet(exitPhrases...),
		display: display,
	}
}

// Process handles one transcript. phrase is expected to be lowercase already.
// A missing gesture animation is returned as an error.
func (c *Controller) Process(ctx context.Context, phrase string) (Outcome, error) {
	switch {
	case phrase == "":
		return OutcomeEmpty, nil
	case c.exit.Contains(phrase):
		log.Dispatch(phrase, OutcomeExit.String())
		return OutcomeExit, nil
	case c.phrases.Contains(phrase):
		log.Dispatch(phrase, OutcomeGesture.String())
		return OutcomeGesture, c.display.Gesture(ctx, phrase)
	default:
		log.Dispatch(phrase, OutcomeSpelled.String())
		return OutcomeSpelled, c.display.Spell(ctx, phrase)
	}
}

// Clean turns a raw transcript into the form Process expects: lowercase,
// single-spaced, without trailing sentence punctuation.
func Clean(transcript string) string {
	s := config.Normalize(transcript)
	return strings.TrimRight(s, ".,!?;:")
}
