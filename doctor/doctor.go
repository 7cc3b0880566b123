// Package doctor runs interactive checks of everything islify needs: the
// gesture and alphabet images, a speech provider key, and the microphone.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"islify/audio"
	"islify/config"
	"islify/display"
	"islify/listen"
	"islify/shutdown"
	"islify/transcriber"

	"github.com/guptarohit/asciigraph"
)

const listenTimeout = 10 * time.Second

// Run executes the checks in order and returns an exit code (0=all pass,
// 1=any fail). The microphone check only runs when the others pass.
func Run(settings *config.Settings, provider string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("islify doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	allPass := checkResources(os.Stdout, settings)
	tr, ok := checkProvider(os.Stdout, provider)
	allPass = allPass && ok
	if allPass && !checkMicrophone(os.Stdout, os.Stdin, tr, settings) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		resetTerminal()
		fmt.Fprintln(os.Stderr, "\nInterrupted")
		os.Exit(1)
	}()
}

// checkResources decodes every gesture animation and alphabet image.
// Missing letters are reported but only fail the check when all are gone.
func checkResources(w io.Writer, s *config.Settings) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[1/3] Gesture and alphabet images")

	phrases, err := config.LoadPhrases(s)
	if err != nil {
		fmt.Fprintf(w, "  FAIL: %v\n", err)
		return false
	}

	pass := true
	for _, p := range phrases.Sorted() {
		path := display.GestureFile(s.GestureDir(), p)
		frames, err := display.FromPath(path).Frames()
		switch {
		case err != nil:
			fmt.Fprintf(w, "  FAIL: %q: %v\n", p, err)
			pass = false
		case len(frames) == 0:
			fmt.Fprintf(w, "  FAIL: %q: no frames in %s\n", p, path)
			pass = false
		}
	}
	if pass {
		fmt.Fprintf(w, "  PASS: %d gestures\n", len(phrases))
	}

	letters := display.LetterDir{Dir: s.LetterDir(), Size: s.LetterSize}
	var missing []string
	for c := 'a'; c <= 'z'; c++ {
		if _, err := letters.Letter(c); err != nil {
			missing = append(missing, string(c))
		}
	}
	switch len(missing) {
	case 0:
		fmt.Fprintln(w, "  PASS: alphabet a-z")
	case 26:
		fmt.Fprintf(w, "  FAIL: no alphabet images in %s\n", s.LetterDir())
		pass = false
	default:
		fmt.Fprintf(w, "  WARN: missing letters %s (they will be skipped)\n", strings.Join(missing, " "))
	}
	return pass
}

// energyGraph plots the per-frame energy of an utterance against the
// speech threshold.
func energyGraph(pcm []byte, threshold float64) string {
	env := listen.Envelope(pcm)
	if len(env) == 0 {
		return "  (no audio)"
	}
	return asciigraph.PlotMany([][]float64{env, flat(threshold, len(env))},
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Offset(4),
		asciigraph.Caption(fmt.Sprintf("energy per %s frame, threshold %.0f", listen.FrameDuration, threshold)),
	)
}

func flat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func checkProvider(w io.Writer, provider string) (transcriber.Transcriber, bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[2/3] Speech provider")
	tr, err := transcriber.New(provider)
	if err != nil {
		fmt.Fprintf(w, "  FAIL: %v\n", err)
		return nil, false
	}
	fmt.Fprintf(w, "  PASS: using %s\n", tr.Name())
	return tr, true
}

func checkMicrophone(w io.Writer, in io.Reader, tr transcriber.Transcriber, s *config.Settings) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[3/3] Microphone and transcription")

	reader := bufio.NewReader(in)

	actx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(w, "  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer actx.Close()

	devices, err := actx.Devices()
	if err != nil || len(devices) == 0 {
		fmt.Fprintf(w, "  FAIL: no capture devices (%v)\n", err)
		return false
	}
	capture, err := actx.NewCapture(nil, audio.DefaultConfig())
	if err != nil {
		fmt.Fprintf(w, "  FAIL: capture: %v\n", err)
		return false
	}
	defer capture.Close()
	fmt.Fprintf(w, "  Using device: %s\n", capture.DeviceName())
	tr.SetLanguage(s.Language)

	l := listen.New(capture, listen.Options{Pause: s.Pause()})
	if err := l.Start(); err != nil {
		fmt.Fprintf(w, "  FAIL: recording error: %v\n", err)
		return false
	}
	defer l.Close()

	ctx := context.Background()
	fmt.Fprint(w, "  Stay quiet for 2 seconds...")
	th, err := l.Calibrate(ctx, 2*time.Second)
	if err != nil {
		fmt.Fprintf(w, "\n  FAIL: calibration: %v\n", err)
		return false
	}
	fmt.Fprintf(w, " threshold %.0f\n", th)

	fmt.Fprint(w, "  Press Enter, then say a short phrase...")
	reader.ReadString('\n')
	l.Flush()

	lctx, cancel := context.WithTimeout(ctx, listenTimeout)
	defer cancel()
	pcm, err := l.Listen(lctx)
	if err != nil {
		fmt.Fprintf(w, "  FAIL: no speech heard within %s\n", listenTimeout)
		return false
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, energyGraph(pcm, l.Threshold()))

	text, err := transcriber.Recognize(ctx, tr, pcm)
	if err != nil {
		fmt.Fprintf(w, "  FAIL: transcription error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "\n  Transcribed text: %s\n\n", text)

	fmt.Fprint(w, "Is this correct? [y/n]: ")
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm == "y" || confirm == "yes" {
		fmt.Fprintln(w, "  PASS: transcription verified by user")
		return true
	}
	fmt.Fprintln(w, "  FAIL: transcription not confirmed")
	return false
}
