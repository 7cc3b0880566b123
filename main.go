package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"islify/audio"
	"islify/config"
	"islify/dispatch"
	"islify/display"
	"islify/doctor"
	"islify/listen"
	"islify/log"
	"islify/shutdown"
	"islify/transcriber"
	"islify/tui"
)

var version = "dev"

// guiApp is set by initGUI when the fyne front-end owns the main goroutine.
var guiApp frontend

const fakePause = 1500 * time.Millisecond

func fatalf(format string, args ...any) {
	log.Errorf(format, args...)
	log.Close()
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func run() {
	configFlag := flag.String("config", "", "YAML settings file (phrases, timings, resources)")
	resourcesFlag := flag.String("resources", "", "Directory holding isl_gifs/ and letters/ (overrides config)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	providerFlag := flag.String("provider", "", "Speech provider: groq or openai (default: first API key found)")
	langFlag := flag.String("lang", "", "Language code for transcription (overrides config)")
	deviceFlag := flag.String("device", "", "Use the microphone whose name contains this text")
	setupFlag := flag.Bool("setup", false, "Pick the microphone interactively")
	textFlag := flag.Bool("text", false, "Type phrases instead of speaking them")
	fakeFlag := flag.String("fake", "", "Comma-separated transcripts to replay instead of using the microphone")
	_ = flag.Bool("gui", false, "Show windows with the desktop GUI instead of the terminal")
	doctorFlag := flag.Bool("doctor", false, "Check resources, speech provider and microphone, then exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("islify %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	settings := config.Default()
	if *configFlag != "" {
		if settings, err = config.Load(*configFlag); err != nil {
			fatalf("loading config: %v", err)
		}
	}
	if *resourcesFlag != "" {
		settings.Resources = *resourcesFlag
	}
	if *langFlag != "" {
		settings.Language = *langFlag
	}
	if *doctorFlag {
		code := doctor.Run(settings, *providerFlag)
		log.Close()
		os.Exit(code)
	}

	phrases, err := config.LoadPhrases(settings)
	if err != nil {
		fatalf("%v", err)
	}

	// Microphone setup uses the terminal, so it happens before the UI starts.
	var (
		tr       transcriber.Transcriber
		listener *listen.Listener
		input    = "mic"
	)
	switch {
	case *textFlag:
		input = "text"
	case *fakeFlag != "":
		input = "fake"
	default:
		if tr, err = transcriber.New(*providerFlag); err != nil {
			fatalf("%v", err)
		}
		tr.SetLanguage(settings.Language)
		if w, ok := tr.(interface{ Warm() time.Duration }); ok {
			go w.Warm()
		}

		actx, err := audio.NewContext()
		if err != nil {
			fatalf("initializing audio: %v", err)
		}
		defer actx.Close()
		listener, err = openMicrophone(actx, *deviceFlag, *setupFlag, settings)
		if err != nil {
			fatalf("%v", err)
		}
		defer listener.Close()
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fe := guiApp
	var term *tui.Program
	if fe == nil {
		term = tui.New(version, *textFlag)
		go func() {
			if err := term.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			cancel()
		}()
		fe = term
	}

	var src phraseSource
	switch input {
	case "text":
		lines := scanLines(os.Stdin)
		if term != nil {
			lines = term.Lines()
		}
		src = &lineSource{lines: lines, sink: fe}
	case "fake":
		src = newFakeSource(splitList(*fakeFlag), fakePause, fe)
	default:
		src = &micSource{listener: listener, tr: tr, sink: fe}
		if d := settings.Calibration(); d > 0 {
			fe.Calibrating(d)
			if _, err := listener.Calibrate(ctx, d); err != nil && ctx.Err() == nil {
				log.Errorf("calibration: %v", err)
			}
		}
	}

	presenter := display.NewPresenter(fe, fe, display.Options{
		GestureDir:     settings.GestureDir(),
		LetterDir:      settings.LetterDir(),
		LetterSize:     settings.LetterSize,
		LetterInterval: settings.LetterInterval(),
		GestureHold:    settings.GestureHold(),
	})
	ctrl := dispatch.New(phrases, settings.ExitPhrases, presenter)

	provider := "none"
	if tr != nil {
		provider = tr.Name()
	}
	log.SessionStart(provider, input, len(phrases))
	handled, bye := runSession(ctx, src, ctrl, fe)
	log.SessionEnd(handled)

	fe.Quit()
	if term != nil {
		<-term.Done()
		if bye {
			fmt.Println("Goodbye, see you next time!")
		}
	}
}

func openMicrophone(actx audio.Context, name string, setup bool, settings *config.Settings) (*listen.Listener, error) {
	var (
		dev *audio.DeviceInfo
		err error
	)
	switch {
	case name != "":
		dev, err = audio.FindDevice(actx, name)
	case setup:
		dev, err = audio.SelectDevice(actx)
	}
	if errors.Is(err, audio.ErrSelectionCancelled) {
		return nil, err
	}
	if err != nil {
		log.Warnf("device selection failed: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: %v, falling back to default device\n", err)
		dev = nil
	}
	if dev != nil && audio.IsBluetooth(dev.Name) {
		log.Warnf("bluetooth microphone %q", dev.Name)
		fmt.Fprintf(os.Stderr, "Warning: %s looks like a bluetooth headset; recognition may suffer\n", dev.Name)
	}

	capture, err := actx.NewCapture(dev, audio.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("initializing capture device: %w", err)
	}
	l := listen.New(capture, listen.Options{Pause: settings.Pause()})
	if err := l.Start(); err != nil {
		capture.Close()
		return nil, fmt.Errorf("starting capture: %w", err)
	}
	return l, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
