package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcriptFile *os.File
	logMu          sync.Mutex
	logReady       bool
	pid            int
	dir            string
)

const (
	diagName       = "diagnostics_log.txt"
	transcriptName = "transcript_log.txt"
)

func ResolveDir(flagPath string) (string, error) {
	// -logpath flag wins, then ISLIFY_LOG_PATH, then the OS default
	if flagPath != "" {
		return absolute(flagPath)
	}
	if envPath := os.Getenv("ISLIFY_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagFile, err = os.OpenFile(filepath.Join(dir, diagName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	transcriptFile, err = os.OpenFile(filepath.Join(dir, transcriptName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcriptFile != nil {
		transcriptFile.Close()
		transcriptFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(provider, input string, phrases int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Str("input", input).
		Int("phrases", phrases).
		Msg("session_start")
}

func SessionEnd(utterances int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("utterances", utterances).
		Msg("session_end")
}

func Calibrated(threshold float64, took time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Float64("threshold", threshold).
		Int64("took_ms", took.Milliseconds()).
		Msg("calibrated")
}

func Utterance(audioS float64, transcribeMs int64, provider string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Float64("audio_s", audioS).
		Int64("transcribe_ms", transcribeMs).
		Str("provider", provider).
		Msg("utterance")
}

// Upload records the timing of one transcription request.
func Upload(provider string, status, bytes int, connect, ttfb, total time.Duration, reused bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Int("status", status).
		Int("flac_bytes", bytes).
		Int64("connect_ms", connect.Milliseconds()).
		Int64("ttfb_ms", ttfb.Milliseconds()).
		Int64("total_ms", total.Milliseconds()).
		Bool("reused", reused).
		Msg("upload")
}

// Dispatch records which display path a phrase took.
func Dispatch(phrase, mode string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("phrase", phrase).
		Str("mode", mode).
		Msg("dispatch")
}

func MissingLetter(char rune, path string) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("char", string(char)).
		Str("path", path).
		Msg("letter_image_missing")
}

func TranscriptText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	if transcriptFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	transcriptFile.WriteString(line)
}
