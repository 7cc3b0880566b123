package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/islify-log")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/islify-log" {
		t.Errorf("got %q, want /tmp/islify-log", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(wd, "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("ISLIFY_LOG_PATH", "/tmp/islify-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/islify-env-log" {
		t.Errorf("got %q, want /tmp/islify-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("ISLIFY_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "islify") {
		t.Errorf("default dir %q should mention islify", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{diagName, transcriptName} {
		if _, err := os.Stat(filepath.Join(tmp, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestTranscriptText(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	TranscriptText("thank you")

	data, err := os.ReadFile(filepath.Join(tmp, transcriptName))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "thank you") {
		t.Errorf("transcript log missing text, got: %q", line)
	}
	// "2006-01-02 15:04:05\t[pid]\ttext\n"
	if strings.Count(line, "\t") != 2 {
		t.Errorf("expected tab-separated format, got: %q", line)
	}
}

func TestStructuredEvents(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	SessionStart("groq", "mic", 12)
	Calibrated(412.5, 5*time.Second)
	Dispatch("hello", "gesture")
	Upload("groq", 200, 4096, 80*time.Millisecond, 300*time.Millisecond, 420*time.Millisecond, true)
	MissingLetter('q', "resources/letters/q.jpg")
	SessionEnd(3)

	data, err := os.ReadFile(filepath.Join(tmp, diagName))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"session_start", "provider=groq",
		"calibrated", "threshold=412.5",
		"dispatch", "mode=gesture",
		"upload", "ttfb_ms=300", "reused=true",
		"letter_image_missing", "char=q",
		"session_end", "utterances=3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics log missing %q:\n%s", want, out)
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	// none of these may panic without an open log
	Info("x")
	Warnf("x %d", 1)
	Dispatch("a", "spell")
	TranscriptText("a")
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close()
}
