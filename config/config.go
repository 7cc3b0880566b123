package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultResources        = "resources"
	DefaultGestureSeconds   = 5.0
	DefaultLetterIntervalMs = 800
	DefaultLetterSize       = 500
	DefaultCalibrateSeconds = 5.0
	DefaultPauseMs          = 800
	DefaultLanguage         = "en"
)

var DefaultExitPhrases = []string{"goodbye", "good bye", "bye"}

type Settings struct {
	Resources        string   `yaml:"resources"`
	Phrases          []string `yaml:"phrases"`
	ExitPhrases      []string `yaml:"exit_phrases"`
	GestureSeconds   float64  `yaml:"gesture_seconds"`
	LetterIntervalMs int      `yaml:"letter_interval_ms"`
	LetterSize       int      `yaml:"letter_size"`
	CalibrateSeconds float64  `yaml:"calibrate_seconds"`
	PauseMs          int      `yaml:"pause_ms"`
	Language         string   `yaml:"language"`
}

func Default() *Settings {
	return &Settings{
		Resources:        DefaultResources,
		ExitPhrases:      append([]string(nil), DefaultExitPhrases...),
		GestureSeconds:   DefaultGestureSeconds,
		LetterIntervalMs: DefaultLetterIntervalMs,
		LetterSize:       DefaultLetterSize,
		CalibrateSeconds: DefaultCalibrateSeconds,
		PauseMs:          DefaultPauseMs,
		Language:         DefaultLanguage,
	}
}

// Load reads a YAML settings file over the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if s.Resources == "" {
		return fmt.Errorf("resources must not be empty")
	}
	if s.GestureSeconds <= 0 {
		return fmt.Errorf("gesture_seconds must be positive, got %v", s.GestureSeconds)
	}
	if s.LetterIntervalMs <= 0 {
		return fmt.Errorf("letter_interval_ms must be positive, got %d", s.LetterIntervalMs)
	}
	if s.LetterSize <= 0 {
		return fmt.Errorf("letter_size must be positive, got %d", s.LetterSize)
	}
	if s.CalibrateSeconds < 0 {
		return fmt.Errorf("calibrate_seconds must not be negative, got %v", s.CalibrateSeconds)
	}
	if s.PauseMs <= 0 {
		return fmt.Errorf("pause_ms must be positive, got %d", s.PauseMs)
	}
	return nil
}

func (s *Settings) GestureDir() string { return filepath.Join(s.Resources, "isl_gifs") }
func (s *Settings) LetterDir() string  { return filepath.Join(s.Resources, "letters") }

func (s *Settings) GestureHold() time.Duration {
	return time.Duration(s.GestureSeconds * float64(time.Second))
}

func (s *Settings) LetterInterval() time.Duration {
	return time.Duration(s.LetterIntervalMs) * time.Millisecond
}

func (s *Settings) Calibration() time.Duration {
	return time.Duration(s.CalibrateSeconds * float64(time.Second))
}

func (s *Settings) Pause() time.Duration {
	return time.Duration(s.PauseMs) * time.Millisecond
}

// PhraseSet holds normalized phrases. It is never modified after loading.
type PhraseSet map[string]struct{}

func NewPhraseSet(phrases ...string) PhraseSet {
	set := make(PhraseSet, len(phrases))
	for _, p := range phrases {
		if p = Normalize(p); p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

func (s PhraseSet) Contains(phrase string) bool {
	_, ok := s[phrase]
	return ok
}

func (s PhraseSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Normalize lowercases a phrase and collapses runs of whitespace.
func Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// LoadPhrases returns the supported phrases: the configured list when there
// is one, otherwise one phrase per .gif in the gesture directory.
func LoadPhrases(s *Settings) (PhraseSet, error) {
	if len(s.Phrases) > 0 {
		return NewPhraseSet(s.Phrases...), nil
	}
	entries, err := os.ReadDir(s.GestureDir())
	if err != nil {
		return nil, fmt.Errorf("load phrases: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".gif") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("load phrases: no .gif gestures in %s", s.GestureDir())
	}
	return NewPhraseSet(names...), nil
}
