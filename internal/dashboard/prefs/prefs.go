// Package prefs persists board preferences in
// ~/.config/riderboard/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the board.
type Prefs struct {
	APIURL      string `toml:"api_url"`
	PollSeconds int    `toml:"poll_seconds"`
	Email       string `toml:"email"`
}

const (
	defaultPrefsPath   = "~/.config/riderboard/prefs.toml"
	defaultAPIURL      = "http://127.0.0.1:8080"
	defaultPollSeconds = 3
)

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{APIURL: defaultAPIURL, PollSeconds: defaultPollSeconds}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path, falling back to defaults for a missing
// file or missing fields. A malformed file is reported.
func Load(path string) (Prefs, error) {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}

	if strings.TrimSpace(prefs.APIURL) == "" {
		prefs.APIURL = defaultAPIURL
	}
	if prefs.PollSeconds <= 0 {
		prefs.PollSeconds = defaultPollSeconds
	}
	return prefs, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
