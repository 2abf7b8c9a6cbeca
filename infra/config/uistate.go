package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UIState is the small slice of UI preference that survives restarts.
type UIState struct {
	DarkMode bool   `json:"darkMode"`
	Search   string `json:"search,omitempty"`
}

// LoadUIState reads persisted UI state. A missing file yields the
// zero state without error.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return UIState{DarkMode: true}, nil
	}
	if err != nil {
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes UI state, creating the parent directory if needed.
func SaveUIState(path string, st UIState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
