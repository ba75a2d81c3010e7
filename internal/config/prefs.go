package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the path to the display preferences file, relative to the process working directory.
const PrefsPath = "config/viewer.json"

// Prefs holds window and overlay preferences. Persisted across runs; unrelated to record data.
type Prefs struct {
	WindowWidth  int  `json:"window_width"`
	WindowHeight int  `json:"window_height"`
	TargetFPS    int  `json:"target_fps"`
	Fullscreen   bool `json:"fullscreen"`
	ShowFPS      bool `json:"show_fps"`
	ShowMemAlloc bool `json:"show_memalloc"`
}

// DefaultPrefs returns a 1280x720 windowed setup at 60 fps with overlays off.
func DefaultPrefs() Prefs {
	return Prefs{
		WindowWidth:  1280,
		WindowHeight: 720,
		TargetFPS:    60,
	}
}

// LoadPrefs reads preferences from path. If the file is missing or invalid,
// returns DefaultPrefs() and does not create a file. Zero sizes fall back to defaults.
func LoadPrefs(path string) Prefs {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPrefs()
	}
	p := DefaultPrefs()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPrefs()
	}
	def := DefaultPrefs()
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		p.WindowWidth, p.WindowHeight = def.WindowWidth, def.WindowHeight
	}
	if p.TargetFPS <= 0 {
		p.TargetFPS = def.TargetFPS
	}
	return p
}

// SavePrefs writes preferences to path, creating the directory if needed.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
