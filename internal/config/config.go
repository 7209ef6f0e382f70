// Package config loads the host shell's settings: window scale, audio
// device parameters, and keyboard-to-button mappings. Modeled on the
// teacher's internal/app.Config, trimmed to the sections this core
// still has a use for (no save states, no multi-backend selection).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the host shell's settings.
type Config struct {
	Window WindowConfig `json:"window"`
	Audio  AudioConfig  `json:"audio"`
	Input  InputConfig  `json:"input"`
}

// WindowConfig controls the presented window size.
type WindowConfig struct {
	Scale      int  `json:"scale"` // NES resolution multiplier
	Fullscreen bool `json:"fullscreen"`
}

// AudioConfig controls the oto sink opened by internal/audio.
type AudioConfig struct {
	Enabled    bool `json:"enabled"`
	SampleRate int  `json:"sample_rate"`
	BufferSize int  `json:"buffer_size"`
}

// InputConfig maps keyboard keys to each controller's buttons.
type InputConfig struct {
	Player1 KeyMapping `json:"player1_keys"`
	Player2 KeyMapping `json:"player2_keys"`
}

// KeyMapping names one ebiten key per NES button.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// Default returns the configuration used when no -config path is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Scale: 2, Fullscreen: false},
		Audio:  AudioConfig{Enabled: true, SampleRate: 44100, BufferSize: 1024},
		Input: InputConfig{
			Player1: KeyMapping{Up: "W", Down: "S", Left: "A", Right: "D", A: "J", B: "K", Start: "Enter", Select: "Space"},
			Player2: KeyMapping{Up: "Up", Down: "Down", Left: "Left", Right: "Right", A: "N", B: "M", Start: "RightShift", Select: "RightControl"},
		},
	}
}

// Load reads a JSON config file, applying it on top of Default() so a
// partial file only overrides the sections it mentions.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// WindowResolution returns the presented window size for the 256x240
// NES framebuffer at the configured scale.
func (c *Config) WindowResolution() (int, int) {
	scale := c.Window.Scale
	if scale <= 0 {
		scale = 1
	}
	return 256 * scale, 240 * scale
}
