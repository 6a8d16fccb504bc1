package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-pianokey/keymap"
)

// ErrOctaveCount is returned when octaves does not list exactly three values
var ErrOctaveCount = errors.New("octaves needs exactly three values")

// MIDIConfig defines the synth output and optional keyboard input
type MIDIConfig struct {
	OutputPort string `json:"outputPort,omitempty"`
	InputPort  string `json:"inputPort,omitempty"` // substring of a keyboard's port name
	Channel    int    `json:"channel,omitempty"`   // 1-16
	Velocity   int    `json:"velocity,omitempty"`  // 1-127
}

// TerminalConfig tunes how terminal key presses become press/release pairs.
// Terminals report no key releases, so a key counts as released after
// ReleaseAfterMs without a repeat. It must outlast the OS auto-repeat delay
// (660ms on stock X11) or a held key re-triggers on its first repeat.
type TerminalConfig struct {
	ReleaseAfterMs int `json:"releaseAfterMs,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file; built-in palette when empty
}

// Config is the main configuration structure
type Config struct {
	Octaves  keymap.OctaveSet `json:"octaves"`
	MIDI     MIDIConfig       `json:"midi,omitempty"`
	Terminal TerminalConfig   `json:"terminal,omitempty"`
	UI       UIConfig         `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Octaves: keymap.OctaveSet{3, 4, 5},
		MIDI: MIDIConfig{
			Channel:  1,
			Velocity: 100,
		},
		Terminal: TerminalConfig{
			ReleaseAfterMs: 900,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pianokey"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults and
// a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// UnmarshalJSON decodes octaves as a list so a short or long list is an
// error instead of being zero-filled or truncated
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}

	var raw struct {
		Octaves []int `json:"octaves"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Octaves == nil {
		return nil
	}
	if len(raw.Octaves) != 3 {
		return fmt.Errorf("%w, got %d", ErrOctaveCount, len(raw.Octaves))
	}
	c.Octaves = keymap.OctaveSet{raw.Octaves[0], raw.Octaves[1], raw.Octaves[2]}
	return nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating the directory if needed
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that the octaves build a keymap and MIDI values are in range
func (c *Config) Validate() error {
	if _, err := keymap.Build(c.Octaves); err != nil {
		return fmt.Errorf("octaves: %w", err)
	}
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi channel %d out of range 1-16", c.MIDI.Channel)
	}
	if c.MIDI.Velocity < 1 || c.MIDI.Velocity > 127 {
		return fmt.Errorf("midi velocity %d out of range 1-127", c.MIDI.Velocity)
	}
	if c.Terminal.ReleaseAfterMs <= 0 {
		return fmt.Errorf("terminal releaseAfterMs must be positive, got %d", c.Terminal.ReleaseAfterMs)
	}
	return nil
}

// ReleaseAfter returns the terminal release delay
func (c *Config) ReleaseAfter() time.Duration {
	return time.Duration(c.Terminal.ReleaseAfterMs) * time.Millisecond
}
