// Package config manages the persistent screenshot-manager settings.
// Settings live at ~/.config/screenshot-manager/config.json and are
// created once via the interactive setup flow, then loaded on every
// command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Programie/ScreenshotManager/internal/screenshot"
)

// Config holds all configurable screenshot-manager settings.
type Config struct {
	Sources  screenshot.Sources `json:"sources"`
	PenWidth int                `json:"pen_width"` // annotation brush width in pixels
}

// Defaults returns sensible default configuration values: no sources
// enabled yet, classic three pixel pen.
func Defaults() Config {
	return Config{PenWidth: 3}
}

// configDir returns the screenshot-manager config directory.
// Path: $XDG_CONFIG_HOME/screenshot-manager or ~/.config/screenshot-manager
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "screenshot-manager"), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Exists reports whether a config file is present on disk.
func Exists() bool {
	p, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the config file. Returns defaults if the file is absent.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := Defaults()
			return &d, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: p, Err: err}
	}
	// Configs written before the pen width existed load as zero.
	if cfg.PenWidth == 0 {
		cfg.PenWidth = Defaults().PenWidth
	}
	return &cfg, nil
}

// Save writes cfg atomically via a temp file + os.Rename, creating the
// config directory if needed.
func Save(cfg *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "config-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err = os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks that every enabled source points at a usable path and
// the pen width is drawable.
func (c *Config) Validate() error {
	if c.Sources.FolderEnabled {
		info, err := os.Stat(c.Sources.FolderPath)
		if err != nil {
			return fmt.Errorf("screenshot folder %s: %w", c.Sources.FolderPath, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("screenshot folder %s is not a directory", c.Sources.FolderPath)
		}
	}
	if c.Sources.ListEnabled {
		info, err := os.Stat(c.Sources.ListPath)
		if err != nil {
			return fmt.Errorf("screenshot list %s: %w", c.Sources.ListPath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("screenshot list %s is a directory, want a text file", c.Sources.ListPath)
		}
	}
	if c.PenWidth < 1 || c.PenWidth > 64 {
		return fmt.Errorf("pen width %d out of range 1..64", c.PenWidth)
	}
	return nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
