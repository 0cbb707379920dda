// Package config loads the server configuration from a TOML file, falling
// back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/sheetsmith/internal/project"
)

// Config is the sheetsmith server configuration.
type Config struct {
	ListenAddr string `toml:"listen_addr"`
	DataDir    string `toml:"data_dir"`

	// Autosave timing in seconds; zero keeps the defaults (5s tick,
	// 30s minimum spacing between autosaves).
	AutosaveTickSeconds int `toml:"autosave_tick_seconds"`
	MinSaveSeconds      int `toml:"min_save_seconds"`

	// ImageServiceURL is the base URL of the generation/enhancement
	// backend. Empty disables the collaborator features.
	ImageServiceURL string `toml:"image_service_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	dir, err := project.DefaultDataDir()
	if err != nil {
		dir = "sheets"
	}
	return Config{
		ListenAddr: ":8080",
		DataDir:    dir,
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
