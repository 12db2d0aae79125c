// Package config carries server configuration assembled from the YAML
// config file and CLI flags; flags win.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	Port         int    `yaml:"port"`
	OnlineMode   bool   `yaml:"online_mode"`
	MOTD         string `yaml:"motd"`
	MaxPlayers   int    `yaml:"max_players"`
	ViewDistance int    `yaml:"view_distance"`

	// Favicon is an optional data URL with a base64 64×64 PNG shown in the
	// server list.
	Favicon string `yaml:"favicon"`

	// RegionFile optionally points at an Anvil .mca file; chunk (0, 0) is
	// loaded from it at startup instead of the synthesized flat chunk.
	RegionFile string `yaml:"region_file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:         25565,
		OnlineMode:   false,
		MOTD:         "A quarrymc server",
		MaxPlayers:   20,
		ViewDistance: 8,
	}
}

// LoadFile reads a YAML config file into cfg. A missing file leaves cfg
// unchanged.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["online-mode"] {
		cfg.OnlineMode = fromFile.OnlineMode
	}
	if !explicitFlags["motd"] {
		cfg.MOTD = fromFile.MOTD
	}
	if !explicitFlags["max-players"] {
		cfg.MaxPlayers = fromFile.MaxPlayers
	}
	if !explicitFlags["view-distance"] {
		cfg.ViewDistance = fromFile.ViewDistance
	}
	if !explicitFlags["region-file"] {
		cfg.RegionFile = fromFile.RegionFile
	}
	if !explicitFlags["favicon"] {
		cfg.Favicon = fromFile.Favicon
	}
}
