package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	SettingsFile = "settings.toml"
	ServersFile  = "servers.toml"
)

// Settings are the user-facing bridge settings.
type Settings struct {
	// DefaultTarget is the version used for servers without a saved selection.
	DefaultTarget string
	// Fixes switches whole fix domains on or off. Missing domains stay on.
	Fixes map[string]bool
}

type settingsFile struct {
	DefaultTarget string          `toml:"default_target"`
	Fixes         map[string]bool `toml:"fixes"`
}

// LoadSettings reads settings.toml. A missing file yields zero Settings.
func LoadSettings(path string) (Settings, error) {
	var cfg Settings
	var raw settingsFile
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("load settings (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("default_target") {
		cfg.DefaultTarget = strings.TrimSpace(raw.DefaultTarget)
	}
	if meta.IsDefined("fixes") {
		cfg.Fixes = make(map[string]bool, len(raw.Fixes))
		for domain, on := range raw.Fixes {
			domain = strings.ToLower(strings.TrimSpace(domain))
			if domain == "" {
				return Settings{}, fmt.Errorf("load settings (%s): empty fix domain", path)
			}
			cfg.Fixes[domain] = on
		}
	}
	return cfg, nil
}

// FixDomains returns the configured toggle domains in order.
func (s Settings) FixDomains() []string {
	out := make([]string, 0, len(s.Fixes))
	for d := range s.Fixes {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
