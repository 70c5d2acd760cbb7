package config

import "github.com/danmuck/verbridge/internal/fix"

// Toggles converts the settings fix table into engine toggles.
func (s Settings) Toggles() fix.Toggles {
	if len(s.Fixes) == 0 {
		return nil
	}
	toggles := make(fix.Toggles, len(s.Fixes))
	for domain, on := range s.Fixes {
		toggles[fix.Domain(domain).Normalize()] = on
	}
	return toggles
}
