package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "settings":
		return settingsTemplate, nil
	case "servers":
		return serversTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite && fileExists(path) {
		return fmt.Errorf("config already exists: %s", path)
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const settingsTemplate = `default_target = "1.8"

[fixes]
movement = true
collision = true
item = true
entity_registry = true
world = true
`

const serversTemplate = `[[server]]
address = "localhost:25565"
version = "1.7"
`
