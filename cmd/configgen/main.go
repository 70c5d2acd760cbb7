package main

import (
	"flag"
	"path/filepath"

	"github.com/danmuck/verbridge/internal/config"
	"github.com/danmuck/verbridge/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.ConfigureRuntime()

	kind := flag.String("kind", "settings", "config kind: settings|servers")
	dir := flag.String("dir", ".", "config directory")
	validate := flag.Bool("validate", false, "validate an existing config file")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	var name string
	switch *kind {
	case "settings":
		name = config.SettingsFile
	case "servers":
		name = config.ServersFile
	default:
		log.Fatal().Str("kind", *kind).Msg("unknown kind")
	}
	path := filepath.Join(*dir, name)

	if *validate {
		var err error
		switch *kind {
		case "settings":
			_, err = config.LoadSettings(path)
		case "servers":
			_, err = config.LoadServers(path)
		}
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("invalid config")
		}
		log.Info().Str("kind", *kind).Str("path", path).Msg("validated config")
		return
	}

	if err := config.WriteTemplate(path, *kind, *force); err != nil {
		log.Fatal().Err(err).Msg("write template")
	}
	log.Info().Str("kind", *kind).Str("path", path).Msg("wrote config template")
}
