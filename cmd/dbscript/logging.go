package main

import (
	"github.com/goforj/database"
	log "github.com/sirupsen/logrus"
)

// LogConfig configures handling of application log events.
type LogConfig struct {
	Level  string `long:"level" env:"LEVEL" default:"warn" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal" description:"Logging level"`
	Format string `long:"format" env:"FORMAT" default:"text" choice:"json" choice:"text" choice:"color" description:"Logging output format"`
}

// InitLog configures the logger.
func InitLog(cfg LogConfig) {
	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "color":
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	default:
		log.SetFormatter(&log.TextFormatter{})
	}

	if lvl, err := log.ParseLevel(cfg.Level); err != nil {
		log.WithField("err", err).Fatal("unrecognized log level")
	} else {
		log.SetLevel(lvl)
	}
}

// engineLevel maps a logrus level name onto the database logger threshold.
func engineLevel(name string) database.Level {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return database.LevelError
	}
	switch {
	case lvl >= log.DebugLevel:
		return database.LevelInfo
	case lvl == log.InfoLevel:
		return database.LevelNotice
	case lvl == log.WarnLevel:
		return database.LevelWarning
	default:
		return database.LevelError
	}
}
