package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/smart-garage/internal/config"
)

// Setup configures the standard logrus logger from cfg. Unknown levels fall
// back to info.
func Setup(cfg config.LogConfig) {
	SetupWithOutput(cfg, os.Stderr)
}

// SetupWithOutput is Setup writing to out.
func SetupWithOutput(cfg config.LogConfig, out io.Writer) {
	log.SetOutput(out)

	level, err := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if err != nil && cfg.Level != "" {
		log.WithField("level", cfg.Level).Warn("Unknown log level, using info")
	}
}
