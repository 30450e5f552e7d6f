package logging

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/config"
)

// Init configures the global logrus logger from cfg. An unknown level
// falls back to info.
func Init(cfg config.LoggerConfig, out io.Writer) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if out != nil {
		log.SetOutput(out)
	}

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
