package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"openmusic-service/internal/config"
)

// setupLogger configures the package-level logger used across internal/.
func setupLogger(cfg config.LogConfig) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		logger.Warn("logging: unknown level, using info", "level", cfg.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	}

	log.SetDefault(logger)
}
