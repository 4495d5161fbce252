package main

import (
	"github.com/meridwen/QuestBoard_Go/internal/config"
	"github.com/meridwen/QuestBoard_Go/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source locations only in dev, they are noise in prod logs.
	addSource := cfg.Environment == "dev"

	logger.Init(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	))
}
