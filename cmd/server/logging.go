package main

import (
	"fmt"

	"coal-site/internal/config"
	applog "coal-site/internal/logging"

	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := applog.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log.With(zap.String("service", "coal-site")), nil
}
