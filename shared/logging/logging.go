package logging

import (
	"os"

	"go.uber.org/zap"
)

// New builds the service logger. LOG_LEVEL=debug switches to the development
// config; anything else gets the production JSON encoder.
func New(service string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.With(zap.String("service", service))
}
