// Package observability wires the shared logging, tracing and metrics stack
// used by all three services.
package observability

import (
	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Production mode emits JSON;
// development mode uses the console encoder.
func NewLogger(service string, production bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", service)), nil
}
