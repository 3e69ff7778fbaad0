// Package logging builds the process-wide zap logger. It is constructed
// once in main and injected; nothing here is package-level mutable state.
package logging

import (
	"go.uber.org/zap"
)

// New returns a production logger, or a development one when env is not
// "production".
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
