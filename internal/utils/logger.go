package utils

import (
	"go.uber.org/zap"
)

// NewLogger builds the application logger: human-readable in development,
// JSON in anything else.
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
