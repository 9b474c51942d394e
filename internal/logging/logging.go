// Package logging builds the zap logger used by the voxelkit binaries.
package logging

import (
	"go.uber.org/zap"
)

// New returns a structured logger. Verbose enables the human-readable
// development encoder at debug level; otherwise the production JSON encoder
// at info level is used.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	return zap.NewProduction()
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
