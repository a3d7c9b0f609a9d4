package system

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns a sugared logger that writes info and above through
// t.Log, so notifier output only shows up for failing or verbose tests.
func NewTestLogger(t zaptest.TestingT) *zap.SugaredLogger {
	return zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)).Sugar()
}

// NewObservedLogger returns a logger that records every entry at debug level
// and above, for tests that assert on audit log output.
func NewObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.DebugLevel)
	return zap.New(core), recorded
}
