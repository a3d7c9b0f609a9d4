// SPDX-FileCopyrightText: 2026 INET Online Payment Service
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Production encoding (JSON) is used
// unless debug is set, in which case the human-readable development encoder
// and debug level are enabled.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	// Disable automatic stacktraces for non-fatal levels to avoid noisy traces in WARN/INFO logs
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return logger, nil
}

// CaseFields returns key/value pairs tagging a log entry with the case it
// belongs to, suitable for SugaredLogger.With or Infow/Errorw calls.
func CaseFields(caseNumber string) []interface{} {
	return []interface{}{"caseNumber", caseNumber}
}
