// Package logger builds the zap loggers used by the CLI, the engine and the HTTP server.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// FieldCandidate is the structured log field key for a candidate ID.
	FieldCandidate = "candidate_id"
	// FieldJob is the structured log field key for a job ID.
	FieldJob = "job_id"
	// FieldRequest is the structured log field key for an HTTP request ID.
	FieldRequest = "request_id"
)

// New builds a logger writing to stderr, so command output on stdout stays machine-readable.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// EvaluationFields returns the candidate and job fields, omitting blank IDs.
func EvaluationFields(candidateID, jobID string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if id := strings.TrimSpace(candidateID); id != "" {
		fields = append(fields, zap.String(FieldCandidate, id))
	}
	if id := strings.TrimSpace(jobID); id != "" {
		fields = append(fields, zap.String(FieldJob, id))
	}
	return fields
}
