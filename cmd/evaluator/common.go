package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/engine"
	"github.com/jonathan/candidate-evaluator/internal/logger"
	"github.com/jonathan/candidate-evaluator/internal/observability"
	"github.com/jonathan/candidate-evaluator/internal/schemas"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// loadConfig reads the configuration named by --config, or the embedded default.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default()
	}
	return config.Load(o.configPath)
}

func (o *rootOptions) newLogger() (*zap.Logger, error) {
	log, err := logger.New(o.logJSON, o.debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// newEngine loads configuration and builds an engine logging through log.
func (o *rootOptions) newEngine(log *zap.Logger, metrics *observability.Metrics) (*engine.Engine, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{engine.WithLogger(log)}
	if metrics != nil {
		opts = append(opts, engine.WithMetrics(metrics))
	}
	return engine.New(cfg, opts...)
}

// readDocument checks a JSON file against its schema and decodes it into v.
func readDocument(kind schemas.Kind, path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	if err := schemas.Validate(kind, data); err != nil {
		return fmt.Errorf("%s file %s failed schema validation: %w", kind, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s JSON: %w", kind, err)
	}
	return nil
}

func readCandidate(path string) (*types.Candidate, error) {
	var c types.Candidate
	if err := readDocument(schemas.KindCandidate, path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func readJob(path string) (*types.Job, error) {
	var j types.Job
	if err := readDocument(schemas.KindJob, path, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// readCandidates reads a JSON array of candidates, checking each entry against the candidate schema.
func readCandidates(path string) ([]*types.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("candidates file %s must contain a JSON array: %w", path, err)
	}

	candidates := make([]*types.Candidate, 0, len(raw))
	for i, doc := range raw {
		if err := schemas.Validate(schemas.KindCandidate, doc); err != nil {
			return nil, fmt.Errorf("candidates file %s entry %d failed schema validation: %w", path, i, err)
		}
		var c types.Candidate
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("failed to parse candidate %d: %w", i, err)
		}
		candidates = append(candidates, &c)
	}
	return candidates, nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := w.Write(data)
		return err
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
