// Package schemas validates JSON documents against the embedded evaluator schemas.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/candidate-evaluator/schemas"
)

// Kind names a document type with an embedded schema.
type Kind string

// Document kinds
const (
	KindCandidate        Kind = "candidate"
	KindJob              Kind = "job"
	KindEvaluationResult Kind = "evaluation_result"
)

var kindFiles = map[Kind]string{
	KindCandidate:        schemafiles.CandidateFile,
	KindJob:              schemafiles.JobFile,
	KindEvaluationResult: schemafiles.EvaluationResultFile,
}

var (
	compiledMu sync.Mutex
	compiled   = map[Kind]*gojsonschema.Schema{}
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// schemaFor compiles the embedded schema for kind once and caches it.
func schemaFor(kind Kind) (*gojsonschema.Schema, error) {
	file, ok := kindFiles[kind]
	if !ok {
		return nil, &SchemaLoadError{Path: string(kind), Message: "unknown document kind"}
	}

	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[kind]; ok {
		return s, nil
	}

	data, err := schemafiles.FS.ReadFile(file)
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "schema not embedded", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "schema failed to compile", Cause: err}
	}
	compiled[kind] = s
	return s, nil
}

// Validate checks a JSON document against the embedded schema for kind.
func Validate(kind Kind, doc []byte) error {
	s, err := schemaFor(kind)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to read %s document: %w", kind, err)
	}
	return toValidationError(result)
}

// ValidateFile reads a JSON file and validates it against the embedded schema for kind.
func ValidateFile(kind Kind, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	return Validate(kind, data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
