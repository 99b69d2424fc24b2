package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCandidate = `{
	"id": "cand-1",
	"personal": {"location": {"city": "Dubai", "country": "AE"}, "available_from": "2026-02-01"},
	"experience": [{"title": "Dispatcher", "industry": "logistics", "duration_months": 36}],
	"education": [{"level": "bachelor", "field": "Supply Chain"}],
	"skills": [{"name": "Forklift", "proficiency": "expert"}],
	"salary_expectation": {"amount": 5000, "currency": "AED"}
}`

func TestValidate_Candidate(t *testing.T) {
	assert.NoError(t, Validate(KindCandidate, []byte(validCandidate)))
}

func TestValidate_CandidateMissingID(t *testing.T) {
	err := Validate(KindCandidate, []byte(`{"skills": []}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "id")
}

func TestValidate_CandidateWrongTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "negative duration", doc: `{"id": "c", "experience": [{"title": "x", "duration_months": -1}]}`},
		{name: "unknown education level", doc: `{"id": "c", "education": [{"level": "doctorate"}]}`},
		{name: "bad date", doc: `{"id": "c", "personal": {"available_from": "March"}}`},
		{name: "string amount", doc: `{"id": "c", "salary_expectation": {"amount": "lots"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(KindCandidate, []byte(tt.doc))
			_, ok := err.(*ValidationError)
			assert.True(t, ok, "expected ValidationError, got %v", err)
		})
	}
}

func TestValidate_Job(t *testing.T) {
	assert.NoError(t, Validate(KindJob, []byte(`{"id": "j", "title": "Driver", "skills": [{"name": "CDL", "importance": "required"}]}`)))

	err := Validate(KindJob, []byte(`{"id": "j", "skills": [{"name": "CDL", "importance": "critical"}]}`))
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(KindCandidate, []byte("{ invalid json }"))
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.False(t, ok)
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(Kind("resume"), []byte(`{}`))
	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok)
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidate.json")
	require.NoError(t, os.WriteFile(path, []byte(validCandidate), 0644))

	assert.NoError(t, ValidateFile(KindCandidate, path))

	err := ValidateFile(KindCandidate, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
