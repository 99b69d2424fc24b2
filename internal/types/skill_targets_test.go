// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillTargets_JSONMarshaling(t *testing.T) {
	targets := SkillTargets{
		Skills: []SkillTarget{
			{Name: "Go", Weight: 2.0, Importance: ImportanceRequired},
			{Name: "Kubernetes", Weight: 0.5, Importance: ImportanceNiceToHave},
		},
	}

	jsonBytes, err := json.MarshalIndent(targets, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"name": "Go"`)
	assert.Contains(t, string(jsonBytes), `"weight": 2`)
	assert.Contains(t, string(jsonBytes), `"importance": "required"`)
}

func TestSkillTargets_TotalWeight(t *testing.T) {
	targets := SkillTargets{
		Skills: []SkillTarget{
			{Name: "Go", Weight: 2.0},
			{Name: "SQL", Weight: 1.0},
			{Name: "Rust", Weight: 0.5},
		},
	}
	assert.InDelta(t, 3.5, targets.TotalWeight(), 1e-9)
	assert.Zero(t, (&SkillTargets{}).TotalWeight())
}
