// Package schemas embeds the JSON Schemas for evaluator input and output documents.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	CandidateFile        = "candidate.schema.json"
	JobFile              = "job.schema.json"
	EvaluationResultFile = "evaluation_result.schema.json"
)

// Files lists every embedded schema.
var Files = []string{CandidateFile, JobFile, EvaluationResultFile}
