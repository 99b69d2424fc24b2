package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/candidate-evaluator/internal/ranking"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// EvaluateRequest represents the request body for /evaluate
type EvaluateRequest struct {
	Candidate *types.Candidate `json:"candidate"`
	Job       *types.Job       `json:"job"`
}

// RankRequest represents the request body for /rank
type RankRequest struct {
	Job        *types.Job         `json:"job"`
	Candidates []*types.Candidate `json:"candidates"`
}

// RankResponse represents the response for /rank
type RankResponse struct {
	JobID    string          `json:"job_id"`
	Rankings []ranking.Entry `json:"rankings"`
}

// handleEvaluate scores one candidate against one job.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.engine.Evaluate(r.Context(), req.Candidate, req.Job)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleRank evaluates a batch of candidates and returns them best first.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := types.Validator().Var(req.Candidates, fmt.Sprintf("max=%d", s.cfg.MaxBatchSize)); err != nil {
		s.errorResponse(w, r, &types.ValidationError{
			Field:   "candidates",
			Message: fmt.Sprintf("must contain at most %d entries", s.cfg.MaxBatchSize),
		})
		return
	}

	entries, err := ranking.Rank(r.Context(), s.engine, req.Job, req.Candidates)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if entries == nil {
		entries = []ranking.Entry{}
	}
	s.jsonResponse(w, http.StatusOK, RankResponse{JobID: req.Job.ID, Rankings: entries})
}

// decode reads a size-limited JSON body. Malformed JSON is reported as a validation error on "body".
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &types.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}
