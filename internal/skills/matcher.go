package skills

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ErrSemanticUnavailable means no vectors could be obtained for a comparison.
// Callers degrade to exact and synonym matching instead of failing.
var ErrSemanticUnavailable = errors.New("semantic matching unavailable")

// MatchMethod is how a candidate skill satisfied a job skill.
type MatchMethod string

// Match methods, strongest first
const (
	MethodExact    MatchMethod = "exact"
	MethodSynonym  MatchMethod = "synonym"
	MethodSemantic MatchMethod = "semantic"
	MethodNone     MatchMethod = "none"
)

// MatchResult is the outcome of comparing one candidate skill with one job skill.
type MatchResult struct {
	Method     MatchMethod `json:"method"`
	Similarity float64     `json:"similarity"`
}

// Matched reports whether the comparison produced a match.
func (r MatchResult) Matched() bool {
	return r.Method != MethodNone && r.Method != ""
}

// Matcher compares skills by exact name, then taxonomy synonym, then embedding
// cosine similarity. It is safe for concurrent use.
type Matcher struct {
	taxonomy  *Taxonomy
	index     *Index
	embedder  Embedder
	threshold float64

	// live embeddings for terms missing from the index
	cache sync.Map
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithIndex sets the precomputed embedding index.
func WithIndex(ix *Index) MatcherOption {
	return func(m *Matcher) { m.index = ix }
}

// WithEmbedder sets a live embedder used for terms absent from the index.
func WithEmbedder(e Embedder) MatcherOption {
	return func(m *Matcher) { m.embedder = e }
}

// NewMatcher creates a matcher. threshold is the minimum cosine similarity for a semantic match.
func NewMatcher(taxonomy *Taxonomy, threshold float64, opts ...MatcherOption) *Matcher {
	m := &Matcher{taxonomy: taxonomy, threshold: threshold}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SemanticAvailable reports whether any vector source is configured.
func (m *Matcher) SemanticAvailable() bool {
	return m.index.Len() > 0 || m.embedder != nil
}

// Threshold returns the semantic similarity threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Lexical compares by exact name and synonym only.
func (m *Matcher) Lexical(candidate, job string) MatchResult {
	c, j := Normalize(candidate), Normalize(job)
	if c == "" || j == "" {
		return MatchResult{Method: MethodNone}
	}
	if c == j {
		return MatchResult{Method: MethodExact, Similarity: 1}
	}
	if m.taxonomy.Canonical(c) == m.taxonomy.Canonical(j) {
		return MatchResult{Method: MethodSynonym, Similarity: 1}
	}
	return MatchResult{Method: MethodNone}
}

// Match compares a candidate skill with a job skill. The error wraps
// ErrSemanticUnavailable when a semantic comparison was needed but no vectors
// could be obtained; the lexical result is still returned.
func (m *Matcher) Match(ctx context.Context, candidate, job string) (MatchResult, error) {
	if res := m.Lexical(candidate, job); res.Matched() {
		return res, nil
	}
	if Normalize(candidate) == "" || Normalize(job) == "" {
		return MatchResult{Method: MethodNone}, nil
	}
	if !m.SemanticAvailable() {
		return MatchResult{Method: MethodNone}, ErrSemanticUnavailable
	}

	vc, okc, err := m.vector(ctx, candidate)
	if err != nil {
		return MatchResult{Method: MethodNone}, err
	}
	vj, okj, err := m.vector(ctx, job)
	if err != nil {
		return MatchResult{Method: MethodNone}, err
	}
	if !okc || !okj {
		// Out of vocabulary: no semantic evidence either way
		return MatchResult{Method: MethodNone}, nil
	}

	sim := CosineSimilarity(vc, vj)
	if sim >= m.threshold {
		return MatchResult{Method: MethodSemantic, Similarity: sim}, nil
	}
	return MatchResult{Method: MethodNone, Similarity: sim}, nil
}

func (m *Matcher) vector(ctx context.Context, name string) ([]float64, bool, error) {
	if vec, ok := m.index.Lookup(name); ok {
		return vec, true, nil
	}
	if vec, ok := m.index.Lookup(m.taxonomy.Canonical(name)); ok {
		return vec, true, nil
	}
	if m.embedder == nil {
		return nil, false, nil
	}

	key := Normalize(name)
	if cached, ok := m.cache.Load(key); ok {
		return cached.([]float64), true, nil
	}
	vecs, err := m.embedder.EmbedStrings(ctx, []string{key})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, false, fmt.Errorf("%w: %v", ErrSemanticUnavailable, err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, false, fmt.Errorf("%w: embedder returned %d vectors for 1 text", ErrSemanticUnavailable, len(vecs))
	}
	m.cache.Store(key, vecs[0])
	return vecs[0], true, nil
}

// SkillMatch is the best candidate skill found for one job skill target.
type SkillMatch struct {
	Target         types.SkillTarget `json:"target"`
	CandidateSkill string            `json:"candidate_skill,omitempty"`
	Method         MatchMethod       `json:"method"`
	Similarity     float64           `json:"similarity"`
}

// Resolution holds the best match for every target, in target order.
type Resolution struct {
	Matches  []SkillMatch `json:"matches"`
	Degraded bool         `json:"degraded"`
}

// MatchedCount returns how many targets were matched.
func (r *Resolution) MatchedCount() int {
	n := 0
	for _, sm := range r.Matches {
		if sm.Method != MethodNone {
			n++
		}
	}
	return n
}

// UnmatchedRequired returns the names of required targets with no match, in target order.
func (r *Resolution) UnmatchedRequired() []string {
	var names []string
	for _, sm := range r.Matches {
		if sm.Method == MethodNone && sm.Target.Importance == types.ImportanceRequired {
			names = append(names, sm.Target.Name)
		}
	}
	return names
}

// Resolve finds the best candidate skill for each target. Exact matches beat
// synonyms, which beat semantic matches; among semantic matches the highest
// similarity wins and the earlier candidate skill wins ties. Degraded is set
// when a target needed semantic matching that was unavailable. Only context
// errors are returned.
func Resolve(ctx context.Context, m *Matcher, candidateSkills []types.CandidateSkill, targets *types.SkillTargets) (*Resolution, error) {
	res := &Resolution{Matches: make([]SkillMatch, 0, len(targets.Skills))}

	for _, target := range targets.Skills {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best := SkillMatch{Target: target, Method: MethodNone}

		// Lexical pass: exact first, then synonym
		for _, cs := range candidateSkills {
			r := m.Lexical(cs.Name, target.Name)
			if r.Method == MethodExact {
				best = SkillMatch{Target: target, CandidateSkill: cs.Name, Method: MethodExact, Similarity: 1}
				break
			}
			if r.Method == MethodSynonym && best.Method == MethodNone {
				best = SkillMatch{Target: target, CandidateSkill: cs.Name, Method: MethodSynonym, Similarity: 1}
			}
		}

		if best.Method == MethodNone && len(candidateSkills) > 0 {
			for _, cs := range candidateSkills {
				r, err := m.Match(ctx, cs.Name, target.Name)
				if err != nil {
					if errors.Is(err, ErrSemanticUnavailable) {
						res.Degraded = true
						break
					}
					return nil, err
				}
				if r.Method == MethodSemantic && r.Similarity > best.Similarity {
					best = SkillMatch{Target: target, CandidateSkill: cs.Name, Method: MethodSemantic, Similarity: r.Similarity}
				}
			}
		}

		res.Matches = append(res.Matches, best)
	}
	return res, nil
}
