package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Embedder turns texts into vectors. Implementations must be safe for concurrent use.
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float64, error)
}

// IndexFile is the on-disk form of a precomputed embedding index.
type IndexFile struct {
	Model     string               `json:"model"`
	Dimension int                  `json:"dimension"`
	Vectors   map[string][]float64 `json:"vectors"`
}

// Index is a read-only vocabulary of skill vectors keyed by normalized name.
type Index struct {
	model   string
	dim     int
	vectors map[string][]float64
}

// NewIndex builds an index, normalizing keys and checking that every vector
// has the same non-zero dimension.
func NewIndex(model string, vectors map[string][]float64) (*Index, error) {
	ix := &Index{model: model, vectors: make(map[string][]float64, len(vectors))}

	names := make([]string, 0, len(vectors))
	for name := range vectors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		vec := vectors[name]
		key := Normalize(name)
		if key == "" {
			return nil, fmt.Errorf("embedding index: empty skill name")
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("embedding index: empty vector for %q", name)
		}
		if ix.dim == 0 {
			ix.dim = len(vec)
		} else if len(vec) != ix.dim {
			return nil, fmt.Errorf("embedding index: vector for %q has dimension %d, expected %d", name, len(vec), ix.dim)
		}
		ix.vectors[key] = append([]float64(nil), vec...)
	}
	return ix, nil
}

// LoadIndex reads an index written by WriteIndex.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding index %s: %w", path, err)
	}

	var file IndexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedding index JSON: %w", err)
	}

	ix, err := NewIndex(file.Model, file.Vectors)
	if err != nil {
		return nil, err
	}
	if file.Dimension != 0 && ix.dim != 0 && file.Dimension != ix.dim {
		return nil, fmt.Errorf("embedding index: declared dimension %d does not match vectors (%d)", file.Dimension, ix.dim)
	}
	return ix, nil
}

// WriteIndex writes the index as JSON.
func WriteIndex(path string, ix *Index) error {
	file := IndexFile{Model: ix.model, Dimension: ix.dim, Vectors: ix.vectors}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal embedding index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write embedding index: %w", err)
	}
	return nil
}

// Lookup returns the vector for a skill name.
func (ix *Index) Lookup(name string) ([]float64, bool) {
	if ix == nil {
		return nil, false
	}
	vec, ok := ix.vectors[Normalize(name)]
	return vec, ok
}

// Len returns the vocabulary size.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.vectors)
}

// Model returns the name of the model that produced the vectors.
func (ix *Index) Model() string { return ix.model }

// Dimension returns the vector dimension.
func (ix *Index) Dimension() int { return ix.dim }

// CosineSimilarity returns the cosine of the angle between a and b, clamped to [0, 1].
// Mismatched or zero vectors have similarity 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case math.IsNaN(sim) || sim < 0:
		return 0
	case sim > 1:
		return 1
	default:
		return sim
	}
}

// BuildIndex embeds names in batches and returns the resulting index.
// Names are normalized and de-duplicated first, so the request order is stable.
func BuildIndex(ctx context.Context, e Embedder, model string, names []string, batchSize int) (*Index, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		key := Normalize(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, key)
	}
	sort.Strings(unique)

	vectors := make(map[string][]float64, len(unique))
	for start := 0; start < len(unique); start += batchSize {
		end := min(start+batchSize, len(unique))
		batch := unique[start:end]
		vecs, err := e.EmbedStrings(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed skills %d-%d: %w", start, end-1, err)
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d skills", len(vecs), len(batch))
		}
		for i, name := range batch {
			vectors[name] = vecs[i]
		}
	}
	return NewIndex(model, vectors)
}
