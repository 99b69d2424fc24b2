package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// batchFunc embeds one batch of texts.
type batchFunc func(ctx context.Context, texts []string) ([][]float32, error)

// GeminiEmbedder embeds skill names with a Gemini embedding model.
// It satisfies skills.Embedder and is safe for concurrent use.
type GeminiEmbedder struct {
	client *genai.Client
	config *Config
	embed  batchFunc
}

// NewGeminiEmbedder creates a new Gemini embedding client
func NewGeminiEmbedder(ctx context.Context, config *Config, apiKey string) (*GeminiEmbedder, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	e := &GeminiEmbedder{client: client, config: config}
	e.embed = e.batchEmbed
	return e, nil
}

// Model returns the embedding model name.
func (e *GeminiEmbedder) Model() string {
	return e.config.Model
}

// EmbedStrings returns one vector per text, in order.
func (e *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	size := e.config.EffectiveBatchSize()

	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		vecs, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed content: %w", err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embedding response has %d vectors for %d texts", len(vecs), end-start)
		}
		for _, v := range vecs {
			out = append(out, toFloat64(v))
		}
	}
	return out, nil
}

func (e *GeminiEmbedder) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	em := e.client.EmbeddingModel(e.config.Model)
	batch := em.NewBatch()
	for _, t := range texts {
		batch = batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}

	vecs := make([][]float32, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("empty embedding in response")
		}
		vecs = append(vecs, emb.Values)
	}
	return vecs, nil
}

// Close releases resources held by the client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
