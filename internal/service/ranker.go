package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mnemonic-fyi/mnemonic/internal/domain"
)

// FallbackSimilarity is the placeholder score reported by the substring
// strategy. It is not a ranking signal, just a fixed low-confidence marker.
const FallbackSimilarity = 0.5

// DefaultSimilarityThreshold filters vector matches below this cosine score.
const DefaultSimilarityThreshold = 0.7

// ErrStoreUnavailable marks datastore failures. The retrieval engine degrades
// these to a soft empty-result response instead of bubbling a 5xx.
var ErrStoreUnavailable = errors.New("knowledge store unavailable")

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SearchRepository defines the repository interface for candidate retrieval
type SearchRepository interface {
	SearchByEmbedding(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*domain.SearchResult, error)
	SearchByContent(ctx context.Context, query string, limit int) ([]*domain.KnowledgeItem, error)
}

// Ranker produces candidate chunks for a query. Implementations pick the
// retrieval strategy; Fallback reports whether scores are placeholders.
type Ranker interface {
	Rank(ctx context.Context, query string, limit int) ([]*domain.SearchResult, error)
	Fallback() bool
}

// NewRanker selects a ranker by strategy name. Unknown strategies default to
// vector similarity.
func NewRanker(strategy string, embedding EmbeddingClient, repo SearchRepository, threshold float64) Ranker {
	if strategy == "substring" {
		return NewSubstringRanker(repo)
	}
	return NewVectorRanker(embedding, repo, threshold)
}

// VectorRanker ranks stored items by cosine similarity between the query
// embedding and item embeddings.
type VectorRanker struct {
	embedding EmbeddingClient
	repo      SearchRepository
	threshold float64
}

func NewVectorRanker(embedding EmbeddingClient, repo SearchRepository, threshold float64) *VectorRanker {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &VectorRanker{embedding: embedding, repo: repo, threshold: threshold}
}

// Rank embeds the query and fetches the top candidates above the similarity
// threshold. An embedding provider failure is terminal for the request; a
// datastore failure is wrapped in ErrStoreUnavailable.
func (r *VectorRanker) Rank(ctx context.Context, query string, limit int) ([]*domain.SearchResult, error) {
	queryEmbedding, err := r.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}

	results, err := r.repo.SearchByEmbedding(ctx, queryEmbedding, r.threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return results, nil
}

func (r *VectorRanker) Fallback() bool { return false }

// SubstringRanker filters items by case-insensitive substring match in store
// order, for deployments without vector-index support. Every match carries
// FallbackSimilarity.
type SubstringRanker struct {
	repo SearchRepository
}

func NewSubstringRanker(repo SearchRepository) *SubstringRanker {
	return &SubstringRanker{repo: repo}
}

func (r *SubstringRanker) Rank(ctx context.Context, query string, limit int) ([]*domain.SearchResult, error) {
	items, err := r.repo.SearchByContent(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	results := make([]*domain.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, &domain.SearchResult{
			KnowledgeItem: *item,
			Similarity:    FallbackSimilarity,
		})
	}

	return results, nil
}

func (r *SubstringRanker) Fallback() bool { return true }
