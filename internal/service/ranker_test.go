package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRanker(t *testing.T) {
	repo := new(MockSearchRepository)
	embedding := new(MockEmbeddingClient)

	t.Run("substring strategy selects the substring ranker", func(t *testing.T) {
		ranker := NewRanker("substring", embedding, repo, 0.7)
		assert.IsType(t, &SubstringRanker{}, ranker)
		assert.True(t, ranker.Fallback())
	})

	t.Run("vector strategy selects the vector ranker", func(t *testing.T) {
		ranker := NewRanker("vector", embedding, repo, 0.7)
		assert.IsType(t, &VectorRanker{}, ranker)
		assert.False(t, ranker.Fallback())
	})

	t.Run("unknown strategy defaults to vector", func(t *testing.T) {
		ranker := NewRanker("bm25", embedding, repo, 0.7)
		assert.IsType(t, &VectorRanker{}, ranker)
	})
}

func TestVectorRanker_Rank(t *testing.T) {
	ctx := context.Background()
	queryEmbedding := []float32{0.1, 0.2, 0.3}

	t.Run("embeds the query and returns candidates above threshold", func(t *testing.T) {
		embedding := new(MockEmbeddingClient)
		repo := new(MockSearchRepository)
		expected := []*domain.SearchResult{slackResult("Jane", "use the deploy script", 0.91)}

		embedding.On("GenerateEmbedding", mock.Anything, "how do we deploy").Return(queryEmbedding, nil)
		repo.On("SearchByEmbedding", mock.Anything, queryEmbedding, 0.7, 10).Return(expected, nil)

		ranker := NewVectorRanker(embedding, repo, 0.7)
		results, err := ranker.Rank(ctx, "how do we deploy", 10)

		require.NoError(t, err)
		assert.Equal(t, expected, results)
		embedding.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("embedding failure is terminal", func(t *testing.T) {
		embedding := new(MockEmbeddingClient)
		repo := new(MockSearchRepository)
		embedding.On("GenerateEmbedding", mock.Anything, "q1").Return(nil, errors.New("quota exceeded"))

		ranker := NewVectorRanker(embedding, repo, 0.7)
		_, err := ranker.Rank(ctx, "q1", 10)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
		assert.NotErrorIs(t, err, ErrStoreUnavailable)
		repo.AssertNotCalled(t, "SearchByEmbedding", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("datastore failure is wrapped in ErrStoreUnavailable", func(t *testing.T) {
		embedding := new(MockEmbeddingClient)
		repo := new(MockSearchRepository)
		embedding.On("GenerateEmbedding", mock.Anything, "q2").Return(queryEmbedding, nil)
		repo.On("SearchByEmbedding", mock.Anything, queryEmbedding, 0.7, 10).
			Return(nil, errors.New("connection refused"))

		ranker := NewVectorRanker(embedding, repo, 0.7)
		_, err := ranker.Rank(ctx, "q2", 10)

		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("non-positive threshold falls back to default", func(t *testing.T) {
		ranker := NewVectorRanker(nil, nil, 0)
		assert.Equal(t, DefaultSimilarityThreshold, ranker.threshold)
	})
}

func TestSubstringRanker_Rank(t *testing.T) {
	ctx := context.Background()

	t.Run("matches carry the fallback similarity", func(t *testing.T) {
		repo := new(MockSearchRepository)
		items := []*domain.KnowledgeItem{
			{ID: "a", Content: "deploy notes", Metadata: domain.Metadata{Source: domain.SourceSlack, Author: "Jane"}},
			{ID: "b", Content: "deploy checklist", Metadata: domain.Metadata{Source: domain.SourceNotion, Author: "Sam"}},
		}
		repo.On("SearchByContent", mock.Anything, "deploy", 10).Return(items, nil)

		ranker := NewSubstringRanker(repo)
		results, err := ranker.Rank(ctx, "deploy", 10)

		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, result := range results {
			assert.Equal(t, FallbackSimilarity, result.Similarity)
		}
		assert.Equal(t, "a", results[0].ID)
	})

	t.Run("datastore failure is wrapped in ErrStoreUnavailable", func(t *testing.T) {
		repo := new(MockSearchRepository)
		repo.On("SearchByContent", mock.Anything, "deploy", 10).Return(nil, errors.New("timeout"))

		ranker := NewSubstringRanker(repo)
		_, err := ranker.Rank(ctx, "deploy", 10)

		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
