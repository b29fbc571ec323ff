package service

import (
	"context"

	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/mnemonic-fyi/mnemonic/internal/notion"
	"github.com/mnemonic-fyi/mnemonic/internal/slack"
	"github.com/stretchr/testify/mock"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockSearchRepository is a mock implementation of SearchRepository
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) SearchByEmbedding(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*domain.SearchResult, error) {
	args := m.Called(ctx, embedding, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchResult), args.Error(1)
}

func (m *MockSearchRepository) SearchByContent(ctx context.Context, query string, limit int) ([]*domain.KnowledgeItem, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeItem), args.Error(1)
}

// MockCompletionClient is a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

// MockSynthesizer is a mock implementation of Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, query string, results []*domain.SearchResult) (*Answer, error) {
	args := m.Called(ctx, query, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Answer), args.Error(1)
}

// MockRanker is a mock implementation of Ranker
type MockRanker struct {
	mock.Mock
	fallback bool
}

func (m *MockRanker) Rank(ctx context.Context, query string, limit int) ([]*domain.SearchResult, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchResult), args.Error(1)
}

func (m *MockRanker) Fallback() bool { return m.fallback }

// MockSlackFetcher is a mock implementation of SlackFetcher
type MockSlackFetcher struct {
	mock.Mock
}

func (m *MockSlackFetcher) FetchMessages(ctx context.Context, channelID string, limit int) ([]slack.Message, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slack.Message), args.Error(1)
}

// MockNotionFetcher is a mock implementation of NotionFetcher
type MockNotionFetcher struct {
	mock.Mock
}

func (m *MockNotionFetcher) FetchPages(ctx context.Context) ([]notion.Page, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notion.Page), args.Error(1)
}

// MockIngestRepository is a mock implementation of IngestRepository
type MockIngestRepository struct {
	mock.Mock
}

func (m *MockIngestRepository) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetStats(ctx context.Context) (*KnowledgeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*KnowledgeStats), args.Error(1)
}

// MockUUIDGenerator returns a fixed sequence of identifiers
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewUUID() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	return "default-uuid"
}

func slackResult(author, content string, similarity float64) *domain.SearchResult {
	return &domain.SearchResult{
		KnowledgeItem: domain.KnowledgeItem{
			ID:      "item-" + author,
			Content: content,
			Metadata: domain.Metadata{
				Source: domain.SourceSlack,
				Author: author,
				URL:    "https://example.slack.com/archives/C123/p1",
			},
		},
		Similarity: similarity,
	}
}

func notionResult(author, content string, similarity float64) *domain.SearchResult {
	return &domain.SearchResult{
		KnowledgeItem: domain.KnowledgeItem{
			ID:      "page-" + author,
			Content: content,
			Metadata: domain.Metadata{
				Source: domain.SourceNotion,
				Author: author,
				URL:    "https://notion.so/page",
			},
		},
		Similarity: similarity,
	}
}
