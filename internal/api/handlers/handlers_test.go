package handlers

import (
	"context"

	"github.com/mnemonic-fyi/mnemonic/internal/service"
	"github.com/mnemonic-fyi/mnemonic/internal/slack"
	"github.com/stretchr/testify/mock"
)

// MockSearchService is a mock implementation of SearchService
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query string, limit int) (*service.SearchResponse, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResponse), args.Error(1)
}

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestSlack(ctx context.Context, channelID, workspaceID string) (int, error) {
	args := m.Called(ctx, channelID, workspaceID)
	return args.Int(0), args.Error(1)
}

func (m *MockIngestService) IngestNotion(ctx context.Context, workspaceID, databaseID string) (int, error) {
	args := m.Called(ctx, workspaceID, databaseID)
	return args.Int(0), args.Error(1)
}

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context) (*service.KnowledgeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.KnowledgeStats), args.Error(1)
}

// MockChannelLister is a mock implementation of ChannelLister
type MockChannelLister struct {
	mock.Mock
}

func (m *MockChannelLister) ListChannels(ctx context.Context) ([]slack.Channel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slack.Channel), args.Error(1)
}
