package service

import (
	"context"
	"time"

	"github.com/mnemonic-fyi/mnemonic/internal/cache"
)

// KnowledgeStats summarizes the knowledge store.
type KnowledgeStats struct {
	TotalItems  int
	SlackItems  int
	NotionItems int
	LastUpdated time.Time
}

// StatsRepository defines the repository interface for store statistics
type StatsRepository interface {
	GetStats(ctx context.Context) (*KnowledgeStats, error)
}

// StatsService serves store statistics, memoized through the cache.
type StatsService struct {
	repo     StatsRepository
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func NewStatsServiceWithCache(repo StatsRepository, c *cache.Cache, ttl time.Duration) *StatsService {
	return &StatsService{repo: repo, cache: c, cacheTTL: ttl}
}

func (s *StatsService) GetStats(ctx context.Context) (*KnowledgeStats, error) {
	if s.cache == nil {
		return s.repo.GetStats(ctx)
	}

	fetch := cache.Wrap(s.cache,
		func() string { return "stats:all" },
		s.cacheTTL,
		s.repo.GetStats,
	)
	return fetch(ctx)
}
