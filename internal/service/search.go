package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mnemonic-fyi/mnemonic/internal/cache"
	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/mnemonic-fyi/mnemonic/internal/telemetry"
)

const (
	// DefaultSearchLimit bounds the candidate set per query.
	DefaultSearchLimit = 10

	noResultsAnswer        = "No relevant information found in the knowledge base. Try adding some data through the admin panel first."
	storeUnavailableAnswer = "Search temporarily unavailable. Please try again later."
)

// Synthesizer defines the answer synthesis interface
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, results []*domain.SearchResult) (*Answer, error)
}

// SourceCounts breaks the candidate set down per connector.
type SourceCounts struct {
	Slack  int `json:"slack"`
	Notion int `json:"notion"`
}

// SearchResponse is the full reply for one query.
type SearchResponse struct {
	Answer       string        `json:"answer"`
	Sources      []SourceChunk `json:"sources"`
	TotalCount   int           `json:"totalCount"`
	SourceCounts SourceCounts  `json:"sourceCounts"`
	BestExpert   BestExpert    `json:"bestExpert"`
	Fallback     bool          `json:"fallback,omitempty"`
}

// SearchService runs the retrieval pipeline: rank candidates, synthesize an
// answer, attribute the best expert. Results are memoized through the cache.
type SearchService struct {
	ranker      Ranker
	synthesizer Synthesizer
	cache       *cache.Cache
	cacheTTL    time.Duration
}

func NewSearchService(ranker Ranker, synthesizer Synthesizer) *SearchService {
	return &SearchService{ranker: ranker, synthesizer: synthesizer}
}

func NewSearchServiceWithCache(ranker Ranker, synthesizer Synthesizer, c *cache.Cache, ttl time.Duration) *SearchService {
	return &SearchService{ranker: ranker, synthesizer: synthesizer, cache: c, cacheTTL: ttl}
}

// Search answers a query against the knowledge store. The query is assumed
// validated upstream (2-500 characters after trimming).
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Query:     query,
		Operation: "search",
	})
	defer span.End()

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	resp, err := s.search(ctx, query, limit)
	if err != nil {
		span.SetError(err)
	}
	return resp, err
}

func (s *SearchService) search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	if s.cache == nil {
		return s.searchOnce(ctx, query, limit)
	}

	fetch := cache.Wrap(s.cache,
		func() string { return searchCacheKey(query, limit, s.ranker.Fallback()) },
		s.cacheTTL,
		func(ctx context.Context) (*SearchResponse, error) {
			return s.searchOnce(ctx, query, limit)
		},
	)
	return fetch(ctx)
}

func (s *SearchService) searchOnce(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	results, err := s.ranker.Rank(ctx, query, limit)
	if err != nil {
		// A dead datastore degrades to a soft response; an embedding
		// provider failure is terminal for the request.
		if errors.Is(err, ErrStoreUnavailable) {
			log.Printf("search: degrading to empty response: %v", err)
			telemetry.CaptureError(ctx, err)
			return emptyResponse(storeUnavailableAnswer, s.ranker.Fallback()), nil
		}
		return nil, err
	}

	if len(results) == 0 {
		return emptyResponse(noResultsAnswer, s.ranker.Fallback()), nil
	}

	answer, err := s.synthesizer.Synthesize(ctx, query, results)
	if err != nil {
		return nil, err
	}

	return &SearchResponse{
		Answer:       answer.Answer,
		Sources:      answer.Sources,
		TotalCount:   len(results),
		SourceCounts: countSources(results),
		BestExpert:   answer.BestExpert,
		Fallback:     s.ranker.Fallback(),
	}, nil
}

func emptyResponse(answer string, fallback bool) *SearchResponse {
	return &SearchResponse{
		Answer:     answer,
		Sources:    []SourceChunk{},
		BestExpert: BestExpert{Author: NoExpertAuthor},
		Fallback:   fallback,
	}
}

func countSources(results []*domain.SearchResult) SourceCounts {
	var counts SourceCounts
	for _, result := range results {
		switch result.Metadata.Source {
		case domain.SourceSlack:
			counts.Slack++
		case domain.SourceNotion:
			counts.Notion++
		}
	}
	return counts
}

func searchCacheKey(query string, limit int, fallback bool) string {
	return fmt.Sprintf("search:%s:%d:%t", query, limit, fallback)
}
