package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/mnemonic-fyi/mnemonic/internal/notion"
	"github.com/mnemonic-fyi/mnemonic/internal/slack"
	"github.com/mnemonic-fyi/mnemonic/internal/telemetry"
)

// SlackFetcher defines the Slack connector interface
type SlackFetcher interface {
	FetchMessages(ctx context.Context, channelID string, limit int) ([]slack.Message, error)
}

// NotionFetcher defines the Notion connector interface
type NotionFetcher interface {
	FetchPages(ctx context.Context) ([]notion.Page, error)
}

// IngestRepository defines the repository interface for the write path
type IngestRepository interface {
	Create(ctx context.Context, k *domain.KnowledgeItem) error
}

// IngestService pulls content from source connectors, embeds it, and persists
// knowledge items. Per-item failures are logged and skipped; one bad item
// never aborts the batch.
type IngestService struct {
	slack     SlackFetcher
	notion    NotionFetcher
	embedding EmbeddingClient
	repo      IngestRepository
	uuidGen   UUIDGenerator
	now       func() time.Time
}

func NewIngestService(slackClient SlackFetcher, notionClient NotionFetcher, embedding EmbeddingClient, repo IngestRepository, uuidGen UUIDGenerator) *IngestService {
	return &IngestService{
		slack:     slackClient,
		notion:    notionClient,
		embedding: embedding,
		repo:      repo,
		uuidGen:   uuidGen,
		now:       time.Now,
	}
}

// IngestSlack pulls messages from a channel and stores the survivors.
// The returned count is items successfully stored, not items fetched.
func (s *IngestService) IngestSlack(ctx context.Context, channelID, workspaceID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.IngestSlack", telemetry.SpanAttributes{
		Source:    string(domain.SourceSlack),
		Operation: "ingest",
	})
	defer span.End()

	if s.slack == nil {
		return 0, fmt.Errorf("slack connector not configured")
	}

	messages, err := s.slack.FetchMessages(ctx, channelID, slack.DefaultHistoryLimit)
	if err != nil {
		span.SetError(err)
		return 0, fmt.Errorf("failed to fetch slack messages: %w", err)
	}

	ingested := 0
	for _, msg := range messages {
		meta := domain.Metadata{
			Source:    domain.SourceSlack,
			Author:    msg.User,
			URL:       msg.Permalink,
			Timestamp: msg.Timestamp,
			Channel:   msg.Channel,
			Workspace: workspaceID,
		}
		if s.storeItem(ctx, msg.Text, meta) {
			ingested++
		}
	}

	return ingested, nil
}

// IngestNotion pulls all pages visible to the integration and stores the
// survivors. databaseID is accepted for API compatibility but the connector
// lists pages workspace-wide.
func (s *IngestService) IngestNotion(ctx context.Context, workspaceID, databaseID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.IngestNotion", telemetry.SpanAttributes{
		Source:    string(domain.SourceNotion),
		Operation: "ingest",
	})
	defer span.End()

	if s.notion == nil {
		return 0, fmt.Errorf("notion connector not configured")
	}

	pages, err := s.notion.FetchPages(ctx)
	if err != nil {
		span.SetError(err)
		return 0, fmt.Errorf("failed to fetch notion pages: %w", err)
	}

	ingested := 0
	for _, page := range pages {
		meta := domain.Metadata{
			Source:    domain.SourceNotion,
			Author:    page.Author,
			URL:       page.URL,
			Timestamp: page.LastEditedTime.UTC().Format(time.RFC3339),
			Workspace: workspaceID,
			Title:     page.Title,
		}
		if s.storeItem(ctx, page.Content, meta) {
			ingested++
		}
	}

	return ingested, nil
}

// storeItem embeds and persists one content chunk, reporting success.
// Empty content is skipped; embedding and insert failures are logged and the
// item is dropped.
func (s *IngestService) storeItem(ctx context.Context, content string, meta domain.Metadata) bool {
	if content == "" {
		return false
	}

	embedding, err := s.embedding.GenerateEmbedding(ctx, content)
	if err != nil {
		log.Printf("ingest: failed to embed %s item: %v", meta.Source, err)
		return false
	}

	item := domain.NewKnowledgeItem(s.uuidGen.NewUUID(), content, embedding, meta, s.now().UTC())
	if err := domain.ValidateKnowledgeItem(item); err != nil {
		log.Printf("ingest: invalid %s item: %v", meta.Source, err)
		return false
	}

	if err := s.repo.Create(ctx, item); err != nil {
		log.Printf("ingest: failed to store %s item: %v", meta.Source, err)
		return false
	}

	return true
}
