package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/mnemonic-fyi/mnemonic/internal/service"
	"github.com/pgvector/pgvector-go"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KnowledgeRepository handles persistence of ingested knowledge items.
type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func (r *KnowledgeRepository) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_items
			(id, content, embedding, source, author, url, source_ts, channel, workspace, title, created_at, updated_at)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		k.ID,
		k.Content,
		pgvector.NewVector(k.Embedding),
		k.Metadata.Source,
		k.Metadata.Author,
		k.Metadata.URL,
		k.Metadata.Timestamp,
		nullableString(k.Metadata.Channel),
		nullableString(k.Metadata.Workspace),
		nullableString(k.Metadata.Title),
		k.CreatedAt,
		k.UpdatedAt,
	)
	return err
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, content, source, author, url, source_ts, channel, workspace, title, created_at, updated_at
		 FROM knowledge_items WHERE id = $1`,
		id,
	)

	item, err := scanKnowledgeItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// SearchByEmbedding ranks stored items by cosine similarity against the query
// embedding and returns the top limit items above the threshold.
// pgvector's <=> operator is cosine distance, so similarity = 1 - distance.
func (r *KnowledgeRepository) SearchByEmbedding(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*domain.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT id, content, source, author, url, source_ts, channel, workspace, title, created_at, updated_at,
		        1 - (embedding <=> $1) AS similarity
		 FROM knowledge_items
		 WHERE embedding IS NOT NULL AND 1 - (embedding <=> $1) >= $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.SearchResult, 0)
	for rows.Next() {
		var result domain.SearchResult
		var channel, workspace, title *string
		if err := rows.Scan(
			&result.ID, &result.Content, &result.Metadata.Source, &result.Metadata.Author,
			&result.Metadata.URL, &result.Metadata.Timestamp, &channel, &workspace, &title,
			&result.CreatedAt, &result.UpdatedAt, &result.Similarity,
		); err != nil {
			return nil, err
		}
		applyOptionalMetadata(&result.KnowledgeItem, channel, workspace, title)
		results = append(results, &result)
	}

	return results, rows.Err()
}

// SearchByContent filters items by case-insensitive substring match in store
// order. This is a filter, not a ranking; the caller assigns a placeholder
// similarity.
func (r *KnowledgeRepository) SearchByContent(ctx context.Context, query string, limit int) ([]*domain.KnowledgeItem, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, content, source, author, url, source_ts, channel, workspace, title, created_at, updated_at
		 FROM knowledge_items
		 WHERE content ILIKE '%' || $1 || '%'
		 ORDER BY created_at
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanKnowledgeRows(rows)
}

func (r *KnowledgeRepository) GetStats(ctx context.Context) (*service.KnowledgeStats, error) {
	var stats service.KnowledgeStats
	var lastUpdated *time.Time

	err := r.db.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE source = 'slack'),
		        count(*) FILTER (WHERE source = 'notion'),
		        max(updated_at)
		 FROM knowledge_items`,
	).Scan(&stats.TotalItems, &stats.SlackItems, &stats.NotionItems, &lastUpdated)
	if err != nil {
		return nil, err
	}

	if lastUpdated != nil {
		stats.LastUpdated = *lastUpdated
	}
	return &stats, nil
}

func scanKnowledgeItem(row pgx.Row) (*domain.KnowledgeItem, error) {
	var item domain.KnowledgeItem
	var channel, workspace, title *string
	err := row.Scan(
		&item.ID, &item.Content, &item.Metadata.Source, &item.Metadata.Author,
		&item.Metadata.URL, &item.Metadata.Timestamp, &channel, &workspace, &title,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	applyOptionalMetadata(&item, channel, workspace, title)
	return &item, nil
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeItem, error) {
	items := make([]*domain.KnowledgeItem, 0)
	for rows.Next() {
		var item domain.KnowledgeItem
		var channel, workspace, title *string
		if err := rows.Scan(
			&item.ID, &item.Content, &item.Metadata.Source, &item.Metadata.Author,
			&item.Metadata.URL, &item.Metadata.Timestamp, &channel, &workspace, &title,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		applyOptionalMetadata(&item, channel, workspace, title)
		items = append(items, &item)
	}
	return items, rows.Err()
}

func applyOptionalMetadata(item *domain.KnowledgeItem, channel, workspace, title *string) {
	if channel != nil {
		item.Metadata.Channel = *channel
	}
	if workspace != nil {
		item.Metadata.Workspace = *workspace
	}
	if title != nil {
		item.Metadata.Title = *title
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
