package domain

import (
	"fmt"
	"time"
)

// Source identifies the connector a knowledge item was ingested from
type Source string

const (
	SourceSlack  Source = "slack"
	SourceNotion Source = "notion"
)

// Metadata describes where a knowledge item came from
type Metadata struct {
	Source    Source
	Author    string
	URL       string
	Timestamp string
	Channel   string // Slack only
	Workspace string
	Title     string // Notion only
}

// KnowledgeItem represents one ingested content chunk.
// Items are immutable once stored; there is no update path.
type KnowledgeItem struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SearchResult is a KnowledgeItem augmented with a query-time similarity
// score. Similarity is never persisted.
type SearchResult struct {
	KnowledgeItem
	Similarity float64
}

// NewKnowledgeItem creates a new KnowledgeItem instance
func NewKnowledgeItem(id, content string, embedding []float32, meta Metadata, now time.Time) *KnowledgeItem {
	return &KnowledgeItem{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateKnowledgeItem validates a KnowledgeItem instance
func ValidateKnowledgeItem(k *KnowledgeItem) error {
	if k == nil {
		return fmt.Errorf("knowledge item cannot be nil")
	}

	if k.ID == "" {
		return fmt.Errorf("%w: knowledge item ID", ErrMissingField)
	}

	if k.Content == "" {
		return fmt.Errorf("%w: knowledge item Content", ErrMissingField)
	}

	if !isValidSource(k.Metadata.Source) {
		return fmt.Errorf("%w: %s", ErrInvalidSource, k.Metadata.Source)
	}

	return nil
}

// isValidSource checks if a Source is valid
func isValidSource(s Source) bool {
	switch s {
	case SourceSlack, SourceNotion:
		return true
	}
	return false
}
