package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/mnemonic-fyi/mnemonic/internal/telemetry"
)

const (
	// NoExpertAuthor is reported when no candidate author exists.
	NoExpertAuthor = "No expert found"

	// slackDMScheme is the messaging-platform deep-link for reaching an expert.
	slackDMScheme = "https://slack.com/app_redirect?channel="

	synthesizerSystemPrompt = "You are a helpful assistant that provides concise answers based on team knowledge from Slack and Notion. Always respond with valid JSON only."

	defaultAnswer = "No relevant information found."
)

// CompletionClient defines the interface for chat completion
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// SourceChunk is one candidate chunk surfaced to the caller.
type SourceChunk struct {
	Content string `json:"content"`
	Author  string `json:"author"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// BestExpert identifies the author whose content contributed most to the
// candidate set.
type BestExpert struct {
	Author      string  `json:"author"`
	Relevance   float64 `json:"relevance"`
	SlackDMLink string  `json:"slackDmLink"`
}

// Answer is the synthesized reply for a query.
type Answer struct {
	Answer     string
	Sources    []SourceChunk
	BestExpert BestExpert
}

// completionReply mirrors the strict-JSON structure the prompt asks for.
// Missing fields degrade to defaults rather than erroring.
type completionReply struct {
	Answer     string `json:"answer"`
	BestExpert struct {
		Author    string  `json:"author"`
		Relevance float64 `json:"relevance"`
	} `json:"bestExpert"`
}

// AnswerSynthesizer turns a query plus candidate chunks into a concise answer
// with best-expert attribution.
type AnswerSynthesizer struct {
	completion CompletionClient
}

func NewAnswerSynthesizer(completion CompletionClient) *AnswerSynthesizer {
	return &AnswerSynthesizer{completion: completion}
}

// Synthesize sends the query and chunks to the completion provider and parses
// its JSON reply. Provider errors propagate as request-level failures; a
// malformed reply degrades to defaults.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, query string, results []*domain.SearchResult) (*Answer, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnswerSynthesizer.Synthesize", telemetry.SpanAttributes{
		Query:     query,
		Operation: "synthesize",
	})
	defer span.End()

	chunks := toSourceChunks(results)

	reply, err := s.completion.Complete(ctx, synthesizerSystemPrompt, buildPrompt(query, chunks))
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	var parsed completionReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		parsed = completionReply{}
	}

	answer := parsed.Answer
	if answer == "" {
		answer = defaultAnswer
	}

	return &Answer{
		Answer:     answer,
		Sources:    chunks,
		BestExpert: tallyBestExpert(results),
	}, nil
}

// ExtractiveSynthesizer serves deployments without a completion provider.
// It skips model synthesis and returns the retrieved chunks as-is with
// tally-based expert attribution, so degraded mode still answers queries.
type ExtractiveSynthesizer struct{}

func NewExtractiveSynthesizer() *ExtractiveSynthesizer {
	return &ExtractiveSynthesizer{}
}

func (s *ExtractiveSynthesizer) Synthesize(ctx context.Context, query string, results []*domain.SearchResult) (*Answer, error) {
	return &Answer{
		Answer:     defaultAnswer,
		Sources:    toSourceChunks(results),
		BestExpert: tallyBestExpert(results),
	}, nil
}

func buildPrompt(query string, chunks []SourceChunk) string {
	contexts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contexts = append(contexts, fmt.Sprintf("Author: %s\nContent: %s\nSource: %s", chunk.Author, chunk.Content, chunk.Source))
	}

	return fmt.Sprintf(`Based on the following context from Slack messages and Notion pages, provide a concise answer to the user's question.

User Question: %s

Context:
%s

Please provide:
1. A clear, concise answer (2-3 sentences max)
2. Identify the best expert (author with most relevant content)
3. Format your response as JSON with the following structure:
{
  "answer": "your answer here",
  "bestExpert": {
    "author": "expert name",
    "relevance": 0.95
  }
}

Only respond with valid JSON, no additional text.`, query, strings.Join(contexts, "\n\n"))
}

// tallyBestExpert sums per-author similarity over the candidate set. The
// highest tally wins; ties break by first-seen order in the candidate list.
func tallyBestExpert(results []*domain.SearchResult) BestExpert {
	if len(results) == 0 {
		return BestExpert{Author: NoExpertAuthor}
	}

	tallies := make(map[string]float64, len(results))
	order := make([]string, 0, len(results))
	for _, result := range results {
		author := result.Metadata.Author
		if _, seen := tallies[author]; !seen {
			order = append(order, author)
		}
		tallies[author] += result.Similarity
	}

	best := order[0]
	for _, author := range order[1:] {
		if tallies[author] > tallies[best] {
			best = author
		}
	}

	return BestExpert{
		Author:      best,
		Relevance:   tallies[best],
		SlackDMLink: slackDMScheme + best,
	}
}

func toSourceChunks(results []*domain.SearchResult) []SourceChunk {
	chunks := make([]SourceChunk, 0, len(results))
	for _, result := range results {
		chunks = append(chunks, SourceChunk{
			Content: result.Content,
			Author:  result.Metadata.Author,
			URL:     result.Metadata.URL,
			Source:  string(result.Metadata.Source),
		})
	}
	return chunks
}
