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

func TestAnswerSynthesizer_Synthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the model reply and attributes the best expert", func(t *testing.T) {
		completion := new(MockCompletionClient)
		completion.On("Complete", mock.Anything, synthesizerSystemPrompt, mock.MatchedBy(func(user string) bool {
			return len(user) > 0
		})).Return(`{"answer":"Use the deploy script.","bestExpert":{"author":"Sam","relevance":0.99}}`, nil)

		synth := NewAnswerSynthesizer(completion)
		results := []*domain.SearchResult{
			slackResult("Jane", "run scripts/deploy.sh", 0.9),
			slackResult("Sam", "ping ops first", 0.72),
		}

		answer, err := synth.Synthesize(ctx, "how do we deploy", results)

		require.NoError(t, err)
		assert.Equal(t, "Use the deploy script.", answer.Answer)
		require.Len(t, answer.Sources, 2)
		assert.Equal(t, "run scripts/deploy.sh", answer.Sources[0].Content)
		assert.Equal(t, "slack", answer.Sources[0].Source)

		// The tally from retrieval scores wins over the model's self-report.
		assert.Equal(t, "Jane", answer.BestExpert.Author)
		assert.InDelta(t, 0.9, answer.BestExpert.Relevance, 0.0001)
		assert.Equal(t, "https://slack.com/app_redirect?channel=Jane", answer.BestExpert.SlackDMLink)
	})

	t.Run("malformed model reply degrades to the default answer", func(t *testing.T) {
		completion := new(MockCompletionClient)
		completion.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return("Sorry, here is some prose instead of JSON.", nil)

		synth := NewAnswerSynthesizer(completion)
		results := []*domain.SearchResult{slackResult("Jane", "content", 0.8)}

		answer, err := synth.Synthesize(ctx, "query", results)

		require.NoError(t, err)
		assert.Equal(t, defaultAnswer, answer.Answer)
		assert.Equal(t, "Jane", answer.BestExpert.Author)
	})

	t.Run("completion failure propagates as an upstream error", func(t *testing.T) {
		completion := new(MockCompletionClient)
		completion.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("model overloaded"))

		synth := NewAnswerSynthesizer(completion)

		_, err := synth.Synthesize(ctx, "query", []*domain.SearchResult{slackResult("Jane", "c", 0.8)})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCompletionFailed)
	})
}

func TestExtractiveSynthesizer_Synthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks and tally without a completion provider", func(t *testing.T) {
		synth := NewExtractiveSynthesizer()
		results := []*domain.SearchResult{
			slackResult("Jane", "run scripts/deploy.sh", 0.5),
			slackResult("Sam", "ping ops first", 0.5),
			slackResult("Jane", "rollback with deploy.sh -r", 0.5),
		}

		answer, err := synth.Synthesize(ctx, "how do we deploy", results)

		require.NoError(t, err)
		assert.Equal(t, defaultAnswer, answer.Answer)
		require.Len(t, answer.Sources, 3)
		assert.Equal(t, "run scripts/deploy.sh", answer.Sources[0].Content)
		assert.Equal(t, "Jane", answer.BestExpert.Author)
		assert.InDelta(t, 1.0, answer.BestExpert.Relevance, 0.0001)
	})

	t.Run("empty candidate set reports no expert", func(t *testing.T) {
		answer, err := NewExtractiveSynthesizer().Synthesize(ctx, "query", nil)

		require.NoError(t, err)
		assert.Equal(t, NoExpertAuthor, answer.BestExpert.Author)
		assert.Empty(t, answer.Sources)
	})
}

func TestBuildPrompt(t *testing.T) {
	chunks := []SourceChunk{
		{Content: "run scripts/deploy.sh", Author: "Jane", Source: "slack"},
		{Content: "deploy checklist", Author: "Sam", Source: "notion"},
	}

	prompt := buildPrompt("how do we deploy", chunks)

	assert.Contains(t, prompt, "User Question: how do we deploy")
	assert.Contains(t, prompt, "Author: Jane\nContent: run scripts/deploy.sh\nSource: slack")
	assert.Contains(t, prompt, "Author: Sam\nContent: deploy checklist\nSource: notion")
	assert.Contains(t, prompt, "Only respond with valid JSON")
}

func TestTallyBestExpert(t *testing.T) {
	t.Run("sums similarity per author", func(t *testing.T) {
		results := []*domain.SearchResult{
			slackResult("Jane", "a", 0.6),
			slackResult("Sam", "b", 0.5),
			slackResult("Jane", "c", 0.6),
		}

		expert := tallyBestExpert(results)

		assert.Equal(t, "Jane", expert.Author)
		assert.InDelta(t, 1.2, expert.Relevance, 0.0001)
		assert.Equal(t, slackDMScheme+"Jane", expert.SlackDMLink)
	})

	t.Run("ties break by first-seen order", func(t *testing.T) {
		results := []*domain.SearchResult{
			slackResult("Sam", "a", 0.5),
			slackResult("Jane", "b", 0.5),
		}

		expert := tallyBestExpert(results)
		assert.Equal(t, "Sam", expert.Author)
	})

	t.Run("empty candidate set reports no expert", func(t *testing.T) {
		expert := tallyBestExpert(nil)

		assert.Equal(t, NoExpertAuthor, expert.Author)
		assert.Zero(t, expert.Relevance)
		assert.Empty(t, expert.SlackDMLink)
	})
}
