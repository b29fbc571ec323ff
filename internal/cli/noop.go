package cli

import (
	"context"
	"fmt"

	"github.com/mnemonic-fyi/mnemonic/internal/slack"
)

type noOpEmbeddingClient struct{}

func (c *noOpEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding provider not configured: MNEMONIC_OPENAI_API_KEY required")
}

type noOpChannelLister struct{}

func (l *noOpChannelLister) ListChannels(ctx context.Context) ([]slack.Channel, error) {
	return nil, fmt.Errorf("slack connector not configured: MNEMONIC_SLACK_BOT_TOKEN required")
}
