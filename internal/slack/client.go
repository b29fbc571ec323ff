// Package slack wraps the Slack Web API for message ingestion.
package slack

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// DefaultHistoryLimit bounds how many messages are pulled per channel.
const DefaultHistoryLimit = 1000

// Message is a normalized Slack message ready for ingestion.
type Message struct {
	Text      string
	User      string
	Channel   string
	Timestamp string
	Permalink string
}

// Channel identifies a Slack conversation.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// API defines the subset of the Slack Web API the client depends on.
type API interface {
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetPermalinkContext(ctx context.Context, params *slack.PermalinkParameters) (string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

// Client fetches and normalizes Slack content.
type Client struct {
	api API
}

func NewClient(botToken string) *Client {
	return &Client{api: slack.New(botToken)}
}

func NewClientWithAPI(api API) *Client {
	return &Client{api: api}
}

// FetchMessages pulls up to limit messages from a channel and resolves the
// author's display name and a permalink for each. Bot-authored and
// subtype-tagged events are excluded, as are messages with empty text.
func (c *Client) FetchMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	history, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel history: %w", err)
	}

	messages := make([]Message, 0, len(history.Messages))
	for _, msg := range history.Messages {
		if msg.Type != "message" || msg.Text == "" || msg.BotID != "" || msg.SubType != "" {
			continue
		}

		permalink, err := c.api.GetPermalinkContext(ctx, &slack.PermalinkParameters{
			Channel: channelID,
			Ts:      msg.Timestamp,
		})
		if err != nil {
			log.Printf("slack: failed to resolve permalink for %s: %v", msg.Timestamp, err)
		}

		author := "Unknown"
		if msg.User != "" {
			user, err := c.api.GetUserInfoContext(ctx, msg.User)
			if err != nil {
				log.Printf("slack: failed to resolve user %s: %v", msg.User, err)
			} else if user.RealName != "" {
				author = user.RealName
			} else if user.Name != "" {
				author = user.Name
			}
		}

		messages = append(messages, Message{
			Text:      msg.Text,
			User:      author,
			Channel:   channelID,
			Timestamp: msg.Timestamp,
			Permalink: permalink,
		})
	}

	return messages, nil
}

// ListChannels returns public and private channels, excluding archived ones.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	conversations, _, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Types:           []string{"public_channel", "private_channel"},
		ExcludeArchived: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	channels := make([]Channel, 0, len(conversations))
	for _, conv := range conversations {
		channels = append(channels, Channel{ID: conv.ID, Name: conv.Name})
	}

	return channels, nil
}
