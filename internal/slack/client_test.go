package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetConversationHistoryContext(ctx context.Context, params *slackapi.GetConversationHistoryParameters) (*slackapi.GetConversationHistoryResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slackapi.GetConversationHistoryResponse), args.Error(1)
}

func (m *MockAPI) GetPermalinkContext(ctx context.Context, params *slackapi.PermalinkParameters) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) GetUserInfoContext(ctx context.Context, user string) (*slackapi.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slackapi.User), args.Error(1)
}

func (m *MockAPI) GetConversationsContext(ctx context.Context, params *slackapi.GetConversationsParameters) ([]slackapi.Channel, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]slackapi.Channel), args.String(1), args.Error(2)
}

func historyMessage(text, user, ts string) slackapi.Message {
	msg := slackapi.Message{}
	msg.Type = "message"
	msg.Text = text
	msg.User = user
	msg.Timestamp = ts
	return msg
}

func TestClient_FetchMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes messages with author and permalink", func(t *testing.T) {
		api := new(MockAPI)
		history := &slackapi.GetConversationHistoryResponse{
			Messages: []slackapi.Message{historyMessage("deploy via scripts/deploy.sh", "U123", "1717243200.000100")},
		}
		api.On("GetConversationHistoryContext", mock.Anything, mock.MatchedBy(func(p *slackapi.GetConversationHistoryParameters) bool {
			return p.ChannelID == "C123" && p.Limit == 50
		})).Return(history, nil)
		api.On("GetPermalinkContext", mock.Anything, mock.Anything).Return("https://example.slack.com/p1", nil)
		api.On("GetUserInfoContext", mock.Anything, "U123").Return(&slackapi.User{RealName: "Jane Doe"}, nil)

		client := NewClientWithAPI(api)
		messages, err := client.FetchMessages(ctx, "C123", 50)

		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "deploy via scripts/deploy.sh", messages[0].Text)
		assert.Equal(t, "Jane Doe", messages[0].User)
		assert.Equal(t, "C123", messages[0].Channel)
		assert.Equal(t, "https://example.slack.com/p1", messages[0].Permalink)
	})

	t.Run("filters bot, subtype, and empty messages", func(t *testing.T) {
		api := new(MockAPI)

		keep := historyMessage("real message", "U123", "1.0")
		empty := historyMessage("", "U123", "2.0")
		bot := historyMessage("bot noise", "", "3.0")
		bot.BotID = "B999"
		joined := historyMessage("joined the channel", "U123", "4.0")
		joined.SubType = "channel_join"
		nonMessage := historyMessage("ephemeral", "U123", "5.0")
		nonMessage.Type = "ephemeral"

		history := &slackapi.GetConversationHistoryResponse{
			Messages: []slackapi.Message{keep, empty, bot, joined, nonMessage},
		}
		api.On("GetConversationHistoryContext", mock.Anything, mock.Anything).Return(history, nil)
		api.On("GetPermalinkContext", mock.Anything, mock.Anything).Return("https://example.slack.com/p1", nil)
		api.On("GetUserInfoContext", mock.Anything, "U123").Return(&slackapi.User{RealName: "Jane Doe"}, nil)

		client := NewClientWithAPI(api)
		messages, err := client.FetchMessages(ctx, "C123", 50)

		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "real message", messages[0].Text)
	})

	t.Run("lookup failures degrade to defaults", func(t *testing.T) {
		api := new(MockAPI)
		history := &slackapi.GetConversationHistoryResponse{
			Messages: []slackapi.Message{historyMessage("text", "U123", "1.0")},
		}
		api.On("GetConversationHistoryContext", mock.Anything, mock.Anything).Return(history, nil)
		api.On("GetPermalinkContext", mock.Anything, mock.Anything).Return("", errors.New("permalink failed"))
		api.On("GetUserInfoContext", mock.Anything, "U123").Return(nil, errors.New("user_not_found"))

		client := NewClientWithAPI(api)
		messages, err := client.FetchMessages(ctx, "C123", 50)

		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "Unknown", messages[0].User)
		assert.Empty(t, messages[0].Permalink)
	})

	t.Run("history failure aborts", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetConversationHistoryContext", mock.Anything, mock.Anything).
			Return(nil, errors.New("channel_not_found"))

		client := NewClientWithAPI(api)
		_, err := client.FetchMessages(ctx, "C123", 50)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch channel history")
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetConversationHistoryContext", mock.Anything, mock.MatchedBy(func(p *slackapi.GetConversationHistoryParameters) bool {
			return p.Limit == DefaultHistoryLimit
		})).Return(&slackapi.GetConversationHistoryResponse{}, nil)

		client := NewClientWithAPI(api)
		_, err := client.FetchMessages(ctx, "C123", 0)

		require.NoError(t, err)
		api.AssertExpectations(t)
	})
}

func TestClient_ListChannels(t *testing.T) {
	ctx := context.Background()

	t.Run("returns normalized channels", func(t *testing.T) {
		api := new(MockAPI)
		general := slackapi.Channel{}
		general.ID = "C123"
		general.Name = "general"
		private := slackapi.Channel{}
		private.ID = "G456"
		private.Name = "platform-private"

		api.On("GetConversationsContext", mock.Anything, mock.MatchedBy(func(p *slackapi.GetConversationsParameters) bool {
			return p.ExcludeArchived && len(p.Types) == 2
		})).Return([]slackapi.Channel{general, private}, "", nil)

		client := NewClientWithAPI(api)
		channels, err := client.ListChannels(ctx)

		require.NoError(t, err)
		require.Len(t, channels, 2)
		assert.Equal(t, Channel{ID: "C123", Name: "general"}, channels[0])
		assert.Equal(t, Channel{ID: "G456", Name: "platform-private"}, channels[1])
	})

	t.Run("propagates API failures", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetConversationsContext", mock.Anything, mock.Anything).
			Return(nil, "", errors.New("invalid_auth"))

		client := NewClientWithAPI(api)
		_, err := client.ListChannels(ctx)

		assert.Error(t, err)
	})
}
