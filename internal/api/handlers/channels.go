package handlers

import (
	"context"
	"net/http"

	"github.com/mnemonic-fyi/mnemonic/internal/api"
	"github.com/mnemonic-fyi/mnemonic/internal/slack"
)

type ChannelLister interface {
	ListChannels(ctx context.Context) ([]slack.Channel, error)
}

type ChannelsHandler struct {
	svc ChannelLister
}

func NewChannelsHandler(svc ChannelLister) *ChannelsHandler {
	return &ChannelsHandler{svc: svc}
}

func (h *ChannelsHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.svc.ListChannels(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if channels == nil {
		channels = []slack.Channel{}
	}

	api.JSON(w, http.StatusOK, channels)
}
