package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mnemonic-fyi/mnemonic/internal/api"
	"github.com/mnemonic-fyi/mnemonic/internal/service"
)

type StatsService interface {
	GetStats(ctx context.Context) (*service.KnowledgeStats, error)
}

type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

type StatsResponse struct {
	TotalItems  int    `json:"totalItems"`
	SlackItems  int    `json:"slackItems"`
	NotionItems int    `json:"notionItems"`
	LastUpdated string `json:"lastUpdated"`
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	lastUpdated := stats.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = time.Now()
	}

	api.JSON(w, http.StatusOK, StatsResponse{
		TotalItems:  stats.TotalItems,
		SlackItems:  stats.SlackItems,
		NotionItems: stats.NotionItems,
		LastUpdated: lastUpdated.UTC().Format(time.RFC3339),
	})
}
