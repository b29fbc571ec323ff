package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mnemonic-fyi/mnemonic/internal/api"
)

type IngestService interface {
	IngestSlack(ctx context.Context, channelID, workspaceID string) (int, error)
	IngestNotion(ctx context.Context, workspaceID, databaseID string) (int, error)
}

type IngestHandler struct {
	svc IngestService
}

func NewIngestHandler(svc IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

type SlackIngestRequest struct {
	ChannelID   string `json:"channelId"`
	WorkspaceID string `json:"workspaceId"`
}

type NotionIngestRequest struct {
	WorkspaceID string `json:"workspaceId"`
	DatabaseID  string `json:"databaseId,omitempty"`
}

type IngestResponse struct {
	Success       bool   `json:"success"`
	IngestedCount int    `json:"ingestedCount"`
	Message       string `json:"message"`
}

func (h *IngestHandler) IngestSlack(w http.ResponseWriter, r *http.Request) {
	var req SlackIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	channelID, err := api.ValidateChannelID(req.ChannelID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	workspaceID, err := api.ValidateWorkspaceID(req.WorkspaceID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	count, err := h.svc.IngestSlack(r.Context(), channelID, workspaceID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, IngestResponse{
		Success:       true,
		IngestedCount: count,
		Message:       fmt.Sprintf("Successfully ingested %d messages from Slack", count),
	})
}

func (h *IngestHandler) IngestNotion(w http.ResponseWriter, r *http.Request) {
	var req NotionIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workspaceID, err := api.ValidateWorkspaceID(req.WorkspaceID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	count, err := h.svc.IngestNotion(r.Context(), workspaceID, api.SanitizeInput(req.DatabaseID))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, IngestResponse{
		Success:       true,
		IngestedCount: count,
		Message:       fmt.Sprintf("Successfully ingested %d pages from Notion", count),
	})
}
