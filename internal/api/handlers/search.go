package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mnemonic-fyi/mnemonic/internal/api"
	"github.com/mnemonic-fyi/mnemonic/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, query string, limit int) (*service.SearchResponse, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchRequest struct {
	Query string `json:"query"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query, err := api.ValidateQuery(req.Query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	result, err := h.svc.Search(r.Context(), query, service.DefaultSearchLimit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, result)
}
