// Package handler exposes the researcher backlog board.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voxlab/internal/backlog"
	backlogservice "voxlab/internal/backlog/service"
	"voxlab/internal/transport/http/shared"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// Service defines the backlog operations the handler needs.
type Service interface {
	Create(ctx context.Context, in backlogservice.CreateInput) (*backlog.Item, error)
	Get(ctx context.Context, itemID id.BacklogItemID) (*backlog.Item, error)
	ListByType(ctx context.Context, itemType backlog.ItemType) ([]*backlog.Item, error)
	Move(ctx context.Context, itemID id.BacklogItemID, target backlog.Status) (*backlog.Item, error)
	Reorder(ctx context.Context, itemType backlog.ItemType, status backlog.Status, orderedIDs []id.BacklogItemID) error
	AddComment(ctx context.Context, itemID id.BacklogItemID, body string) (*backlog.Comment, error)
	ListComments(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Comment, error)
	AddLink(ctx context.Context, itemID id.BacklogItemID, url, label string) (*backlog.Link, error)
	ListLinks(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Link, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/backlog/items", h.handleCreate)
	r.Get("/backlog/items", h.handleList)
	r.Get("/backlog/items/{id}", h.handleGet)
	r.Post("/backlog/items/{id}/move", h.handleMove)
	r.Post("/backlog/reorder", h.handleReorder)
	r.Post("/backlog/items/{id}/comments", h.handleAddComment)
	r.Get("/backlog/items/{id}/comments", h.handleListComments)
	r.Post("/backlog/items/{id}/links", h.handleAddLink)
	r.Get("/backlog/items/{id}/links", h.handleListLinks)
}

type createItemRequest struct {
	Type        string `json:"type" validate:"required"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	ResponseID  string `json:"response_id,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	in := backlogservice.CreateInput{
		Type:        backlog.ItemType(req.Type),
		Status:      backlog.Status(req.Status),
		Priority:    backlog.Priority(req.Priority),
		Title:       req.Title,
		Description: req.Description,
	}
	if req.ResponseID != "" {
		respID, err := id.ParseResponseID(req.ResponseID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		in.ResponseID = &respID
	}

	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	itemType := backlog.ItemType(r.URL.Query().Get("type"))
	if itemType == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "type query parameter is required"))
		return
	}
	items, err := h.service.ListByType(r.Context(), itemType)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseBacklogItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), itemID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

type moveRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseBacklogItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req moveRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	item, err := h.service.Move(r.Context(), itemID, backlog.Status(req.Status))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

type reorderRequest struct {
	Type   string   `json:"type" validate:"required"`
	Status string   `json:"status" validate:"required"`
	IDs    []string `json:"ids" validate:"required"`
}

func (h *Handler) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	ids := make([]id.BacklogItemID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		itemID, err := id.ParseBacklogItemID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		ids = append(ids, itemID)
	}
	if err := h.service.Reorder(r.Context(), backlog.ItemType(req.Type), backlog.Status(req.Status), ids); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseBacklogItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req addCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	comment, err := h.service.AddComment(r.Context(), itemID, req.Body)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseBacklogItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	comments, err := h.service.ListComments(r.Context(), itemID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, comments)
}

type addLinkRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Label string `json:"label,omitempty"`
}

func (h *Handler) handleAddLink(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseBacklogItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req addLinkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	link, err := h.service.AddLink(r.Context(), itemID, req.URL, req.Label)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleListLinks(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseBacklogItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	links, err := h.service.ListLinks(r.Context(), itemID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, links)
}
