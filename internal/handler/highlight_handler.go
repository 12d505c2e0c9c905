package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"bookmark-highlighter/internal/domain"
	apperrors "bookmark-highlighter/pkg/errors"
)

// HighlightHandler handles the plain CRUD routes for highlights. The
// engine-backed routes (annotate, capture) live in AnnotateHandler.
type HighlightHandler struct {
	highlightService domain.HighlightService
	logger           domain.Logger
}

func NewHighlightHandler(highlightService domain.HighlightService, logger domain.Logger) *HighlightHandler {
	return &HighlightHandler{
		highlightService: highlightService,
		logger:           logger,
	}
}

type createHighlightRequest struct {
	Text     string                     `json:"text"`
	Color    domain.Color               `json:"color"`
	Note     string                     `json:"note"`
	Position *domain.PositionDescriptor `json:"position_data"`
}

// ListHighlights handles GET /bookmarks/{bookmarkId}/highlights
func (h *HighlightHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	bookmarkID := mux.Vars(r)["bookmarkId"]
	if bookmarkID == "" {
		writeError(w, http.StatusBadRequest, "Bookmark ID is required")
		return
	}

	highlights, err := h.highlightService.ListHighlights(user.ID, bookmarkID, token)
	if err != nil {
		h.logger.Error("Failed to list highlights", err, "user_id", user.ID, "bookmark_id", bookmarkID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve highlights")
		return
	}
	if highlights == nil {
		highlights = make([]*domain.Highlight, 0)
	}
	writeJSON(w, http.StatusOK, highlights)
}

// CreateHighlight handles POST /bookmarks/{bookmarkId}/highlights
func (h *HighlightHandler) CreateHighlight(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	bookmarkID := mux.Vars(r)["bookmarkId"]
	if bookmarkID == "" {
		writeError(w, http.StatusBadRequest, "Bookmark ID is required")
		return
	}

	var req createHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Position == nil {
		writeError(w, http.StatusBadRequest, "position_data is required")
		return
	}

	created, err := h.highlightService.CreateHighlight(user.ID, &domain.Highlight{
		BookmarkID: bookmarkID,
		Text:       req.Text,
		Color:      req.Color,
		Note:       req.Note,
		Position:   req.Position,
	}, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidColor) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create highlight", err, "user_id", user.ID, "bookmark_id", bookmarkID)
		writeError(w, apperrors.GetStatusCode(err), "Failed to create highlight")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateHighlight handles PUT /highlights/{id}. Only color and note are
// mutable; text and position data are rejected by shape.
func (h *HighlightHandler) UpdateHighlight(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	highlightID := mux.Vars(r)["id"]
	if highlightID == "" {
		writeError(w, http.StatusBadRequest, "Highlight ID is required")
		return
	}

	var update domain.HighlightUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.highlightService.UpdateHighlight(user.ID, highlightID, &update, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHighlightNotFound):
			writeError(w, http.StatusNotFound, "Highlight not found")
		case errors.Is(err, domain.ErrInvalidColor):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update highlight", err, "user_id", user.ID, "highlight_id", highlightID)
			writeError(w, apperrors.GetStatusCode(err), "Failed to update highlight")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteHighlight handles DELETE /highlights/{id}
func (h *HighlightHandler) DeleteHighlight(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	highlightID := mux.Vars(r)["id"]
	if highlightID == "" {
		writeError(w, http.StatusBadRequest, "Highlight ID is required")
		return
	}

	if err := h.highlightService.DeleteHighlight(user.ID, highlightID, token); err != nil {
		if errors.Is(err, domain.ErrHighlightNotFound) {
			writeError(w, http.StatusNotFound, "Highlight not found")
			return
		}
		h.logger.Error("Failed to delete highlight", err, "user_id", user.ID, "highlight_id", highlightID)
		writeError(w, apperrors.GetStatusCode(err), "Failed to delete highlight")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
