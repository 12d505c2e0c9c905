package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"bookmark-highlighter/internal/anchor"
	"bookmark-highlighter/internal/dom"
	"bookmark-highlighter/internal/domain"
	"bookmark-highlighter/internal/highlighter"
	apperrors "bookmark-highlighter/pkg/errors"
)

// AnnotateHandler exposes the anchoring engine over HTTP: batch apply of a
// bookmark's highlights into submitted reader-view HTML, and selection
// capture that persists a new highlight and returns the re-painted view.
type AnnotateHandler struct {
	highlightService domain.HighlightService
	logger           domain.Logger
}

func NewAnnotateHandler(highlightService domain.HighlightService, logger domain.Logger) *AnnotateHandler {
	return &AnnotateHandler{
		highlightService: highlightService,
		logger:           logger,
	}
}

type annotateRequest struct {
	HTML     string `json:"html"`
	ReadOnly bool   `json:"read_only"`
}

type annotateResponse struct {
	HTML    string   `json:"html"`
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// captureRequest carries raw range endpoints from the client: container-
// relative paths plus byte offsets, exactly what a selection boils down to.
// The server captures the full redundant descriptor from them.
type captureRequest struct {
	HTML        string       `json:"html"`
	StartPath   string       `json:"start_path"`
	StartOffset int          `json:"start_offset"`
	EndPath     string       `json:"end_path"`
	EndOffset   int          `json:"end_offset"`
	Color       domain.Color `json:"color"`
	Note        string       `json:"note"`
}

type captureResponse struct {
	Highlight *domain.Highlight `json:"highlight"`
	HTML      string            `json:"html"`
	Applied   []string          `json:"applied"`
	Skipped   []string          `json:"skipped"`
}

// Annotate handles POST /bookmarks/{bookmarkId}/annotate: it mounts the
// bookmark's highlights into the submitted HTML and returns the annotated
// markup. Unresolvable highlights are reported as skipped, never as errors.
func (h *AnnotateHandler) Annotate(w http.ResponseWriter, r *http.Request) {
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

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, "html is required")
		return
	}

	container, err := dom.ParseString(req.HTML)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid HTML")
		return
	}

	manager := highlighter.NewManager(bookmarkID, container, h.highlightService, h.logger, req.ReadOnly)
	if err := manager.Load(user.ID, token); err != nil {
		h.logger.Error("Failed to load highlights", err, "user_id", user.ID, "bookmark_id", bookmarkID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve highlights")
		return
	}
	report := manager.ApplyAll()

	annotated, err := dom.RenderContents(container)
	if err != nil {
		h.logger.Error("Failed to render annotated content", err, "bookmark_id", bookmarkID)
		writeError(w, http.StatusInternalServerError, "Failed to render content")
		return
	}

	writeJSON(w, http.StatusOK, annotateResponse{
		HTML:    annotated,
		Applied: report.Applied,
		Skipped: report.Skipped,
	})
}

// Capture handles POST /bookmarks/{bookmarkId}/highlights/capture: it turns
// raw selection endpoints into a full position descriptor, persists the new
// highlight, and returns it along with the fully re-painted view. A
// rejected capture (empty or out-of-container selection) is a no-op.
func (h *AnnotateHandler) Capture(w http.ResponseWriter, r *http.Request) {
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

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, "html is required")
		return
	}

	container, err := dom.ParseString(req.HTML)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid HTML")
		return
	}

	startNode := anchor.ResolveXPath(container, req.StartPath)
	endNode := anchor.ResolveXPath(container, req.EndPath)
	if startNode == nil || endNode == nil {
		writeError(w, http.StatusBadRequest, "Selection endpoints not found in content")
		return
	}
	sel := dom.NewRange(startNode, req.StartOffset, endNode, req.EndOffset)

	manager := highlighter.NewManager(bookmarkID, container, h.highlightService, h.logger, false)
	if err := manager.Load(user.ID, token); err != nil {
		h.logger.Error("Failed to load highlights", err, "user_id", user.ID, "bookmark_id", bookmarkID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve highlights")
		return
	}

	created, err := manager.CreateFromSelection(user.ID, sel, req.Color, req.Note, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidColor) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create highlight", err, "user_id", user.ID, "bookmark_id", bookmarkID)
		writeError(w, apperrors.GetStatusCode(err), "Failed to create highlight")
		return
	}
	if created == nil {
		// Capture rejection: empty or whitespace-only selection.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	report := manager.ApplyAll()
	annotated, err := dom.RenderContents(container)
	if err != nil {
		h.logger.Error("Failed to render annotated content", err, "bookmark_id", bookmarkID)
		writeError(w, http.StatusInternalServerError, "Failed to render content")
		return
	}

	writeJSON(w, http.StatusCreated, captureResponse{
		Highlight: created,
		HTML:      annotated,
		Applied:   report.Applied,
		Skipped:   report.Skipped,
	})
}
