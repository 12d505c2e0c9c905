package repository

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"bookmark-highlighter/internal/domain"
	apperrors "bookmark-highlighter/pkg/errors"
)

const highlightsTable = "bookmark_highlights"

// SupabaseHighlightRepository implements domain.HighlightRepository against
// the bookmark_highlights table. Row-level security scopes rows to the
// user behind the forwarded token.
type SupabaseHighlightRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseHighlightRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.HighlightRepository {
	return &SupabaseHighlightRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseHighlightRepository) Create(highlight *domain.Highlight, token string) (*domain.Highlight, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	row := map[string]interface{}{
		"user_id":       highlight.UserID,
		"bookmark_id":   highlight.BookmarkID,
		"text":          sanitizeText(highlight.Text),
		"note":          sanitizeText(highlight.Note),
		"color":         string(highlight.Color),
		"position_data": highlight.Position,
	}

	// Request "representation" so PostgREST returns the inserted row with
	// its server-assigned id and timestamps.
	data, _, err := client.From(highlightsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to create highlight", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create highlight: empty response")
	}

	return mapToHighlight(rows[0]), nil
}

func (r *SupabaseHighlightRepository) ListByBookmark(bookmarkID string, token string) ([]*domain.Highlight, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	// Oldest first: creation order is the batch-apply order.
	data, _, err := client.From(highlightsTable).
		Select("*", "", false).
		Eq("bookmark_id", bookmarkID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list highlights", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := make([]*domain.Highlight, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToHighlight(row))
	}
	return out, nil
}

func (r *SupabaseHighlightRepository) Update(highlightID string, update *domain.HighlightUpdate, token string) (*domain.Highlight, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	// Only the mutable fields ever reach the row; text and position_data
	// describe a point in history.
	row := map[string]interface{}{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if update.Color != nil {
		row["color"] = string(*update.Color)
	}
	if update.Note != nil {
		row["note"] = sanitizeText(*update.Note)
	}

	data, _, err := client.From(highlightsTable).
		Update(row, "representation", "").
		Eq("id", highlightID).
		Execute()
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to update highlight", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrHighlightNotFound
	}

	return mapToHighlight(rows[0]), nil
}

func (r *SupabaseHighlightRepository) Delete(highlightID string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}

	_, _, err = client.From(highlightsTable).
		Delete("", "").
		Eq("id", highlightID).
		Execute()
	if err != nil {
		return apperrors.NewPersistenceError("failed to delete highlight", err)
	}
	return nil
}

func mapToHighlight(data map[string]interface{}) *domain.Highlight {
	h := &domain.Highlight{
		ID:         getString(data, "id"),
		UserID:     getString(data, "user_id"),
		BookmarkID: getString(data, "bookmark_id"),
		Text:       getString(data, "text"),
		Note:       getString(data, "note"),
		Color:      domain.Color(getString(data, "color")),
	}

	if raw, ok := data["position_data"]; ok && raw != nil {
		if encoded, err := json.Marshal(raw); err == nil {
			var desc domain.PositionDescriptor
			if err := json.Unmarshal(encoded, &desc); err == nil {
				h.Position = &desc
			}
		}
	}

	if createdAt := getString(data, "created_at"); createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			h.CreatedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			h.CreatedAt = t
		}
	}
	if updatedAt := getString(data, "updated_at"); updatedAt != "" {
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			h.UpdatedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			h.UpdatedAt = t
		}
	}

	return h
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

var reControl = regexp.MustCompile(`[\x00]`)

// sanitizeText removes characters that PostgreSQL rejects in text fields (notably NUL bytes).
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = reControl.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\\u0000", "")
	s = strings.ReplaceAll(s, "\u0000", "")
	return s
}
