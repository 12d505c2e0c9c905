package domain

import "time"

// Highlight is a user's highlighted text span within a bookmark's reader view.
// Text and Position describe a point in history and are immutable after
// creation; only Color and Note may change.
type Highlight struct {
	ID         string              `json:"id"`
	BookmarkID string              `json:"bookmark_id"`
	UserID     string              `json:"user_id,omitempty"`
	Text       string              `json:"text"`
	Color      Color               `json:"color"`
	Note       string              `json:"note,omitempty"`
	Position   *PositionDescriptor `json:"position_data"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// HighlightUpdate carries the mutable fields of a highlight. Nil means
// "leave unchanged". Text and position data are never part of an update.
type HighlightUpdate struct {
	Color *Color  `json:"color,omitempty"`
	Note  *string `json:"note,omitempty"`
}

// HighlightRepository defines persistence operations for highlights.
type HighlightRepository interface {
	Create(highlight *Highlight, token string) (*Highlight, error)
	ListByBookmark(bookmarkID string, token string) ([]*Highlight, error)
	Update(highlightID string, update *HighlightUpdate, token string) (*Highlight, error)
	Delete(highlightID string, token string) error
}

// HighlightService defines the use-case operations for highlights.
type HighlightService interface {
	CreateHighlight(userID string, highlight *Highlight, token string) (*Highlight, error)
	ListHighlights(userID string, bookmarkID string, token string) ([]*Highlight, error)
	UpdateHighlight(userID string, highlightID string, update *HighlightUpdate, token string) (*Highlight, error)
	DeleteHighlight(userID string, highlightID string, token string) error
}
