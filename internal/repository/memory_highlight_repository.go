package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookmark-highlighter/internal/domain"
)

// MemoryHighlightRepository is an in-memory domain.HighlightRepository used
// when no Supabase backend is configured (local development) and by tests.
// It assigns uuid ids and server-side timestamps the way the backend would.
type MemoryHighlightRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Highlight
	logger domain.Logger
}

func NewMemoryHighlightRepository(logger domain.Logger) *MemoryHighlightRepository {
	return &MemoryHighlightRepository{
		byID:   make(map[string]*domain.Highlight),
		logger: logger,
	}
}

func (r *MemoryHighlightRepository) Create(highlight *domain.Highlight, token string) (*domain.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneHighlight(highlight)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = stored

	return cloneHighlight(stored), nil
}

func (r *MemoryHighlightRepository) ListByBookmark(bookmarkID string, token string) ([]*domain.Highlight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Highlight, 0)
	for _, h := range r.byID {
		if h.BookmarkID == bookmarkID {
			out = append(out, cloneHighlight(h))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryHighlightRepository) Update(highlightID string, update *domain.HighlightUpdate, token string) (*domain.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byID[highlightID]
	if !ok {
		return nil, domain.ErrHighlightNotFound
	}
	if update.Color != nil {
		h.Color = *update.Color
	}
	if update.Note != nil {
		h.Note = *update.Note
	}
	h.UpdatedAt = time.Now().UTC()

	return cloneHighlight(h), nil
}

func (r *MemoryHighlightRepository) Delete(highlightID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[highlightID]; !ok {
		return domain.ErrHighlightNotFound
	}
	delete(r.byID, highlightID)
	return nil
}

func cloneHighlight(h *domain.Highlight) *domain.Highlight {
	clone := *h
	if h.Position != nil {
		pos := *h.Position
		clone.Position = &pos
	}
	return &clone
}
