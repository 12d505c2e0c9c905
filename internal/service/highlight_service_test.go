package service

import (
	"errors"
	"testing"
	"time"

	"bookmark-highlighter/internal/domain"
)

// Mock implementations for testing
type MockHighlightRepository struct {
	highlights  map[string]*domain.Highlight
	lastCreated *domain.Highlight
	lastUpdate  *domain.HighlightUpdate
	lastDeleted string
	failWith    error
}

func NewMockHighlightRepository() *MockHighlightRepository {
	return &MockHighlightRepository{
		highlights: make(map[string]*domain.Highlight),
	}
}

func (m *MockHighlightRepository) Create(highlight *domain.Highlight, token string) (*domain.Highlight, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	stored := *highlight
	stored.ID = "generated-id"
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	m.highlights[stored.ID] = &stored
	m.lastCreated = &stored
	return &stored, nil
}

func (m *MockHighlightRepository) ListByBookmark(bookmarkID string, token string) ([]*domain.Highlight, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*domain.Highlight
	for _, h := range m.highlights {
		if h.BookmarkID == bookmarkID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *MockHighlightRepository) Update(highlightID string, update *domain.HighlightUpdate, token string) (*domain.Highlight, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	h, ok := m.highlights[highlightID]
	if !ok {
		return nil, domain.ErrHighlightNotFound
	}
	m.lastUpdate = update
	if update.Color != nil {
		h.Color = *update.Color
	}
	if update.Note != nil {
		h.Note = *update.Note
	}
	return h, nil
}

func (m *MockHighlightRepository) Delete(highlightID string, token string) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.highlights[highlightID]; !ok {
		return domain.ErrHighlightNotFound
	}
	m.lastDeleted = highlightID
	delete(m.highlights, highlightID)
	return nil
}

type MockLogger struct {
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{messages: []string{}}
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.messages = append(m.messages, msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.messages = append(m.messages, msg)
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.messages = append(m.messages, msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.messages = append(m.messages, msg)
}

func validHighlight() *domain.Highlight {
	return &domain.Highlight{
		BookmarkID: "bookmark-1",
		Text:       "quick brown fox",
		Position: &domain.PositionDescriptor{
			XPathStart:  "/p/text()[1]",
			XPathEnd:    "/p/text()[1]",
			StartOffset: 4,
			EndOffset:   19,
			TextContent: "quick brown fox",
		},
	}
}

func TestHighlightService_CreateHighlight(t *testing.T) {
	repo := NewMockHighlightRepository()
	svc := NewHighlightService(repo, NewMockLogger())

	created, err := svc.CreateHighlight("user-1", validHighlight(), "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected repository-assigned id")
	}
	if created.UserID != "user-1" {
		t.Fatalf("expected user id to be set, got %s", created.UserID)
	}
	if created.Color != domain.DefaultColor {
		t.Fatalf("expected default color, got %s", created.Color)
	}
}

func TestHighlightService_CreateHighlight_Validation(t *testing.T) {
	repo := NewMockHighlightRepository()
	svc := NewHighlightService(repo, NewMockLogger())

	if _, err := svc.CreateHighlight("user-1", nil, "token"); err == nil {
		t.Fatalf("expected error for nil highlight")
	}

	h := validHighlight()
	h.BookmarkID = ""
	if _, err := svc.CreateHighlight("user-1", h, "token"); !errors.Is(err, domain.ErrBookmarkRequired) {
		t.Fatalf("expected ErrBookmarkRequired, got %v", err)
	}

	h = validHighlight()
	h.Text = ""
	if _, err := svc.CreateHighlight("user-1", h, "token"); err == nil {
		t.Fatalf("expected error for missing text")
	}

	h = validHighlight()
	h.Position = nil
	if _, err := svc.CreateHighlight("user-1", h, "token"); err == nil {
		t.Fatalf("expected error for missing position data")
	}

	h = validHighlight()
	h.Color = "magenta"
	if _, err := svc.CreateHighlight("user-1", h, "token"); !errors.Is(err, domain.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if repo.lastCreated != nil {
		t.Fatalf("expected nothing persisted on validation failure")
	}
}

func TestHighlightService_ListHighlights(t *testing.T) {
	repo := NewMockHighlightRepository()
	svc := NewHighlightService(repo, NewMockLogger())

	if _, err := svc.CreateHighlight("user-1", validHighlight(), "token"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.ListHighlights("user-1", "bookmark-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(got))
	}

	if _, err := svc.ListHighlights("user-1", "", "token"); !errors.Is(err, domain.ErrBookmarkRequired) {
		t.Fatalf("expected ErrBookmarkRequired, got %v", err)
	}
}

func TestHighlightService_UpdateHighlight(t *testing.T) {
	repo := NewMockHighlightRepository()
	svc := NewHighlightService(repo, NewMockLogger())

	created, err := svc.CreateHighlight("user-1", validHighlight(), "token")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	color := domain.ColorBlue
	note := "worth rereading"
	updated, err := svc.UpdateHighlight("user-1", created.ID, &domain.HighlightUpdate{Color: &color, Note: &note}, "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Color != domain.ColorBlue {
		t.Fatalf("expected blue, got %s", updated.Color)
	}
	if updated.Note != note {
		t.Fatalf("expected note updated, got %q", updated.Note)
	}
}

func TestHighlightService_UpdateHighlight_Validation(t *testing.T) {
	repo := NewMockHighlightRepository()
	svc := NewHighlightService(repo, NewMockLogger())

	color := domain.ColorBlue
	if _, err := svc.UpdateHighlight("user-1", "", &domain.HighlightUpdate{Color: &color}, "token"); err == nil {
		t.Fatalf("expected error for missing highlight id")
	}
	if _, err := svc.UpdateHighlight("user-1", "id", nil, "token"); err == nil {
		t.Fatalf("expected error for nil update")
	}
	if _, err := svc.UpdateHighlight("user-1", "id", &domain.HighlightUpdate{}, "token"); err == nil {
		t.Fatalf("expected error for empty update")
	}

	bad := domain.Color("magenta")
	if _, err := svc.UpdateHighlight("user-1", "id", &domain.HighlightUpdate{Color: &bad}, "token"); !errors.Is(err, domain.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if repo.lastUpdate != nil {
		t.Fatalf("expected nothing persisted on validation failure")
	}

	if _, err := svc.UpdateHighlight("user-1", "missing", &domain.HighlightUpdate{Color: &color}, "token"); !errors.Is(err, domain.ErrHighlightNotFound) {
		t.Fatalf("expected ErrHighlightNotFound, got %v", err)
	}
}

func TestHighlightService_DeleteHighlight(t *testing.T) {
	repo := NewMockHighlightRepository()
	svc := NewHighlightService(repo, NewMockLogger())

	created, err := svc.CreateHighlight("user-1", validHighlight(), "token")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.DeleteHighlight("user-1", created.ID, "token"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.lastDeleted != created.ID {
		t.Fatalf("expected repo delete for %s, got %s", created.ID, repo.lastDeleted)
	}

	if err := svc.DeleteHighlight("user-1", "", "token"); err == nil {
		t.Fatalf("expected error for missing highlight id")
	}
	if err := svc.DeleteHighlight("user-1", created.ID, "token"); !errors.Is(err, domain.ErrHighlightNotFound) {
		t.Fatalf("expected ErrHighlightNotFound, got %v", err)
	}
}
