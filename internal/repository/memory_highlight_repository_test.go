package repository

import (
	"errors"
	"testing"
	"time"

	"bookmark-highlighter/internal/domain"
)

// Mock logger used by repository tests.
type mockRepoLogger struct{}

func (l *mockRepoLogger) Info(msg string, fields ...interface{})             {}
func (l *mockRepoLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *mockRepoLogger) Debug(msg string, fields ...interface{})            {}
func (l *mockRepoLogger) Warn(msg string, fields ...interface{})             {}

func newHighlight(bookmarkID, text string) *domain.Highlight {
	return &domain.Highlight{
		BookmarkID: bookmarkID,
		UserID:     "user-1",
		Text:       text,
		Color:      domain.ColorYellow,
		Position:   &domain.PositionDescriptor{TextContent: text},
	}
}

func TestMemoryRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	repo := NewMemoryHighlightRepository(&mockRepoLogger{})

	created, err := repo.Create(newHighlight("bookmark-1", "first"), "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected created and updated timestamps to match on insert")
	}
}

func TestMemoryRepository_CreateReturnsCopy(t *testing.T) {
	repo := NewMemoryHighlightRepository(&mockRepoLogger{})

	created, err := repo.Create(newHighlight("bookmark-1", "first"), "token")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Mutating the returned record must not leak into storage.
	created.Text = "mutated"
	created.Position.TextContent = "mutated"

	listed, err := repo.ListByBookmark("bookmark-1", "token")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed[0].Text != "first" || listed[0].Position.TextContent != "first" {
		t.Fatalf("expected stored record unchanged, got %q / %q", listed[0].Text, listed[0].Position.TextContent)
	}
}

func TestMemoryRepository_ListByBookmark(t *testing.T) {
	repo := NewMemoryHighlightRepository(&mockRepoLogger{})

	for _, text := range []string{"first", "second", "third"} {
		if _, err := repo.Create(newHighlight("bookmark-1", text), "token"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := repo.Create(newHighlight("bookmark-2", "other"), "token"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	listed, err := repo.ListByBookmark("bookmark-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 highlights, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.Before(listed[i-1].CreatedAt) {
			t.Fatalf("expected creation-order listing")
		}
	}

	empty, err := repo.ListByBookmark("bookmark-none", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d", len(empty))
	}
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := NewMemoryHighlightRepository(&mockRepoLogger{})

	created, err := repo.Create(newHighlight("bookmark-1", "first"), "token")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	color := domain.ColorPink
	note := "annotated"
	updated, err := repo.Update(created.ID, &domain.HighlightUpdate{Color: &color, Note: &note}, "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Color != domain.ColorPink || updated.Note != "annotated" {
		t.Fatalf("unexpected updated record: %+v", updated)
	}
	if updated.Text != "first" {
		t.Fatalf("expected text untouched, got %q", updated.Text)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected updated_at refreshed")
	}

	if _, err := repo.Update("missing", &domain.HighlightUpdate{Color: &color}, "token"); !errors.Is(err, domain.ErrHighlightNotFound) {
		t.Fatalf("expected ErrHighlightNotFound, got %v", err)
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryHighlightRepository(&mockRepoLogger{})

	created, err := repo.Create(newHighlight("bookmark-1", "first"), "token")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(created.ID, "token"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	listed, _ := repo.ListByBookmark("bookmark-1", "token")
	if len(listed) != 0 {
		t.Fatalf("expected no highlights after delete, got %d", len(listed))
	}

	if err := repo.Delete(created.ID, "token"); !errors.Is(err, domain.ErrHighlightNotFound) {
		t.Fatalf("expected ErrHighlightNotFound, got %v", err)
	}
}
