package service

import (
	"bookmark-highlighter/internal/domain"
	apperrors "bookmark-highlighter/pkg/errors"
)

// HighlightService validates highlight operations and delegates persistence
// to the repository. The immutable-field restriction lives here: text and
// position data only ever travel through Create.
type HighlightService struct {
	repo   domain.HighlightRepository
	logger domain.Logger
}

func NewHighlightService(repo domain.HighlightRepository, logger domain.Logger) domain.HighlightService {
	return &HighlightService{
		repo:   repo,
		logger: logger,
	}
}

func (s *HighlightService) CreateHighlight(userID string, highlight *domain.Highlight, token string) (*domain.Highlight, error) {
	if highlight == nil {
		return nil, apperrors.NewValidationError("highlight is required")
	}
	highlight.UserID = userID
	if highlight.BookmarkID == "" {
		return nil, domain.ErrBookmarkRequired
	}
	if highlight.Text == "" {
		return nil, apperrors.NewValidationError("text is required")
	}
	if highlight.Position == nil {
		return nil, apperrors.NewValidationError("position_data is required")
	}
	if highlight.Color == "" {
		highlight.Color = domain.DefaultColor
	}
	if !highlight.Color.Valid() {
		return nil, domain.ErrInvalidColor
	}

	created, err := s.repo.Create(highlight, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Highlight created", "user_id", userID, "bookmark_id", highlight.BookmarkID, "highlight_id", created.ID)
	return created, nil
}

func (s *HighlightService) ListHighlights(userID string, bookmarkID string, token string) ([]*domain.Highlight, error) {
	if bookmarkID == "" {
		return nil, domain.ErrBookmarkRequired
	}
	return s.repo.ListByBookmark(bookmarkID, token)
}

func (s *HighlightService) UpdateHighlight(userID string, highlightID string, update *domain.HighlightUpdate, token string) (*domain.Highlight, error) {
	if highlightID == "" {
		return nil, apperrors.NewValidationError("highlight_id is required")
	}
	if update == nil || (update.Color == nil && update.Note == nil) {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if update.Color != nil && !update.Color.Valid() {
		return nil, domain.ErrInvalidColor
	}

	updated, err := s.repo.Update(highlightID, update, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Highlight updated", "user_id", userID, "highlight_id", highlightID)
	return updated, nil
}

func (s *HighlightService) DeleteHighlight(userID string, highlightID string, token string) error {
	if highlightID == "" {
		return apperrors.NewValidationError("highlight_id is required")
	}
	if err := s.repo.Delete(highlightID, token); err != nil {
		return err
	}
	s.logger.Info("Highlight deleted", "user_id", userID, "highlight_id", highlightID)
	return nil
}
