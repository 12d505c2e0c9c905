// Package highlighter orchestrates the highlight lifecycle over one content
// view: batch re-application on mount, interactive create from a selection,
// edits, and deletes.
package highlighter

import (
	"sort"

	"golang.org/x/net/html"

	"bookmark-highlighter/internal/anchor"
	"bookmark-highlighter/internal/dom"
	"bookmark-highlighter/internal/domain"
	apperrors "bookmark-highlighter/pkg/errors"
)

// ApplyReport summarizes one batch-apply pass. Skipped highlights are the
// intended degraded behavior for content that changed underneath them; they
// are never surfaced as errors.
type ApplyReport struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// Manager is the sole mutator of a content view's tree. It holds the
// in-memory cache of the view's highlights and a marker index used to
// dispatch marker interactions back to highlight records, instead of
// attaching per-marker handlers.
type Manager struct {
	// Lifecycle callbacks for the hosting application; any may be nil.
	OnCreated func(*domain.Highlight)
	OnUpdated func(*domain.Highlight)
	OnDeleted func(*domain.Highlight)

	bookmarkID string
	container  *html.Node
	service    domain.HighlightService
	resolver   *anchor.Resolver
	renderer   *anchor.Renderer
	logger     domain.Logger
	readOnly   bool

	highlights []*domain.Highlight
	markers    map[string]*html.Node
	active     bool
}

// NewManager creates a manager for one mounted content view.
func NewManager(bookmarkID string, container *html.Node, service domain.HighlightService, logger domain.Logger, readOnly bool) *Manager {
	return &Manager{
		bookmarkID: bookmarkID,
		container:  container,
		service:    service,
		resolver:   anchor.NewResolver(logger),
		renderer:   anchor.NewRenderer(logger),
		logger:     logger,
		readOnly:   readOnly,
		markers:    make(map[string]*html.Node),
		active:     true,
	}
}

// Load fetches the view's persisted highlights into the manager's cache.
func (m *Manager) Load(userID, token string) error {
	highlights, err := m.service.ListHighlights(userID, m.bookmarkID, token)
	if err != nil {
		return err
	}
	if !m.active {
		return nil
	}
	m.highlights = highlights
	return nil
}

// SetHighlights replaces the cached highlight set, e.g. when the hosting
// application already holds the records.
func (m *Manager) SetHighlights(highlights []*domain.Highlight) {
	m.highlights = highlights
}

// Highlights returns the cached highlight set.
func (m *Manager) Highlights() []*domain.Highlight {
	return m.highlights
}

// Container returns the content tree the manager mutates.
func (m *Manager) Container() *html.Node {
	return m.container
}

// ApplyAll is the batch apply pass: unwrap every rendered marker, then
// resolve and render each cached highlight oldest-first. A highlight whose
// resolution or render fails gets one retry through the loose resolver and
// is otherwise logged and skipped; a single failure never aborts the batch.
//
// Unwrapping first makes the pass idempotent. The oldest-first order is the
// documented overlap tie-break: when two highlights overlap, the earlier one
// paints first and the later one resolves against a tree that already
// contains its marker, nesting inside it at the boundary.
func (m *Manager) ApplyAll() *ApplyReport {
	m.unwrapAll()

	sorted := make([]*domain.Highlight, len(m.highlights))
	copy(sorted, m.highlights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	report := &ApplyReport{Applied: []string{}, Skipped: []string{}}
	for _, h := range sorted {
		marker, err := m.apply(h)
		if err != nil {
			m.logger.Warn("highlight could not be re-applied, skipping",
				"highlight_id", h.ID, "bookmark_id", m.bookmarkID, "reason", err)
			report.Skipped = append(report.Skipped, h.ID)
			continue
		}
		m.markers[h.ID] = marker
		report.Applied = append(report.Applied, h.ID)
	}
	return report
}

// apply resolves and renders one highlight, retrying once through the loose
// resolver when the main cascade or the renderer fails.
func (m *Manager) apply(h *domain.Highlight) (*html.Node, error) {
	rng, err := m.resolver.Resolve(h.Position, m.container)
	if err == nil {
		marker, renderErr := m.renderer.Render(*rng, h)
		if renderErr == nil {
			return marker, nil
		}
		err = renderErr
	}

	loose := anchor.ResolveLoose(h.Position, m.container)
	if loose == nil {
		return nil, apperrors.NewResolutionError("highlight position not recoverable", err)
	}
	marker, renderErr := m.renderer.Render(*loose, h)
	if renderErr != nil {
		return nil, renderErr
	}
	return marker, nil
}

// unwrapAll removes every rendered marker, preserving surrounding content,
// so re-application never nests or duplicates marks.
func (m *Manager) unwrapAll() {
	for _, marker := range anchor.Markers(m.container) {
		dom.Unwrap(marker)
	}
	m.markers = make(map[string]*html.Node)
}

// CreateFromSelection captures a selection, persists the new highlight, and
// renders it immediately against the live range for zero-latency feedback,
// bypassing the resolver. A rejected capture (empty, whitespace-only,
// out-of-container, or out-of-bounds selection) returns (nil, nil):
// silently ignored.
func (m *Manager) CreateFromSelection(userID string, sel dom.Range, color domain.Color, note string, token string) (*domain.Highlight, error) {
	if m.readOnly {
		return nil, apperrors.NewValidationError("content view is read-only")
	}
	desc := anchor.Capture(sel, m.container)
	if desc == nil {
		return nil, nil
	}
	if color == "" {
		color = domain.DefaultColor
	}

	created, err := m.service.CreateHighlight(userID, &domain.Highlight{
		BookmarkID: m.bookmarkID,
		Text:       desc.TextContent,
		Color:      color,
		Note:       note,
		Position:   desc,
	}, token)
	if err != nil {
		return nil, err
	}
	// The view may have unmounted while the create was in flight; the
	// persisted record stands but its result is discarded here.
	if !m.active {
		return created, nil
	}

	marker, err := m.renderer.Render(sel, created)
	if err != nil {
		// Persisted fine; it will appear on the next batch apply.
		m.logger.Warn("immediate render failed for new highlight",
			"highlight_id", created.ID, "reason", err)
	} else {
		m.markers[created.ID] = marker
	}
	m.highlights = append(m.highlights, created)

	if m.OnCreated != nil {
		m.OnCreated(created)
	}
	return created, nil
}

// Update persists a color/note edit and recolors the rendered marker in
// place. Text and position data are immutable and never resent.
func (m *Manager) Update(userID, highlightID string, update *domain.HighlightUpdate, token string) (*domain.Highlight, error) {
	if m.readOnly {
		return nil, apperrors.NewValidationError("content view is read-only")
	}
	updated, err := m.service.UpdateHighlight(userID, highlightID, update, token)
	if err != nil {
		return nil, err
	}
	if !m.active {
		return updated, nil
	}

	for i, h := range m.highlights {
		if h.ID == highlightID {
			m.highlights[i] = updated
			break
		}
	}
	if marker, ok := m.markers[highlightID]; ok {
		anchor.SetMarkerColor(marker, updated.Color)
	}

	if m.OnUpdated != nil {
		m.OnUpdated(updated)
	}
	return updated, nil
}

// Delete persists the removal and unwraps the highlight's rendered marker.
func (m *Manager) Delete(userID, highlightID string, token string) error {
	if m.readOnly {
		return apperrors.NewValidationError("content view is read-only")
	}
	var target *domain.Highlight
	for _, h := range m.highlights {
		if h.ID == highlightID {
			target = h
			break
		}
	}

	if err := m.service.DeleteHighlight(userID, highlightID, token); err != nil {
		return err
	}
	if !m.active {
		return nil
	}

	if marker, ok := m.markers[highlightID]; ok {
		dom.Unwrap(marker)
		delete(m.markers, highlightID)
	}
	kept := m.highlights[:0]
	for _, h := range m.highlights {
		if h.ID != highlightID {
			kept = append(kept, h)
		}
	}
	m.highlights = kept

	if m.OnDeleted != nil && target != nil {
		m.OnDeleted(target)
	}
	return nil
}

// LookupMarker maps a node inside a rendered marker back to its highlight
// record. This is the delegated-dispatch path for marker clicks: the hosting
// layer forwards the clicked node and receives the record for the
// viewer/editor.
func (m *Manager) LookupMarker(n *html.Node) (*domain.Highlight, bool) {
	for ; n != nil && n != m.container; n = n.Parent {
		id := anchor.MarkerID(n)
		if id == "" {
			continue
		}
		for _, h := range m.highlights {
			if h.ID == id {
				return h, true
			}
		}
		return nil, false
	}
	return nil, false
}

// MarkerFor returns the rendered marker node for a highlight id.
func (m *Manager) MarkerFor(highlightID string) (*html.Node, bool) {
	marker, ok := m.markers[highlightID]
	return marker, ok
}

// Unmount deactivates the view. In-flight persistence results observed after
// this point are discarded by the manager.
func (m *Manager) Unmount() {
	m.active = false
}
