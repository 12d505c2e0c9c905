package anchor

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"bookmark-highlighter/internal/dom"
	"bookmark-highlighter/internal/domain"
)

// Marker attributes: the id binding enables later lookup and click dispatch,
// the color attribute and inline background carry the palette color.
const (
	MarkerIDAttr    = "data-highlight-id"
	MarkerColorAttr = "data-highlight-color"
	MarkerClass     = "bookmark-highlight"
)

// Renderer paints resolved ranges as marker elements and reverses that
// mutation on unwrap.
type Renderer struct {
	logger domain.Logger
}

func NewRenderer(logger domain.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render wraps the range's contents in a single marker carrying the
// highlight's id and color. It surrounds the range directly when the
// boundaries nest cleanly; when they cross element boundaries it falls back
// to extracting the contents and reinserting them inside the marker, which
// always succeeds structurally but may split partially-covered elements.
func (rd *Renderer) Render(rng dom.Range, h *domain.Highlight) (*html.Node, error) {
	marker := NewMarker(h)
	err := dom.Wrap(rng, marker)
	if err == nil {
		return marker, nil
	}
	if !errors.Is(err, dom.ErrCrossBoundary) {
		return nil, err
	}
	rd.logger.Debug("direct wrap failed, extracting range contents", "highlight_id", h.ID)
	if err := dom.WrapExtract(rng, marker); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return marker, nil
}

// NewMarker builds the marker element for a highlight.
func NewMarker(h *domain.Highlight) *html.Node {
	marker := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Mark,
		Data:     "mark",
	}
	dom.SetAttr(marker, "class", MarkerClass)
	dom.SetAttr(marker, MarkerIDAttr, h.ID)
	dom.SetAttr(marker, MarkerColorAttr, string(h.Color))
	dom.SetAttr(marker, "style", "background-color: "+h.Color.Hex()+";")
	return marker
}

// MarkerID returns the highlight id bound to a marker element, or "".
func MarkerID(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return dom.Attr(n, MarkerIDAttr)
}

// Markers returns all rendered markers under the container in document
// order.
func Markers(container *html.Node) []*html.Node {
	var out []*html.Node
	for _, el := range dom.Elements(container) {
		if MarkerID(el) != "" {
			out = append(out, el)
		}
	}
	return out
}

// FindMarker returns the rendered marker for a highlight id, or nil.
func FindMarker(container *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	for _, el := range dom.Elements(container) {
		if MarkerID(el) == id {
			return el
		}
	}
	return nil
}

// SetMarkerColor updates a rendered marker's color binding in place, used
// when a highlight is edited without a full re-apply pass.
func SetMarkerColor(marker *html.Node, color domain.Color) {
	dom.SetAttr(marker, MarkerColorAttr, string(color))
	dom.SetAttr(marker, "style", "background-color: "+color.Hex()+";")
}
