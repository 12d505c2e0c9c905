// Package anchor implements the highlight anchoring engine: serializing a
// text selection into a redundant position descriptor, recovering an
// equivalent range from a descriptor against a possibly-changed content
// tree, and painting resolved ranges as marker elements.
package anchor

import (
	"strings"

	"golang.org/x/net/html"

	"bookmark-highlighter/internal/dom"
	"bookmark-highlighter/internal/domain"
)

const (
	// contextWindow is how many characters of surrounding text are kept on
	// each side of the captured substring.
	contextWindow = 50

	// Context is captured from the smallest ancestor whose aggregate text
	// is at least max(contextScopeMin, contextScopeFactor * len(text)).
	contextScopeMin    = 100
	contextScopeFactor = 3
)

// DOM node type numbering, as stored in descriptors.
const (
	nodeTypeElement = 1
	nodeTypeText    = 3
)

// Capture serializes a selection into a position descriptor redundant enough
// for the resolver's whole strategy cascade. Empty and whitespace-only
// selections, selections not fully inside the container, and selections with
// out-of-bounds offsets are rejected by returning nil without an error.
func Capture(sel dom.Range, container *html.Node) *domain.PositionDescriptor {
	if sel.Start.Node == nil || sel.End.Node == nil {
		return nil
	}
	if !dom.Contains(container, sel.Start.Node) || !dom.Contains(container, sel.End.Node) {
		return nil
	}
	if !boundaryInBounds(sel.Start) || !boundaryInBounds(sel.End) {
		return nil
	}
	text := dom.RangeText(sel)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	startEl := nearestElement(sel.Start.Node)
	endEl := nearestElement(sel.End.Node)

	return &domain.PositionDescriptor{
		XPathStart:  BuildXPath(sel.Start.Node, container),
		XPathEnd:    BuildXPath(sel.End.Node, container),
		StartOffset: sel.Start.Offset,
		EndOffset:   sel.End.Offset,
		CSSSelector: BuildSelector(startEl, container),
		TextContent: text,
		TextContext: captureContext(sel.Start.Node, container, text),
		DOMStructure: domain.DOMStructure{
			StartNodeType:  nodeTypeOf(sel.Start.Node),
			EndNodeType:    nodeTypeOf(sel.End.Node),
			StartParentTag: parentTag(sel.Start.Node),
			EndParentTag:   parentTag(sel.End.Node),
		},
		StartPath: BuildSelector(startEl, container),
		EndPath:   BuildSelector(endEl, container),
	}
}

// captureContext walks up from the start node until the accumulated text is
// long enough to be discriminating, then slices the windows around the first
// occurrence of the captured text. Windows are sliced at rune boundaries so
// the descriptor stays valid UTF-8.
func captureContext(start *html.Node, container *html.Node, text string) domain.TextContext {
	scope := nearestElement(start)
	need := contextScopeMin
	if f := contextScopeFactor * len(text); f > need {
		need = f
	}
	for scope != container && scope.Parent != nil && len(dom.Text(scope)) < need {
		scope = scope.Parent
	}
	full := dom.Text(scope)
	idx := strings.Index(full, text)
	if idx < 0 {
		return domain.TextContext{}
	}
	return domain.TextContext{
		ContextBefore: lastRunes(full[:idx], contextWindow),
		ContextAfter:  firstRunes(full[idx+len(text):], contextWindow),
	}
}

// boundaryInBounds reports whether a boundary's offset addresses real
// content: a byte offset within the text node's data, or a child index no
// greater than the element's child count. Offsets outside these ranges come
// from selections taken against different content and cannot be captured.
func boundaryInBounds(b dom.Boundary) bool {
	if b.Offset < 0 {
		return false
	}
	if b.Node.Type == html.TextNode {
		return b.Offset <= len(b.Node.Data)
	}
	n := 0
	for c := b.Node.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return b.Offset <= n
}

func nearestElement(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

func nodeTypeOf(n *html.Node) int {
	if n.Type == html.TextNode {
		return nodeTypeText
	}
	return nodeTypeElement
}

func parentTag(n *html.Node) string {
	if el := nearestElement(n.Parent); el != nil {
		return el.Data
	}
	return ""
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[len(r)-n:]
	}
	return string(r)
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
