package anchor

import (
	"strings"

	"golang.org/x/net/html"

	"bookmark-highlighter/internal/dom"
	"bookmark-highlighter/internal/domain"
)

// Strategy is one self-contained algorithm for recovering a range from a
// position descriptor. A strategy returns nil when it cannot locate the
// highlight; it must not mutate the tree.
type Strategy struct {
	Name    string
	Resolve func(desc *domain.PositionDescriptor, container *html.Node) *dom.Range
}

// Resolver recovers selection ranges from stored descriptors by trying an
// ordered list of strategies; the first that yields a non-collapsed range
// wins and no later strategy runs.
type Resolver struct {
	strategies []Strategy
	logger     domain.Logger
}

// NewResolver creates a resolver with the standard strategy cascade.
func NewResolver(logger domain.Logger) *Resolver {
	return &Resolver{strategies: DefaultStrategies(), logger: logger}
}

// NewResolverWithStrategies creates a resolver with an explicit strategy
// list. Used by tests to instrument or reorder the cascade.
func NewResolverWithStrategies(logger domain.Logger, strategies []Strategy) *Resolver {
	return &Resolver{strategies: strategies, logger: logger}
}

// Resolve runs the cascade. Returns domain.ErrPositionNotFound when every
// strategy misses.
func (r *Resolver) Resolve(desc *domain.PositionDescriptor, container *html.Node) (*dom.Range, error) {
	if desc == nil || desc.TextContent == "" {
		return nil, domain.ErrPositionNotFound
	}
	for _, s := range r.strategies {
		rng := s.Resolve(desc, container)
		if rng == nil || rng.Collapsed() {
			continue
		}
		r.logger.Debug("highlight position resolved", "strategy", s.Name)
		return rng, nil
	}
	return nil, domain.ErrPositionNotFound
}

// DefaultStrategies returns the standard cascade, in priority order:
// exact XPath, CSS selector with text verification, contextual fuzzy match,
// and a direct text scan of last resort.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "xpath", Resolve: resolveByXPath},
		{Name: "css-selector", Resolve: resolveBySelector},
		{Name: "text-context", Resolve: resolveByContext},
		{Name: "text-scan", Resolve: resolveByScan},
	}
}

// resolveByXPath re-evaluates the stored start/end paths. Text-node
// endpoints use the stored offsets clamped to the node's current length;
// element endpoints anchor immediately before (start) or after (end) the
// element.
func resolveByXPath(desc *domain.PositionDescriptor, container *html.Node) *dom.Range {
	startNode := ResolveXPath(container, desc.XPathStart)
	endNode := ResolveXPath(container, desc.XPathEnd)
	if startNode == nil || endNode == nil {
		return nil
	}
	start, ok := xpathBoundary(startNode, desc.StartOffset, false)
	if !ok {
		return nil
	}
	end, ok := xpathBoundary(endNode, desc.EndOffset, true)
	if !ok {
		return nil
	}
	return &dom.Range{Start: start, End: end}
}

func xpathBoundary(n *html.Node, offset int, after bool) (dom.Boundary, bool) {
	if n.Type == html.TextNode {
		if offset < 0 {
			offset = 0
		}
		if offset > len(n.Data) {
			offset = len(n.Data)
		}
		return dom.Boundary{Node: n, Offset: offset}, true
	}
	if n.Parent == nil {
		return dom.Boundary{}, false
	}
	idx := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		idx++
	}
	if after {
		idx++
	}
	return dom.Boundary{Node: n.Parent, Offset: idx}, true
}

// resolveBySelector queries the stored CSS selector and, for each matching
// element whose aggregate text still contains the captured substring, spans
// a range over the first exact occurrence. The occurrence may cross text
// nodes inside the element.
func resolveBySelector(desc *domain.PositionDescriptor, container *html.Node) *dom.Range {
	for _, el := range QuerySelectorAll(container, desc.CSSSelector) {
		if !strings.Contains(dom.Text(el), desc.TextContent) {
			continue
		}
		if rng := findTextRange(el, desc.TextContent); rng != nil {
			return rng
		}
	}
	return nil
}

// resolveByContext looks for contextBefore + text + contextAfter inside a
// single text node. It tolerates element-structure drift as long as the
// surrounding text is unchanged and contiguous.
func resolveByContext(desc *domain.PositionDescriptor, container *html.Node) *dom.Range {
	pattern := desc.TextContext.ContextBefore + desc.TextContent + desc.TextContext.ContextAfter
	for _, n := range dom.TextNodes(container) {
		idx := strings.Index(n.Data, pattern)
		if idx < 0 {
			continue
		}
		start := idx + len(desc.TextContext.ContextBefore)
		return rangeInNode(n, start, start+len(desc.TextContent))
	}
	return nil
}

// resolveByScan takes the first exact occurrence of the captured text in any
// text node, ignoring context entirely. Deterministic but may mis-anchor on
// repeated text; that is why it runs last.
func resolveByScan(desc *domain.PositionDescriptor, container *html.Node) *dom.Range {
	for _, n := range dom.TextNodes(container) {
		if idx := strings.Index(n.Data, desc.TextContent); idx >= 0 {
			return rangeInNode(n, idx, idx+len(desc.TextContent))
		}
	}
	return nil
}

// findTextRange maps the first occurrence of text within the aggregate text
// of scope back onto concrete (node, offset) boundaries.
func findTextRange(scope *html.Node, text string) *dom.Range {
	if text == "" {
		return nil
	}
	nodes := dom.TextNodes(scope)
	starts := make([]int, len(nodes))
	var agg strings.Builder
	for i, n := range nodes {
		starts[i] = agg.Len()
		agg.WriteString(n.Data)
	}
	idx := strings.Index(agg.String(), text)
	if idx < 0 {
		return nil
	}
	endIdx := idx + len(text)

	var rng dom.Range
	for i, n := range nodes {
		nodeStart := starts[i]
		nodeEnd := nodeStart + len(n.Data)
		if rng.Start.Node == nil && idx >= nodeStart && idx < nodeEnd {
			rng.Start = dom.Boundary{Node: n, Offset: idx - nodeStart}
		}
		if endIdx > nodeStart && endIdx <= nodeEnd {
			rng.End = dom.Boundary{Node: n, Offset: endIdx - nodeStart}
			break
		}
	}
	if rng.Start.Node == nil || rng.End.Node == nil {
		return nil
	}
	return &rng
}

func rangeInNode(n *html.Node, start, end int) *dom.Range {
	return &dom.Range{
		Start: dom.Boundary{Node: n, Offset: start},
		End:   dom.Boundary{Node: n, Offset: end},
	}
}
