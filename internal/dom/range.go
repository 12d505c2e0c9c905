package dom

import (
	"errors"

	"golang.org/x/net/html"
)

var (
	// ErrCrossBoundary is returned by Wrap when the range's boundaries do
	// not nest cleanly under a single parent. Callers fall back to
	// WrapExtract.
	ErrCrossBoundary = errors.New("range boundaries cross element boundaries")

	// ErrCollapsedRange is returned when a range covers no content.
	ErrCollapsedRange = errors.New("range is collapsed")
)

// Boundary is one endpoint of a range. For a text node, Offset is a byte
// offset into the node's data. For an element node, Offset is a child index:
// the boundary sits immediately before that child.
type Boundary struct {
	Node   *html.Node
	Offset int
}

// Range is a selection span between two boundaries. It is also the explicit
// selection value object the hosting layer passes into capture: the engine
// never reads ambient selection state.
type Range struct {
	Start Boundary
	End   Boundary
}

// NewRange builds a range between two (node, offset) endpoints.
func NewRange(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int) Range {
	return Range{
		Start: Boundary{Node: startNode, Offset: startOffset},
		End:   Boundary{Node: endNode, Offset: endOffset},
	}
}

// Collapsed reports whether the range covers no content.
func (r Range) Collapsed() bool {
	return CompareBoundaries(r.Start, r.End) >= 0
}

// CompareBoundaries orders two boundaries in document order: -1 when a is
// before b, 0 when equal, 1 when after. Both must live in the same tree.
func CompareBoundaries(a, b Boundary) int {
	ap := boundaryPath(a)
	bp := boundaryPath(b)
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if ap[i] != bp[i] {
			if ap[i] < bp[i] {
				return -1
			}
			return 1
		}
	}
	if len(ap) < len(bp) {
		return -1
	}
	if len(ap) > len(bp) {
		return 1
	}
	return 0
}

// boundaryPath flattens a boundary into a comparable child-index path from
// the tree root, with the offset as the final component.
func boundaryPath(b Boundary) []int {
	var path []int
	for n := b.Node; n.Parent != nil; n = n.Parent {
		idx := 0
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			idx++
		}
		path = append(path, idx)
	}
	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return append(path, b.Offset)
}

// RangeText returns the exact text covered by the range, in document order.
func RangeText(r Range) string {
	if r.Collapsed() {
		return ""
	}
	root := r.Start.Node
	for root.Parent != nil {
		root = root.Parent
	}
	var out []byte
	for _, t := range TextNodes(root) {
		lo, hi := 0, len(t.Data)
		nodeStart := Boundary{Node: t, Offset: 0}
		nodeEnd := Boundary{Node: t, Offset: len(t.Data)}
		if CompareBoundaries(nodeEnd, r.Start) <= 0 || CompareBoundaries(nodeStart, r.End) >= 0 {
			continue
		}
		if t == r.Start.Node {
			lo = r.Start.Offset
		}
		if t == r.End.Node {
			hi = r.End.Offset
		}
		if lo < hi {
			out = append(out, t.Data[lo:hi]...)
		}
	}
	return string(out)
}

// SplitText splits a text node at the given byte offset and returns the new
// tail node beginning at that offset. The offset must be strictly inside the
// node's data.
func SplitText(t *html.Node, offset int) *html.Node {
	tail := &html.Node{
		Type: html.TextNode,
		Data: t.Data[offset:],
	}
	t.Data = t.Data[:offset]
	t.Parent.InsertBefore(tail, t.NextSibling)
	return tail
}

// edge is a node-aligned range endpoint after text splitting: the range runs
// over the children of parent from first up to (but excluding) before. A nil
// first/before means "end of parent".
type edge struct {
	parent *html.Node
	node   *html.Node
}

// alignToNodes splits boundary text nodes so the range covers whole nodes,
// and returns node-aligned start/end edges. The end boundary is normalized
// first so the start offset stays valid when both sit in the same text node.
func alignToNodes(r Range) (start, end edge, err error) {
	if r.Collapsed() {
		return edge{}, edge{}, ErrCollapsedRange
	}
	end = alignBoundary(r.End)
	start = alignBoundary(r.Start)
	return start, end, nil
}

// alignBoundary converts a boundary into a "before node" edge, splitting its
// text node when the offset falls strictly inside it. For the start boundary
// the edge names the first covered node; for the end boundary, the first
// node after the range.
func alignBoundary(b Boundary) edge {
	if b.Node.Type == html.TextNode {
		switch {
		case b.Offset <= 0:
			return edge{parent: b.Node.Parent, node: b.Node}
		case b.Offset >= len(b.Node.Data):
			return edge{parent: b.Node.Parent, node: b.Node.NextSibling}
		default:
			return edge{parent: b.Node.Parent, node: SplitText(b.Node, b.Offset)}
		}
	}
	return edge{parent: b.Node, node: nthChild(b.Node, b.Offset)}
}

func nthChild(parent *html.Node, n int) *html.Node {
	c := parent.FirstChild
	for i := 0; i < n && c != nil; i++ {
		c = c.NextSibling
	}
	return c
}

// Wrap surrounds the range's contents with the marker element. It requires
// the boundaries to nest cleanly under one parent after text splitting and
// returns ErrCrossBoundary otherwise, leaving only the text splits behind.
func Wrap(r Range, marker *html.Node) error {
	start, end, err := alignToNodes(r)
	if err != nil {
		return err
	}
	if start.parent != end.parent {
		return ErrCrossBoundary
	}
	return wrapSiblings(start.parent, start.node, end.node, marker)
}

// WrapExtract is the fallback render path: it lifts both boundaries to the
// common ancestor by splitting partially-covered elements, extracts the
// covered run of siblings, and reinserts it inside the marker at the range's
// original position. Partially-covered inline elements end up split in two,
// which preserves the visible result.
func WrapExtract(r Range, marker *html.Node) error {
	start, end, err := alignToNodes(r)
	if err != nil {
		return err
	}
	ca := commonAncestor(start.parent, end.parent)
	if ca == nil {
		return ErrCrossBoundary
	}
	// Start and end lift identically: both are exclusive "before node"
	// positions after alignment.
	start = liftEdge(start, ca)
	end = liftEdge(end, ca)
	if start.node == end.node {
		return ErrCollapsedRange
	}
	return wrapSiblings(ca, start.node, end.node, marker)
}

// wrapSiblings moves the sibling run [first, before) of parent into marker
// and inserts marker in its place.
func wrapSiblings(parent, first, before, marker *html.Node) error {
	if first == nil || first == before {
		return ErrCollapsedRange
	}
	for c := first; c != nil && c != before; {
		next := c.NextSibling
		parent.RemoveChild(c)
		marker.AppendChild(c)
		c = next
	}
	parent.InsertBefore(marker, before)
	return nil
}

// liftEdge raises a "before node" edge to the target ancestor, splitting any
// partially-covered element on the way up.
func liftEdge(e edge, ancestor *html.Node) edge {
	for e.parent != ancestor {
		switch {
		case e.node == nil:
			// Edge at the end of its parent: hop to after the parent.
			e = edge{parent: e.parent.Parent, node: e.parent.NextSibling}
		case e.node == e.parent.FirstChild:
			// Whole parent is covered from here: hop to before it.
			e = edge{parent: e.parent.Parent, node: e.parent}
		default:
			clone := splitElementAt(e.parent, e.node)
			e = edge{parent: clone.Parent, node: clone}
		}
	}
	return e
}

// splitElementAt splits an element before the given child: children from
// child onward move into a shallow clone inserted right after the element.
// Returns the clone.
func splitElementAt(el, child *html.Node) *html.Node {
	clone := shallowClone(el)
	for c := child; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		clone.AppendChild(c)
		c = next
	}
	el.Parent.InsertBefore(clone, el.NextSibling)
	return clone
}

func shallowClone(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	clone.Attr = append(clone.Attr, n.Attr...)
	return clone
}

func commonAncestor(a, b *html.Node) *html.Node {
	seen := map[*html.Node]bool{}
	for n := a; n != nil; n = n.Parent {
		seen[n] = true
	}
	for n := b; n != nil; n = n.Parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

// Unwrap replaces a marker element with its own children, preserving
// surrounding content. Reverses Wrap and WrapExtract.
func Unwrap(marker *html.Node) {
	parent := marker.Parent
	if parent == nil {
		return
	}
	for c := marker.FirstChild; c != nil; {
		next := c.NextSibling
		marker.RemoveChild(c)
		parent.InsertBefore(c, marker)
		c = next
	}
	parent.RemoveChild(marker)
}
