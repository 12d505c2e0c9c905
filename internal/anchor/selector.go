package anchor

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"bookmark-highlighter/internal/dom"
)

// BuildSelector returns a CSS selector for el, climbing ancestors up to the
// container. Each segment prefers an id, then the joined class list, then an
// nth-child position; segments are joined with the descendant combinator.
func BuildSelector(el *html.Node, container *html.Node) string {
	var segs []string
	for cur := el; cur != nil && cur != container; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		segs = append(segs, selectorSegment(cur))
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, " ")
}

func selectorSegment(el *html.Node) string {
	if id := dom.Attr(el, "id"); id != "" {
		return "#" + id
	}
	if classes := dom.Classes(el); len(classes) > 0 {
		return "." + strings.Join(classes, ".")
	}
	return fmt.Sprintf("%s:nth-child(%d)", el.Data, dom.ElementSiblingIndex(el))
}

// QuerySelectorAll returns, in document order, the elements under container
// matching a selector of the grammar BuildSelector emits: space-separated
// descendant segments of the form "#id", ".class.list" or
// "tag:nth-child(n)" (a bare tag also matches).
func QuerySelectorAll(container *html.Node, selector string) []*html.Node {
	segs := strings.Fields(selector)
	if len(segs) == 0 {
		return nil
	}
	var out []*html.Node
	for _, el := range dom.Elements(container) {
		if matchesPath(el, segs, container) {
			out = append(out, el)
		}
	}
	return out
}

// matchesPath checks el against the last segment and its ancestors against
// the rest, right to left, with descendant semantics.
func matchesPath(el *html.Node, segs []string, container *html.Node) bool {
	if !matchSegment(el, segs[len(segs)-1]) {
		return false
	}
	i := len(segs) - 2
	for anc := el.Parent; anc != nil && anc != container && i >= 0; anc = anc.Parent {
		if anc.Type == html.ElementNode && matchSegment(anc, segs[i]) {
			i--
		}
	}
	return i < 0
}

func matchSegment(el *html.Node, seg string) bool {
	switch {
	case strings.HasPrefix(seg, "#"):
		return dom.Attr(el, "id") == seg[1:]
	case strings.HasPrefix(seg, "."):
		have := dom.Classes(el)
		for _, want := range strings.Split(seg[1:], ".") {
			if want == "" {
				continue
			}
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case strings.Contains(seg, ":nth-child("):
		open := strings.Index(seg, ":nth-child(")
		tag := seg[:open]
		numStr := strings.TrimSuffix(seg[open+len(":nth-child("):], ")")
		n, err := strconv.Atoi(numStr)
		if err != nil {
			return false
		}
		return el.Data == tag && dom.ElementSiblingIndex(el) == n
	default:
		return el.Data == seg
	}
}
