// Package dom adapts sanitized reader-view HTML into an in-memory content
// tree the highlight engine can anchor into. It wraps golang.org/x/net/html
// nodes with the traversal, text enumeration and range mutation primitives
// the capture/resolve/render pipeline needs, so the engine never depends on
// a live browser tree.
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseString parses an HTML string and returns the highlight container:
// the <body> element when present, otherwise the document root.
func ParseString(s string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	return Container(doc), nil
}

// Container returns the <body> element of a parsed document, or the document
// itself when no body exists (fragment parses).
func Container(doc *html.Node) *html.Node {
	if body := findElement(doc, "body"); body != nil {
		return body
	}
	return doc
}

// Render serializes the subtree rooted at n back to HTML.
func Render(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderContents serializes only the children of n, which is what the
// annotate API returns for a <body> container.
func RenderContents(n *html.Node) (string, error) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Text returns the aggregate text content of the subtree rooted at n,
// untrimmed: resolution offsets are computed against it.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// TextNodes returns every text node under root in document order.
func TextNodes(root *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return nodes
}

// Elements returns every element node under root in document order.
func Elements(root *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return nodes
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute on an element node.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// TextSiblingIndex returns the 1-based index of a text node among its
// sibling text nodes.
func TextSiblingIndex(n *html.Node) int {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.TextNode {
			idx++
		}
	}
	return idx
}

// SameTagIndex returns the 1-based index of an element among siblings with
// the same tag, and how many such siblings exist in total.
func SameTagIndex(n *html.Node) (index, total int) {
	index = 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			index++
		}
	}
	total = index
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			total++
		}
	}
	return index, total
}

// ElementSiblingIndex returns the 1-based index of an element among all
// element siblings, i.e. its CSS nth-child position.
func ElementSiblingIndex(n *html.Node) int {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}

// Classes returns the class attribute split into individual class names.
func Classes(n *html.Node) []string {
	raw := Attr(n, "class")
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
