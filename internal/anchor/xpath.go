package anchor

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"bookmark-highlighter/internal/dom"
)

// BuildXPath returns a container-relative path to n, for example
// "/p[2]/b/text()[1]". Element steps carry a same-tag sibling index only
// when the tag is ambiguous among its siblings; text() steps are always
// indexed among sibling text nodes. Returns "" when n is not under the
// container.
func BuildXPath(n *html.Node, container *html.Node) string {
	if n == container {
		return "/"
	}
	var steps []string
	cur := n
	for cur != nil && cur != container {
		switch cur.Type {
		case html.TextNode:
			steps = append(steps, fmt.Sprintf("text()[%d]", dom.TextSiblingIndex(cur)))
		case html.ElementNode:
			idx, total := dom.SameTagIndex(cur)
			if total > 1 {
				steps = append(steps, fmt.Sprintf("%s[%d]", cur.Data, idx))
			} else {
				steps = append(steps, cur.Data)
			}
		}
		cur = cur.Parent
	}
	if cur != container {
		return ""
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return "/" + strings.Join(steps, "/")
}

// ResolveXPath evaluates a container-relative path built by BuildXPath
// against the current tree. Returns nil when any step fails to resolve.
func ResolveXPath(container *html.Node, path string) *html.Node {
	if path == "" {
		return nil
	}
	n := container
	for _, step := range strings.Split(path, "/") {
		if step == "" {
			continue
		}
		name, idx := parseStep(step)
		if name == "text()" {
			n = nthTextChild(n, idx)
		} else {
			n = nthTagChild(n, name, idx)
		}
		if n == nil {
			return nil
		}
	}
	return n
}

// parseStep splits "tag[3]" into ("tag", 3); an unindexed step means the
// first match.
func parseStep(step string) (string, int) {
	open := strings.IndexByte(step, '[')
	if open < 0 || !strings.HasSuffix(step, "]") {
		return step, 1
	}
	idx, err := strconv.Atoi(step[open+1 : len(step)-1])
	if err != nil || idx < 1 {
		return step[:open], 1
	}
	return step[:open], idx
}

func nthTextChild(parent *html.Node, n int) *html.Node {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			count++
			if count == n {
				return c
			}
		}
	}
	return nil
}

func nthTagChild(parent *html.Node, tag string, n int) *html.Node {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			count++
			if count == n {
				return c
			}
		}
	}
	return nil
}
