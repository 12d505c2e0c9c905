package anchor

import (
	"strings"

	"golang.org/x/net/html"

	"bookmark-highlighter/internal/dom"
	"bookmark-highlighter/internal/domain"
)

// ResolveLoose is an independent last-ditch resolver, invoked by the manager
// only after a resolve or render failure rather than as part of the main
// cascade. It tolerates whitespace drift: runs of whitespace collapse to a
// single space on both sides of the comparison. Some resolved ranges fail at
// render time even though resolution nominally succeeded; this gives those
// highlights one more chance against the post-mutation tree.
func ResolveLoose(desc *domain.PositionDescriptor, container *html.Node) *dom.Range {
	if desc == nil || strings.TrimSpace(desc.TextContent) == "" {
		return nil
	}
	text := desc.TextContent
	target := strings.Join(strings.Fields(text), " ")
	for _, n := range dom.TextNodes(container) {
		if idx := strings.Index(n.Data, text); idx >= 0 {
			return rangeInNode(n, idx, idx+len(text))
		}
		norm, offsets := normalizeWithOffsets(n.Data)
		j := strings.Index(norm, target)
		if j < 0 {
			continue
		}
		start := offsets[j]
		end := offsets[j+len(target)-1] + 1
		return rangeInNode(n, start, end)
	}
	return nil
}

// normalizeWithOffsets collapses ASCII whitespace runs to single spaces and
// trims the ends, returning the normalized bytes plus, for each normalized
// byte, its offset in the original string. A collapsed space maps to the
// first whitespace byte of its run.
func normalizeWithOffsets(s string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(s))
	pendingSpace := -1
	for i := 0; i < len(s); i++ {
		if isASCIISpace(s[i]) {
			if pendingSpace < 0 {
				pendingSpace = i
			}
			continue
		}
		if pendingSpace >= 0 && b.Len() > 0 {
			b.WriteByte(' ')
			offsets = append(offsets, pendingSpace)
		}
		pendingSpace = -1
		b.WriteByte(s[i])
		offsets = append(offsets, i)
	}
	return b.String(), offsets
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
