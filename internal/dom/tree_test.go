package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustContainer(t *testing.T, s string) *html.Node {
	t.Helper()
	container, err := ParseString(s)
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return container
}

func TestTextNodes_DocumentOrder(t *testing.T) {
	container := mustContainer(t, `<p>The <b>quick brown</b> fox jumps</p>`)

	nodes := TextNodes(container)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 text nodes, got %d", len(nodes))
	}
	want := []string{"The ", "quick brown", " fox jumps"}
	for i, n := range nodes {
		if n.Data != want[i] {
			t.Fatalf("expected text node %d to be %q, got %q", i, want[i], n.Data)
		}
	}
}

func TestText_Aggregate(t *testing.T) {
	container := mustContainer(t, `<p>The <b>quick brown</b> fox jumps</p>`)

	if got := Text(container); got != "The quick brown fox jumps" {
		t.Fatalf("expected aggregate text, got %q", got)
	}
}

func TestContains(t *testing.T) {
	container := mustContainer(t, `<p>one</p>`)
	text := TextNodes(container)[0]

	if !Contains(container, text) {
		t.Fatalf("expected container to contain its text node")
	}

	other := mustContainer(t, `<p>two</p>`)
	if Contains(container, TextNodes(other)[0]) {
		t.Fatalf("expected node from another tree to be outside the container")
	}
}

func TestTextSiblingIndex(t *testing.T) {
	container := mustContainer(t, `<p>one<b>x</b>two<b>y</b>three</p>`)
	nodes := TextNodes(container)

	// one, x, two, y, three in document order; one/two/three share a parent.
	if got := TextSiblingIndex(nodes[0]); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := TextSiblingIndex(nodes[2]); got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	if got := TextSiblingIndex(nodes[4]); got != 3 {
		t.Fatalf("expected index 3, got %d", got)
	}
}

func TestSameTagIndex(t *testing.T) {
	container := mustContainer(t, `<div><p>a</p><span>b</span><p>c</p></div>`)
	div := Elements(container)[0]

	var second *html.Node
	count := 0
	for c := div.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			count++
			if count == 2 {
				second = c
			}
		}
	}

	idx, total := SameTagIndex(second)
	if idx != 2 || total != 2 {
		t.Fatalf("expected index 2 of 2, got %d of %d", idx, total)
	}
}

func TestElementSiblingIndex(t *testing.T) {
	container := mustContainer(t, `<div><p>a</p><span>b</span><p>c</p></div>`)

	els := Elements(container)
	// els: div, p, span, p
	if got := ElementSiblingIndex(els[3]); got != 3 {
		t.Fatalf("expected nth-child 3, got %d", got)
	}
}

func TestAttrHelpers(t *testing.T) {
	container := mustContainer(t, `<p id="intro" class="lead large">x</p>`)
	p := Elements(container)[0]

	if got := Attr(p, "id"); got != "intro" {
		t.Fatalf("expected id intro, got %q", got)
	}
	classes := Classes(p)
	if len(classes) != 2 || classes[0] != "lead" || classes[1] != "large" {
		t.Fatalf("unexpected classes: %v", classes)
	}

	SetAttr(p, "id", "other")
	if got := Attr(p, "id"); got != "other" {
		t.Fatalf("expected id other after SetAttr, got %q", got)
	}
}

func TestRenderContents(t *testing.T) {
	container := mustContainer(t, `<p>one</p><p>two</p>`)

	out, err := RenderContents(container)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "<p>one</p>") || !strings.Contains(out, "<p>two</p>") {
		t.Fatalf("unexpected render output: %q", out)
	}
	if strings.Contains(out, "<body>") {
		t.Fatalf("expected contents only, got %q", out)
	}
}
