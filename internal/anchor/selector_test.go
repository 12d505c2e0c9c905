package anchor

import (
	"testing"

	"bookmark-highlighter/internal/dom"
)

func TestBuildSelector_PrefersID(t *testing.T) {
	container := mustContainer(t, `<div id="article"><p>text</p></div>`)
	els := dom.Elements(container)
	// els: div, p

	if got := BuildSelector(els[1], container); got != "#article p:nth-child(1)" {
		t.Fatalf("unexpected selector: %q", got)
	}
}

func TestBuildSelector_ClassList(t *testing.T) {
	container := mustContainer(t, `<div class="content main"><span class="hl">x</span></div>`)
	els := dom.Elements(container)

	if got := BuildSelector(els[1], container); got != ".content.main .hl" {
		t.Fatalf("unexpected selector: %q", got)
	}
}

func TestBuildSelector_NthChildFallback(t *testing.T) {
	container := mustContainer(t, `<div><p>a</p><p>b</p></div>`)
	els := dom.Elements(container)
	// els: div, p, p

	if got := BuildSelector(els[2], container); got != "div:nth-child(1) p:nth-child(2)" {
		t.Fatalf("unexpected selector: %q", got)
	}
}

func TestQuerySelectorAll_RoundTrip(t *testing.T) {
	container := mustContainer(t, `<div id="a"><p class="x">one</p><p>two</p><p class="x y">three</p></div>`)

	for _, el := range dom.Elements(container) {
		sel := BuildSelector(el, container)
		matches := QuerySelectorAll(container, sel)
		found := false
		for _, m := range matches {
			if m == el {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected selector %q to match its own element <%s>", sel, el.Data)
		}
	}
}

func TestQuerySelectorAll_DescendantSemantics(t *testing.T) {
	container := mustContainer(t, `<div class="outer"><section><span class="hl">x</span></section></div><span class="hl">y</span>`)

	matches := QuerySelectorAll(container, ".outer .hl")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if dom.Text(matches[0]) != "x" {
		t.Fatalf("expected the nested span, got %q", dom.Text(matches[0]))
	}
}

func TestQuerySelectorAll_Empty(t *testing.T) {
	container := mustContainer(t, `<p>x</p>`)

	if got := QuerySelectorAll(container, ""); got != nil {
		t.Fatalf("expected no matches for empty selector")
	}
	if got := QuerySelectorAll(container, "#missing"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}
