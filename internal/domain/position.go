package domain

// PositionDescriptor is the serialized, storage-safe shape of a captured
// selection. It is stored as the highlight's position_data JSON blob, with
// the camelCase keys the web client has always written.
//
// A descriptor is self-sufficient: every resolution strategy can be derived
// from it plus the current content tree alone. The redundant fields exist so
// that position recovery degrades gracefully when the tree changes between
// capture and resolve.
type PositionDescriptor struct {
	// Container-relative XPath to the range's start/end nodes. Element steps
	// are indexed by same-tag sibling position when ambiguous; text() steps
	// are indexed among sibling text nodes.
	XPathStart string `json:"xpathStart"`
	XPathEnd   string `json:"xpathEnd"`

	// Byte offsets into the start/end text nodes. Meaningful only when the
	// corresponding XPath resolves to a text node.
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`

	// Selector for the start node's nearest element, preferring id, then
	// class list, then nth-child, climbing ancestors up to the container.
	CSSSelector string `json:"cssSelector"`

	// The exact captured substring, used as the verification key during
	// resolution.
	TextContent string `json:"textContent"`

	TextContext  TextContext  `json:"textContext"`
	DOMStructure DOMStructure `json:"domStructure"`

	// Legacy selector-style paths for the start and end nodes independently,
	// kept for compatibility with older stored descriptors.
	StartPath string `json:"startPath,omitempty"`
	EndPath   string `json:"endPath,omitempty"`
}

// TextContext holds up to 50 characters of surrounding text on each side of
// the captured substring.
type TextContext struct {
	ContextBefore string `json:"contextBefore"`
	ContextAfter  string `json:"contextAfter"`
}

// DOMStructure is a coarse structural fingerprint of the captured boundaries.
// Diagnostics only; no resolution strategy depends on it. Node types use DOM
// numbering (1 = element, 3 = text).
type DOMStructure struct {
	StartNodeType  int    `json:"startNodeType"`
	EndNodeType    int    `json:"endNodeType"`
	StartParentTag string `json:"startParentTag"`
	EndParentTag   string `json:"endParentTag"`
}
