// Package label derives a human-readable label for a form control from
// the markup around it.
//
// Strategies run in strict priority order, stopping at the first
// non-empty result. Structured signals (accessible names, label-for
// associations, fieldset legends) are trusted before proximity
// heuristics, because nearby sibling text is the signal most likely to
// be unrelated page chrome.
package label

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/codeGROOVE-dev/formpilot/field"
)

// Document wraps a parsed page and the lookup tables extraction needs.
type Document struct {
	root      *html.Node
	byID      map[string]*html.Node
	labelsFor map[string]*html.Node
}

// Parse reads and indexes an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// NewDocument indexes an already-parsed tree.
func NewDocument(root *html.Node) *Document {
	doc := &Document{
		root:      root,
		byID:      make(map[string]*html.Node),
		labelsFor: make(map[string]*html.Node),
	}
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if id := attr(n, "id"); id != "" {
			if _, seen := doc.byID[id]; !seen {
				doc.byID[id] = n
			}
		}
		if n.DataAtom == atom.Label {
			if forID := attr(n, "for"); forID != "" {
				if _, seen := doc.labelsFor[forID]; !seen {
					doc.labelsFor[forID] = n
				}
			}
		}
	})
	return doc
}

// Root returns the document root node.
func (d *Document) Root() *html.Node { return d.root }

// ByID returns the element with the given id attribute, or nil.
func (d *Document) ByID(id string) *html.Node { return d.byID[id] }

// LabelFor returns the <label for=id> element, or nil.
func (d *Document) LabelFor(id string) *html.Node { return d.labelsFor[id] }

// strategy derives a label for a control, or "" when it does not apply.
type strategy func(doc *Document, n *html.Node, kind field.WidgetKind) string

var strategies = []strategy{
	ariaLabel,
	questionGroupHeading,
	labelFor,
	groupLabel,
	wrappingLabel,
	ariaLabelledBy,
	precedingSibling,
}

// Extract returns the best available label for control n, lower-cased
// and trimmed. Empty string when every strategy fails.
func (d *Document) Extract(n *html.Node, kind field.WidgetKind) string {
	for _, s := range strategies {
		if text := s(d, n, kind); text != "" {
			return strings.ToLower(strings.TrimSpace(text))
		}
	}
	return ""
}

// ariaLabel reads an explicit accessible name off the element itself.
func ariaLabel(_ *Document, n *html.Node, _ field.WidgetKind) string {
	return strings.TrimSpace(attr(n, "aria-label"))
}

// questionGroupHeading finds the heading of an enclosing question
// container, the structure form builders wrap each question in.
func questionGroupHeading(_ *Document, n *html.Node, _ field.WidgetKind) string {
	depth := 0
	for p := n.Parent; p != nil && depth < 4; p = p.Parent {
		depth++
		if p.Type != html.ElementNode || !looksLikeQuestionGroup(p) {
			continue
		}
		if h := findHeading(p); h != nil {
			return text(h)
		}
	}
	return ""
}

func looksLikeQuestionGroup(n *html.Node) bool {
	if attr(n, "role") == "listitem" || attr(n, "data-question") != "" {
		return true
	}
	class := strings.ToLower(attr(n, "class"))
	return strings.Contains(class, "question") ||
		strings.Contains(class, "form-item") ||
		strings.Contains(class, "form-group") ||
		strings.Contains(class, "field-group")
}

func findHeading(group *html.Node) *html.Node {
	var found *html.Node
	walk(group, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}
		if isHeadingTag(n) || attr(n, "role") == "heading" ||
			strings.Contains(strings.ToLower(attr(n, "class")), "title") {
			if text(n) != "" {
				found = n
			}
		}
	})
	return found
}

// labelFor resolves a <label for=...> association by id.
func labelFor(doc *Document, n *html.Node, _ field.WidgetKind) string {
	id := attr(n, "id")
	if id == "" {
		return ""
	}
	if l := doc.labelsFor[id]; l != nil {
		return text(l)
	}
	return ""
}

// groupLabel handles group-style choice widgets: fieldset legend first,
// then up to three ancestor levels looking for a preceding label-like
// sibling or an internal label that precedes the control.
func groupLabel(_ *Document, n *html.Node, kind field.WidgetKind) string {
	if kind != field.KindRadioGroup && kind != field.KindCustomRadio {
		return ""
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Fieldset {
			for c := p.FirstChild; c != nil; c = c.NextSibling {
				if c.DataAtom == atom.Legend {
					return text(c)
				}
			}
		}
	}
	depth := 0
	for p := n.Parent; p != nil && depth < 3; p = p.Parent {
		depth++
		for sib := p.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && looksLikeLabel(sib) && text(sib) != "" {
				return text(sib)
			}
		}
		if l := internalLabelBefore(p, n); l != nil {
			return text(l)
		}
	}
	return ""
}

// internalLabelBefore finds a label element inside container that
// textually precedes the control.
func internalLabelBefore(container, control *html.Node) *html.Node {
	var found *html.Node
	done := false
	walk(container, func(n *html.Node) {
		if done {
			return
		}
		if n == control {
			done = true
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Label && text(n) != "" {
			found = n
		}
	})
	if !done {
		// Control was not inside this container; the candidate label
		// does not precede it.
		return nil
	}
	if found != nil && contains(found, control) {
		// A label wrapping the control does not precede it. The
		// wrapping-label strategy handles that case later.
		return nil
	}
	return found
}

func contains(root, target *html.Node) bool {
	for p := target; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// wrappingLabel returns the text of an enclosing <label>. Last-resort
// even for group widgets: it may yield a single option's caption rather
// than the question text, which beats nothing.
func wrappingLabel(_ *Document, n *html.Node, _ field.WidgetKind) string {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Label {
			return text(p)
		}
	}
	return ""
}

// ariaLabelledBy resolves an aria-labelledby reference list.
func ariaLabelledBy(doc *Document, n *html.Node, _ field.WidgetKind) string {
	refs := strings.Fields(attr(n, "aria-labelledby"))
	if len(refs) == 0 {
		return ""
	}
	var parts []string
	for _, id := range refs {
		if t := doc.ByID(id); t != nil {
			if s := text(t); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

// maxSiblingLabelLen bounds how long preceding-sibling text may be
// before it stops looking like a label.
const maxSiblingLabelLen = 120

// precedingSibling takes the nearest preceding sibling with short,
// label-like text. The most error-prone strategy, hence last.
func precedingSibling(_ *Document, n *html.Node, _ field.WidgetKind) string {
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.TextNode {
			if s := strings.TrimSpace(sib.Data); s != "" && len(s) <= maxSiblingLabelLen {
				return s
			}
			continue
		}
		if sib.Type != html.ElementNode {
			continue
		}
		if !labelLikeTag(sib) {
			return ""
		}
		if s := text(sib); s != "" && len(s) <= maxSiblingLabelLen {
			return s
		}
	}
	return ""
}

func looksLikeLabel(n *html.Node) bool {
	if n.DataAtom == atom.Label || isHeadingTag(n) {
		return true
	}
	return strings.Contains(strings.ToLower(attr(n, "class")), "label")
}

func labelLikeTag(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Label, atom.Span, atom.P, atom.Div, atom.B, atom.Strong,
		atom.Td, atom.Th, atom.Dt:
		return true
	default:
		return isHeadingTag(n)
	}
}

func isHeadingTag(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	default:
		return false
	}
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// text collects the visible text content of n, whitespace-collapsed.
func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// walk visits n and every descendant in document order, skipping
// script and style subtrees.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		return
	}
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}
