package dom

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/codeGROOVE-dev/formpilot/field"
	"github.com/codeGROOVE-dev/formpilot/label"
)

// Input types that are never fill targets. Password stays out because
// the engine must not touch credentials; file stays out because uploads
// are deny-listed anyway.
var skippedInputTypes = map[string]bool{
	"hidden":   true,
	"submit":   true,
	"button":   true,
	"reset":    true,
	"image":    true,
	"file":     true,
	"password": true,
	"checkbox": true,
}

// Scan reads the rendered document and derives a field descriptor for
// every fillable control, in document order. The page remembers each
// field's selector so fill calls can find the control again.
func (p *Page) Scan(ctx context.Context) ([]field.Descriptor, error) {
	var pageHTML string
	if err := p.run(ctx, chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc, err := label.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	s := &scanner{
		doc:       doc,
		selectors: make(map[string]target),
		radios:    make(map[string]int),
	}
	s.visit(doc.Root())

	p.selectors = s.selectors
	p.logger.Debug("page scanned", "url", p.pageURL, "fields", len(s.fields))
	return s.fields, nil
}

type scanner struct {
	doc       *label.Document
	fields    []field.Descriptor
	selectors map[string]target
	radios    map[string]int // radio group name -> index into fields
	seq       int
}

func (s *scanner) visit(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case nodeAttr(n, "role") == "combobox" || nodeAttr(n, "aria-haspopup") == "listbox":
			s.addCustomDropdown(n)
			return // options inside belong to the widget
		case nodeAttr(n, "role") == "radiogroup" && !hasNativeRadio(n):
			s.addCustomRadioGroup(n)
			return
		case n.DataAtom == atom.Input:
			s.addInput(n)
		case n.DataAtom == atom.Textarea:
			s.addTextarea(n)
		case n.DataAtom == atom.Select:
			s.addSelect(n)
			return // option children are consumed
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.visit(c)
	}
}

func (s *scanner) addInput(n *html.Node) {
	inputType := strings.ToLower(nodeAttr(n, "type"))
	if inputType == "" {
		inputType = "text"
	}
	if skippedInputTypes[inputType] {
		return
	}

	if inputType == "radio" {
		s.addRadio(n)
		return
	}

	desc := s.newDescriptor(n, field.KindText)
	desc.InputType = inputType
	desc.Value = nodeAttr(n, "value")
	s.fields = append(s.fields, desc)
}

func (s *scanner) addTextarea(n *html.Node) {
	desc := s.newDescriptor(n, field.KindTextarea)
	desc.InputType = "text"
	desc.Value = textContent(n)
	s.fields = append(s.fields, desc)
}

func (s *scanner) addSelect(n *html.Node) {
	desc := s.newDescriptor(n, field.KindSelect)
	var walkOpts func(*html.Node)
	walkOpts = func(c *html.Node) {
		if c.Type == html.ElementNode && c.DataAtom == atom.Option {
			opt := field.Choice{Text: textContent(c), Value: nodeAttr(c, "value")}
			if opt.Value == "" {
				opt.Value = opt.Text
			}
			desc.Options = append(desc.Options, opt)
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walkOpts(cc)
		}
	}
	walkOpts(n)
	s.fields = append(s.fields, desc)
}

// addRadio folds radio inputs sharing a name into one radio-group
// descriptor, labeled from the first member.
func (s *scanner) addRadio(n *html.Node) {
	name := nodeAttr(n, "name")
	opt := field.Choice{Text: s.optionCaption(n), Value: nodeAttr(n, "value")}

	if idx, ok := s.radios[name]; ok && name != "" {
		s.fields[idx].Options = append(s.fields[idx].Options, opt)
		return
	}

	desc := s.newDescriptor(n, field.KindRadioGroup)
	desc.Options = []field.Choice{opt}
	t := s.selectors[desc.ID]
	t.radioName = name
	s.selectors[desc.ID] = t
	if name != "" {
		s.radios[name] = len(s.fields)
	}
	s.fields = append(s.fields, desc)
}

func (s *scanner) addCustomDropdown(n *html.Node) {
	desc := s.newDescriptor(n, field.KindCustomDropdown)
	s.fields = append(s.fields, desc)
}

func (s *scanner) addCustomRadioGroup(n *html.Node) {
	desc := s.newDescriptor(n, field.KindCustomRadio)
	var walkRadios func(*html.Node)
	walkRadios = func(c *html.Node) {
		if c.Type == html.ElementNode && nodeAttr(c, "role") == "radio" {
			desc.Options = append(desc.Options, field.Choice{
				Text:  textContent(c),
				Value: nodeAttr(c, "data-value"),
			})
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walkRadios(cc)
		}
	}
	walkRadios(n)
	s.fields = append(s.fields, desc)
}

func (s *scanner) newDescriptor(n *html.Node, kind field.WidgetKind) field.Descriptor {
	s.seq++
	id := fmt.Sprintf("field-%d", s.seq)
	desc := field.Descriptor{
		ID:          id,
		Label:       s.doc.Extract(n, kind),
		Placeholder: strings.ToLower(nodeAttr(n, "placeholder")),
		Name:        nodeAttr(n, "name"),
		DOMID:       nodeAttr(n, "id"),
		Kind:        kind,
	}
	s.selectors[id] = target{selector: cssSelector(n)}
	return desc
}

// optionCaption derives the caption of a single radio option: its
// associated label if any, else its value.
func (s *scanner) optionCaption(n *html.Node) string {
	if id := nodeAttr(n, "id"); id != "" {
		if l := s.doc.LabelFor(id); l != nil {
			if t := textContent(l); t != "" {
				return t
			}
		}
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Label {
			if t := textContent(p); t != "" {
				return t
			}
		}
	}
	return nodeAttr(n, "value")
}

func hasNativeRadio(n *html.Node) bool {
	found := false
	var walkFn func(*html.Node)
	walkFn = func(c *html.Node) {
		if found {
			return
		}
		if c.Type == html.ElementNode && c.DataAtom == atom.Input &&
			strings.EqualFold(nodeAttr(c, "type"), "radio") {
			found = true
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walkFn(cc)
		}
	}
	walkFn(n)
	return found
}

// cssSelector builds a selector that finds n again on the live page:
// the nearest id shortcut when available, else an nth-of-type path.
func cssSelector(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := nodeAttr(cur, "id"); id != "" {
			parts = append([]string{"#" + id}, parts...)
			return strings.Join(parts, " > ")
		}
		idx := 1
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == cur.Data {
				idx++
			}
		}
		parts = append([]string{fmt.Sprintf("%s:nth-of-type(%d)", cur.Data, idx)}, parts...)
	}
	return strings.Join(parts, " > ")
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walkFn func(*html.Node)
	walkFn = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walkFn(cc)
		}
	}
	walkFn(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
