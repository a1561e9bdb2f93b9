package variation

import (
	"html"
	"sort"
	"strings"
)

// Element is a minimal content tree used by hosts that do not bring their own
// node type. A nil Tag denotes a fragment whose children render in sequence.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// Fragment groups sibling elements without introducing a node.
func Fragment(children ...*Element) *Element {
	return &Element{Children: children}
}

// IsFragment reports whether e renders only its children.
func (e *Element) IsFragment() bool {
	return e != nil && e.Tag == ""
}

// Render writes e as HTML. Attributes are emitted in key order so output is
// stable across runs.
func (e *Element) Render() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

func (e *Element) render(b *strings.Builder) {
	if e == nil {
		return
	}
	if e.IsFragment() {
		b.WriteString(html.EscapeString(e.Text))
		for _, child := range e.Children {
			child.render(b)
		}
		return
	}
	b.WriteByte('<')
	b.WriteString(e.Tag)
	keys := make([]string, 0, len(e.Attrs))
	for key := range e.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(e.Attrs[key]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(html.EscapeString(e.Text))
	for _, child := range e.Children {
		child.render(b)
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}

// ElementDecorator implements Decorator for *Element.
type ElementDecorator struct{}

var wrapperStyles = map[ContainerKind]string{
	ContainerInline:   "display:contents",
	ContainerBlock:    "display:contents",
	ContainerFullSize: "display:block;width:100%;height:100%",
}

const decoyStyle = "position:absolute;width:0;height:0;overflow:hidden;pointer-events:none"

// Wrap places content inside an inert container.
func (ElementDecorator) Wrap(content *Element, kind ContainerKind, marker Marker) *Element {
	tag := "div"
	if kind == ContainerInline {
		tag = "span"
	}
	return &Element{
		Tag: tag,
		Attrs: map[string]string{
			"id":                   marker.ID,
			"data-variant-wrapper": marker.Key,
			"style":                wrapperStyles[kind],
		},
		Children: []*Element{content},
	}
}

// InsertDecoy adds an empty, hidden, zero-sized sibling next to content.
func (ElementDecorator) InsertDecoy(content *Element, position SiblingPosition, marker Marker) *Element {
	decoy := &Element{
		Tag: "span",
		Attrs: map[string]string{
			"id":                 marker.ID,
			"aria-hidden":        "true",
			"data-variant-decoy": marker.Key,
			"style":              decoyStyle,
		},
	}
	if position == SiblingAfter {
		return Fragment(content, decoy)
	}
	return Fragment(decoy, content)
}
