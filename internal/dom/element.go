package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is an element node of a Document.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[string][]Listener
}

// RenderElement appends child to the end of parent's children, moving it
// if it is already attached somewhere.
func RenderElement(child, parent *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	parent.node.AppendChild(child.node)
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(key string) string { return attr(e.node, key) }

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// Value is the current value of a form control. It lives in the value
// attribute so it survives serialisation.
func (e *Element) Value() string { return e.Attr("value") }

// SetValue sets the control's value.
func (e *Element) SetValue(v string) { e.SetAttr("value", v) }

// Parent returns the parent element, or nil for detached or top-level nodes.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// QuerySelector finds the first descendant matching a CSS selector. The
// element itself is never returned.
func (e *Element) QuerySelector(selector string) *Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	return e.doc.query(e.node, sel)
}

// RemoveChildren detaches every child node. Removed elements are dropped
// from the document registry and should not be attached again.
func (e *Element) RemoveChildren() {
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
		e.doc.forget(c)
	}
}

// SetInnerHTML replaces the children with the parsed markup. The markup is
// not escaped.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.fragmentContext())
	if err != nil {
		return fmt.Errorf("parse inner html of <%s>: %w", e.node.Data, err)
	}
	e.RemoveChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// SetTextContent replaces the children with a single text node. The text
// is escaped when rendered.
func (e *Element) SetTextContent(text string) {
	e.RemoveChildren()
	if text == "" {
		return
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// TextContent concatenates every descendant text node.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// InnerHTML serialises the children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// OuterHTML serialises the element itself.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	_ = html.Render(&b, e.node)
	return b.String()
}

// fragmentContext gives ParseFragment a stand-in of this element so the
// parser picks the right insertion mode without touching the real tree.
func (e *Element) fragmentContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: e.node.Data, DataAtom: e.node.DataAtom}
}

func lookupAtom(tag string) atom.Atom {
	return atom.Lookup([]byte(strings.ToLower(tag)))
}
