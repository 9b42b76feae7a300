// Package dom is a small server-side DOM built on golang.org/x/net/html.
//
// A Document owns a parsed HTML tree. Elements wrap tree nodes and carry
// event listeners. Nothing here is safe for concurrent use; callers
// serialise access the same way a browser event loop would.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// skeleton is the host page the widget mounts into.
const skeleton = `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title></head><body><div id="app"></div></body></html>`

// Document is an HTML document with an element registry.
type Document struct {
	root     *html.Node
	elements map[*html.Node]*Element
}

// NewDocument returns the default host page: a body holding an empty #app div.
func NewDocument(title string) *Document {
	doc, err := Parse(strings.NewReader(fmt.Sprintf(skeleton, html.EscapeString(title))))
	if err != nil {
		// Parsing a constant string from memory cannot fail.
		panic(fmt.Sprintf("dom: parse skeleton: %v", err))
	}
	return doc
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root, elements: make(map[*html.Node]*Element)}, nil
}

// CreateElement returns a new detached element. When markup is given it
// becomes the element's inner HTML verbatim, so any tags in it are
// interpreted rather than escaped.
func (d *Document) CreateElement(tag string, markup ...string) (*Element, error) {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     strings.ToLower(tag),
		DataAtom: lookupAtom(tag),
	}
	el := d.wrap(n)
	if m := strings.Join(markup, ""); m != "" {
		if err := el.SetInnerHTML(m); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// GetElementByID returns the first element whose id attribute is id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	return d.query(d.root, idMatcher(id))
}

// QuerySelector returns the first element matching a CSS selector, or nil
// when nothing matches or the selector does not compile.
func (d *Document) QuerySelector(selector string) *Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	return d.query(d.root, sel)
}

// Body returns the body element.
func (d *Document) Body() *Element { return d.QuerySelector("body") }

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// String renders the document, returning an empty string on write failure.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

func (d *Document) lookup(n *html.Node) *Element {
	return d.elements[n]
}

// forget drops registry entries for a detached subtree.
func (d *Document) forget(n *html.Node) {
	delete(d.elements, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

func (d *Document) query(n *html.Node, m cascadia.Matcher) *Element {
	found := cascadia.Query(n, m)
	if found == nil {
		return nil
	}
	return d.wrap(found)
}

// idMatcher compares the id attribute directly, so ids need no CSS escaping.
type idMatcher string

func (id idMatcher) Match(n *html.Node) bool {
	return n.Type == html.ElementNode && attr(n, "id") == string(id)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
