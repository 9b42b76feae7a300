// Package view builds the widget's DOM fragments from the current state.
package view

import (
	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/model"
)

// ButtonLabel is the text of the form's submit button.
const ButtonLabel = "add todo"

// InputName is the form field that carries a new todo on a plain HTML POST.
const InputName = "todo"

// Store is the part of the state store the components need.
type Store interface {
	Get() model.AppState
	Set(updater func(model.AppState) model.AppState)
}

// Options tune how components render.
type Options struct {
	// UnsafeHTML inserts todo text as markup instead of text. Any tags a
	// user types are then interpreted by the browser.
	UnsafeHTML bool
}

// Components is a set of component factories bound to one document and store.
type Components struct {
	doc   *dom.Document
	store Store
	opts  Options
}

// New binds components to doc and st.
func New(doc *dom.Document, st Store, opts Options) *Components {
	return &Components{doc: doc, store: st, opts: opts}
}

// Button returns the submit button.
func (c *Components) Button() (*dom.Element, error) {
	return c.doc.CreateElement("button", ButtonLabel)
}

// Input returns an empty text input.
func (c *Components) Input() (*dom.Element, error) {
	in, err := c.doc.CreateElement("input")
	if err != nil {
		return nil, err
	}
	in.SetAttr("type", "text")
	in.SetAttr("name", InputName)
	return in, nil
}

// Form returns a form holding an input and a button. Submitting it puts
// the input's value, as read at submit time, in front of the todos.
// The input keeps its value afterwards.
func (c *Components) Form() (*dom.Element, error) {
	form, err := c.doc.CreateElement("form")
	if err != nil {
		return nil, err
	}
	form.SetAttr("method", "post")

	input, err := c.Input()
	if err != nil {
		return nil, err
	}
	button, err := c.Button()
	if err != nil {
		return nil, err
	}
	dom.RenderElement(input, form)
	dom.RenderElement(button, form)

	form.AddEventListener("submit", func(ev *dom.Event) {
		ev.PreventDefault()
		c.store.Set(func(current model.AppState) model.AppState {
			return current.WithTodo(input.Value())
		})
	})
	return form, nil
}

// ListItem returns an <li> showing todo.
func (c *Components) ListItem(todo string) (*dom.Element, error) {
	if c.opts.UnsafeHTML {
		return c.doc.CreateElement("li", todo)
	}
	li, err := c.doc.CreateElement("li")
	if err != nil {
		return nil, err
	}
	li.SetTextContent(todo)
	return li, nil
}

// List returns a <ul> with one item per todo, in store order.
func (c *Components) List() (*dom.Element, error) {
	ul, err := c.doc.CreateElement("ul")
	if err != nil {
		return nil, err
	}
	for _, todo := range c.store.Get().Todos {
		li, err := c.ListItem(todo)
		if err != nil {
			return nil, err
		}
		dom.RenderElement(li, ul)
	}
	return ul, nil
}
