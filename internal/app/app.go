// Package app wires the store, the document and the view components into a
// running widget: the render loop and its bootstrap.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/logging"
	"github.com/idilsaglam/todowidget/internal/metrics"
	"github.com/idilsaglam/todowidget/internal/model"
	"github.com/idilsaglam/todowidget/internal/store"
	"github.com/idilsaglam/todowidget/internal/view"
)

// MountID is the id of the element the widget renders into.
const MountID = "app"

var (
	// ErrMountNotFound means the document has no #app element.
	ErrMountNotFound = errors.New("mount node #" + MountID + " not found")
	// ErrFormNotRendered means a submit arrived before the form existed.
	ErrFormNotRendered = errors.New("form is not rendered")
)

// Frame is what a render produced.
type Frame struct {
	Revision uint64
	State    model.AppState
	HTML     string // inner HTML of the mount node
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithUnsafeHTML renders todo text as markup.
func WithUnsafeHTML(unsafe bool) Option {
	return func(a *App) { a.viewOpts.UnsafeHTML = unsafe }
}

// WithFrontend labels submits in metrics.
func WithFrontend(name string) Option {
	return func(a *App) { a.frontend = name }
}

type renderSub struct {
	id uint64
	fn func(Frame)
}

// App owns one document, one mount node and one store.
//
// The mutex stands in for a browser event loop: a submit finishes its
// store update and the full rebuild before the next event is handled.
type App struct {
	mu sync.Mutex

	doc      *dom.Document
	root     *dom.Element
	store    *store.Store
	view     *view.Components
	viewOpts view.Options

	logger   *log.Logger
	metrics  *metrics.Metrics
	frontend string

	rendered    bool
	renderErr   error
	subs        []renderSub
	nextSubID   uint64
	unsubscribe func()
}

// New resolves the mount node in doc and subscribes the render loop to st.
// Nothing is rendered until Start.
func New(doc *dom.Document, st *store.Store, opts ...Option) (*App, error) {
	a := &App{
		doc:      doc,
		store:    st,
		frontend: "unknown",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}

	a.root = doc.GetElementByID(MountID)
	if a.root == nil {
		return nil, ErrMountNotFound
	}
	a.view = view.New(doc, st, a.viewOpts)
	a.unsubscribe = st.Subscribe(func(model.AppState) {
		a.renderErr = a.renderApp()
	})
	if a.viewOpts.UnsafeHTML {
		a.logger.Warn("todo text is rendered as raw HTML; markup typed by users will be interpreted")
	}
	return a, nil
}

// Start performs the first render.
func (a *App) Start() error {
	if err := a.RenderApp(); err != nil {
		return fmt.Errorf("initial render: %w", err)
	}
	a.logger.Info("widget mounted", "mount", "#"+MountID, "frontend", a.frontend)
	return nil
}

// Close detaches the render loop from the store.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// RenderApp clears the mount node and rebuilds the form and the list.
func (a *App) RenderApp() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderApp()
}

// Submit types value into the rendered input and submits the form.
func (a *App) Submit(value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	form := a.root.QuerySelector("form")
	if form == nil {
		return ErrFormNotRendered
	}
	input := form.QuerySelector("input")
	if input == nil {
		return ErrFormNotRendered
	}
	input.SetValue(value)

	a.renderErr = nil
	form.Dispatch(dom.NewEvent("submit"))
	a.metrics.ObserveSubmit(a.frontend)
	a.logger.Debug("submit", "frontend", a.frontend, "len", len(value))
	return a.renderErr
}

// Update applies updater to the store inside the event loop.
func (a *App) Update(updater func(model.AppState) model.AppState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderErr = nil
	a.store.Set(updater)
	return a.renderErr
}

// State returns a copy of the current state that the caller may keep and modify.
func (a *App) State() model.AppState { return a.store.Get().Clone() }

// Revision returns the store revision.
func (a *App) Revision() uint64 { return a.store.Revision() }

// Rendered reports whether at least one render completed.
func (a *App) Rendered() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rendered
}

// WriteHTML writes the whole document.
func (a *App) WriteHTML(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.Render(w)
}

// MountHTML returns the inner HTML of the mount node.
func (a *App) MountHTML() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.root.InnerHTML()
}

// Inspect runs fn with the mount node inside the event loop. fn must not
// call back into the App.
func (a *App) Inspect(fn func(mount *dom.Element)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.root)
}

// OnRender registers fn to receive a Frame after every render. fn runs
// inside the event loop and must not call back into the App.
func (a *App) OnRender(fn func(Frame)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addSub(fn)
}

// Watch is OnRender that also delivers the current frame right away, if
// the widget has rendered. No render can slip between the two.
func (a *App) Watch(fn func(Frame)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rendered {
		fn(a.frame(a.store.Get()))
	}
	return a.addSub(fn)
}

func (a *App) addSub(fn func(Frame)) func() {
	a.nextSubID++
	id := a.nextSubID
	a.subs = append(a.subs, renderSub{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			for i, s := range a.subs {
				if s.id == id {
					a.subs = append(a.subs[:i], a.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot renders the whole document together with the revision it shows.
func (a *App) Snapshot() (uint64, []byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var buf bytes.Buffer
	if err := a.doc.Render(&buf); err != nil {
		return 0, nil, err
	}
	return a.store.Revision(), buf.Bytes(), nil
}

func (a *App) frame(state model.AppState) Frame {
	return Frame{Revision: a.store.Revision(), State: state.Clone(), HTML: a.root.InnerHTML()}
}

func (a *App) renderApp() error {
	start := time.Now()
	err := a.rebuild()
	a.metrics.ObserveRender(time.Since(start), err)
	if err != nil {
		a.logger.Error("render failed", "err", err)
		return err
	}

	state := a.store.Get()
	a.rendered = true
	a.metrics.SetTodos(len(state.Todos))
	a.logger.Debug("rendered", "todos", len(state.Todos), "revision", a.store.Revision(), "took", time.Since(start))

	if len(a.subs) > 0 {
		frame := a.frame(state)
		for _, s := range append([]renderSub(nil), a.subs...) {
			s.fn(frame)
		}
	}
	return nil
}

func (a *App) rebuild() error {
	a.root.RemoveChildren()

	form, err := a.view.Form()
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	dom.RenderElement(form, a.root)

	list, err := a.view.List()
	if err != nil {
		return fmt.Errorf("build list: %w", err)
	}
	dom.RenderElement(list, a.root)
	return nil
}
