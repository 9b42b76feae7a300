package dom

// Listener handles an event delivered to an element.
type Listener func(*Event)

// Event is a DOM-style event. It bubbles from the target to its ancestors.
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element

	defaultPrevented bool
	stopped          bool
}

// NewEvent returns an event of the given type.
func NewEvent(typ string) *Event { return &Event{Type: typ} }

// PreventDefault cancels the event's default action.
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// StopPropagation stops the event from reaching further ancestors.
func (ev *Event) StopPropagation() { ev.stopped = true }

// AddEventListener registers fn for events of type typ on e.
func (e *Element) AddEventListener(typ string, fn Listener) {
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[typ] = append(e.listeners[typ], fn)
}

// Dispatch delivers ev to e and then to each ancestor that has listeners.
// The path is fixed before the first listener runs, so a listener that
// detaches e does not cut ancestors off. It returns false if a listener
// called PreventDefault.
func (e *Element) Dispatch(ev *Event) bool {
	ev.Target = e
	var path []*Element
	for n := e.node; n != nil; n = n.Parent {
		if cur := e.doc.lookup(n); cur != nil {
			path = append(path, cur)
		}
	}
	for _, cur := range path {
		if ev.stopped {
			break
		}
		fns := append([]Listener(nil), cur.listeners[ev.Type]...)
		ev.CurrentTarget = cur
		for _, fn := range fns {
			fn(ev)
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}
