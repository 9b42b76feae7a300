package model

// AppState is the whole state of the widget.
// Values are replaced on every update, never edited in place.
type AppState struct {
	Todos          []string `json:"todos"`
	CompletedTodos []string `json:"completedTodos"`
}

// NewAppState returns the initial state: no todos, no completed todos.
func NewAppState() AppState {
	return AppState{Todos: []string{}, CompletedTodos: []string{}}
}

// Normalize replaces nil slices with empty ones so the state always
// encodes both fields as arrays.
func (s AppState) Normalize() AppState {
	if s.Todos == nil {
		s.Todos = []string{}
	}
	if s.CompletedTodos == nil {
		s.CompletedTodos = []string{}
	}
	return s
}

// WithTodo returns a new state with todo placed before the existing todos.
// CompletedTodos is carried over untouched.
func (s AppState) WithTodo(todo string) AppState {
	todos := make([]string, 0, len(s.Todos)+1)
	todos = append(todos, todo)
	todos = append(todos, s.Todos...)
	return AppState{Todos: todos, CompletedTodos: s.CompletedTodos}.Normalize()
}

// Clone returns a deep copy.
func (s AppState) Clone() AppState {
	return AppState{
		Todos:          append([]string{}, s.Todos...),
		CompletedTodos: append([]string{}, s.CompletedTodos...),
	}
}
