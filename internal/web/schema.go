package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// todoSchema checks the shape of POST /api/todos bodies only. Any string
// is a valid todo, including the empty one.
const todoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "todo": {"type": "string"}
  },
  "required": ["todo"],
  "additionalProperties": false
}`

const todoSchemaURL = "https://todowidget.local/schemas/todo-submit.json"

type validationError struct {
	msgs []string
}

func (e *validationError) Error() string {
	return "invalid body: " + strings.Join(e.msgs, "; ")
}

func compileTodoSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func (s *Server) validateSubmit(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}
	if err := s.schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		out := &validationError{}
		collectCauses(ve, out)
		return out
	}
	return nil
}

func collectCauses(err *jsonschema.ValidationError, out *validationError) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out.msgs = append(out.msgs, loc+": "+err.Message)
		return
	}
	for _, c := range err.Causes {
		collectCauses(c, out)
	}
}
