// Package tools implements the callable tool surface exposed to the
// conversational layer.
//
// The surface is closed: only explicitly registered tools can be
// dispatched, and arguments are validated against the declared schema
// before a handler runs. Tools never return an error to the caller;
// every failure becomes a descriptive status string the conversational
// layer can narrate back to the user instead of crashing the session.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is one callable action with a declared argument schema.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
	Handler     func(ctx context.Context, args map[string]any) string
}

// Registry holds the enumerated tool set.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names are rejected.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %s already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Dispatch validates the raw arguments against the named tool's schema
// and invokes its handler. The return value is always a status string.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) string {
	tool, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s.", name)
	}

	args := map[string]any{}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return fmt.Sprintf("Invalid arguments for %s: %v.", name, err)
		}
	}

	if msg := validate(tool.Schema, args); msg != "" {
		return fmt.Sprintf("Invalid arguments for %s: %s.", name, msg)
	}

	return tool.Handler(ctx, args)
}

// validate checks required fields, string typing, and enum membership
// declared in a JSON-schema-shaped map.
func validate(schema, args map[string]any) string {
	if schema == nil {
		return ""
	}

	if required, ok := schema["required"].([]string); ok {
		for _, field := range required {
			if _, present := args[field]; !present {
				return fmt.Sprintf("missing required field %q", field)
			}
		}
	}

	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return ""
	}
	for field, rawProp := range properties {
		value, present := args[field]
		if !present {
			continue
		}
		prop, ok := rawProp.(map[string]any)
		if !ok {
			continue
		}

		if typ, ok := prop["type"].(string); ok && typ == "string" {
			if _, isString := value.(string); !isString {
				return fmt.Sprintf("field %q must be a string", field)
			}
		}

		if allowed, ok := prop["enum"].([]string); ok {
			str, _ := value.(string)
			found := false
			for _, candidate := range allowed {
				if candidate == str {
					found = true
					break
				}
			}
			if !found {
				return fmt.Sprintf("field %q must be one of %v", field, allowed)
			}
		}
	}
	return ""
}

// stringArg extracts a string argument, returning "" when absent.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
