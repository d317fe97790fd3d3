package mcp

import (
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Property describes one tool argument.
type Property struct {
	Type        string
	Description string
	Required    bool
}

// ObjectSchema builds an object schema from property descriptions.
// Types ending in "[]" are arrays of the element type, e.g. "string[]".
func ObjectSchema(props map[string]Property) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(props))

	var required []string

	for name, p := range props {
		s := typeSchema(p.Type)
		s.Description = p.Description
		properties[name] = s

		if p.Required {
			required = append(required, name)
		}
	}

	slices.Sort(required)

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func typeSchema(t string) *jsonschema.Schema {
	if n := len(t); n > 2 && t[n-2:] == "[]" {
		return &jsonschema.Schema{Type: "array", Items: typeSchema(t[:n-2])}
	}

	switch t {
	case "integer", "number", "boolean", "object":
		return &jsonschema.Schema{Type: t}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}

// NewTool creates an mcp.Tool with the given parameters.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}
