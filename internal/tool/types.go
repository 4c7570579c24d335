package tool

import (
	"context"
	"encoding/json"
)

// Tool is an operation the model may invoke by name mid-conversation.
type Tool interface {
	// Name is the identifier the model uses in a tool call.
	Name() string

	// Description is shown to the model alongside the schema.
	Description() string

	// InputSchema is a JSON Schema object describing the arguments.
	InputSchema() json.RawMessage

	// Execute runs the tool. Failures the model should see belong in
	// ToolResult.Error; a non-nil Go error is reserved for the caller's
	// own plumbing (cancelled context and the like).
	Execute(ctx context.Context, args json.RawMessage) (ToolResult, error)

	// Init acquires resources. Most tools return nil.
	Init(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ToolResult is what gets fed back into the conversation.
type ToolResult struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Text renders the result as the tool message content.
func (r ToolResult) Text() string {
	if r.Error != "" {
		return "Error: " + r.Error
	}
	return r.Output
}

// SchemaParam describes a single parameter for BuildSchema.
type SchemaParam struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "string", "integer", "boolean", "number"
	Description string   `json:"description"`
	Required    bool     `json:"-"`
	Enum        []string `json:"enum,omitempty"`
}

// BuildSchema generates a JSON Schema object from params.
//
//	{"type":"object","properties":{"skill_name":{"type":"string","description":"..."}},"required":["skill_name"]}
func BuildSchema(params ...SchemaParam) json.RawMessage {
	properties := make(map[string]any)
	var required []string

	for _, p := range params {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	data, _ := json.Marshal(schema)
	return data
}
