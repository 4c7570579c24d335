// Package llm defines the provider-neutral chat types the agent loop speaks.
package llm

import (
	"context"
	"encoding/json"

	"github.com/pocketomega/skill-agent/internal/prompt"
)

// Role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of a conversation. System prompts are not messages;
// they travel separately on ChatRequest so middleware can rewrite them.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`         // tool name when Role == RoleTool
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // set on assistant messages
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool messages
}

// ToolDefinition describes a tool for function calling.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

// ToolCall is a single invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ChatRequest is everything a provider needs for one completion.
type ChatRequest struct {
	System   prompt.SystemPrompt
	Messages []Message
	Tools    []ToolDefinition
}

// Provider is implemented by every chat model backend.
type Provider interface {
	// Chat sends one request and returns the assistant message, which
	// either carries ToolCalls or a final text answer.
	Chat(ctx context.Context, req ChatRequest) (Message, error)

	// Name identifies the backend and model for logs.
	Name() string
}

// UserMessage is shorthand for a user turn.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// ToolMessage builds the tool-result message answering call.
func ToolMessage(call ToolCall, content string) Message {
	return Message{Role: RoleTool, Name: call.Name, ToolCallID: call.ID, Content: content}
}
