package agent

import (
	"context"

	"github.com/google/uuid"

	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/prompt"
	"github.com/pocketomega/skill-agent/internal/skill"
)

// ExampleQuery is the sample request RunExample sends.
const ExampleQuery = "Write a SQL query to find all customers who made orders over $1000 in the last month"

// NewSkillsAgent returns an agent with the skill middleware installed ahead of
// any middleware in opts. When opts.SystemPrompt is Absent the embedded
// system.md prompt is used.
func NewSkillsAgent(provider llm.Provider, reg *skill.Registry, opts Options) (*Agent, error) {
	if !opts.SystemPrompt.IsPresent() {
		opts.SystemPrompt = prompt.NewLoader("").System("")
	}
	opts.Middleware = append([]Middleware{NewSkillMiddleware(reg)}, opts.Middleware...)
	return New(provider, opts)
}

// RunExample sends ExampleQuery on a fresh thread.
func RunExample(ctx context.Context, a *Agent) (*Result, error) {
	return a.Invoke(ctx, uuid.NewString(), ExampleQuery)
}
