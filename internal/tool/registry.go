package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/logger"
)

// Registry is the tool table the agent loop dispatches from.
//
// A root registry (parent == nil) owns its tools. WithExtra returns a view
// that overlays more tools on a parent and delegates lookups to it, so the
// agent can add middleware tools without touching the shared root.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	parent *Registry
}

// NewRegistry creates an empty root registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds t, replacing any tool of the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		logger.L.WithField("tool", t.Name()).Warn("overwriting registered tool")
	}
	r.tools[t.Name()] = t
}

// Get looks a tool up by name, checking this view's extras before the parent.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if ok {
		return t, true
	}
	if r.parent != nil {
		return r.parent.Get(name)
	}
	return nil, false
}

// List returns every visible tool sorted by name. Extras shadow parent tools.
func (r *Registry) List() []Tool {
	merged := make(map[string]Tool)
	if r.parent != nil {
		for _, t := range r.parent.List() {
			merged[t.Name()] = t
		}
	}
	r.mu.RLock()
	for name, t := range r.tools {
		merged[name] = t
	}
	r.mu.RUnlock()

	result := make([]Tool, 0, len(merged))
	for _, t := range merged {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Definitions returns function-calling definitions for every visible tool.
func (r *Registry) Definitions() []llm.ToolDefinition {
	tools := r.List()
	defs := make([]llm.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.InputSchema(),
		}
	}
	return defs
}

// Execute dispatches a call by name. Unknown tools and tool-level failures
// come back as ToolResult.Error so the model can correct itself; only a
// Go error from the tool itself is propagated.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (ToolResult, error) {
	t, ok := r.Get(name)
	if !ok {
		return ToolResult{Error: fmt.Sprintf("unknown tool %q", name)}, nil
	}
	return t.Execute(ctx, args)
}

// InitAll initializes every tool owned by this registry.
func (r *Registry) InitAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, t := range r.tools {
		if err := t.Init(ctx); err != nil {
			return fmt.Errorf("init tool %q: %w", name, err)
		}
	}
	logger.G(ctx).WithField("count", len(r.tools)).Debug("tools initialized")
	return nil
}

// CloseAll closes every tool owned by this registry, logging failures.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, t := range r.tools {
		if err := t.Close(); err != nil {
			logger.L.WithError(err).WithField("tool", name).Warn("close tool failed")
		}
	}
}

// WithExtra returns a view of r with extras overlaid. Changes to r stay
// visible through the view; r itself never sees the extras.
func (r *Registry) WithExtra(extras ...Tool) *Registry {
	m := make(map[string]Tool, len(extras))
	for _, t := range extras {
		m[t.Name()] = t
	}
	return &Registry{parent: r, tools: m}
}
