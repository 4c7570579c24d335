package agent

import (
	"context"

	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/prompt"
	"github.com/pocketomega/skill-agent/internal/tool"
)

// ModelRequest is one outbound model call. Middleware may replace any field
// before delegating; the agent builds a fresh request for every step.
type ModelRequest struct {
	System   prompt.SystemPrompt
	Messages []llm.Message
	Tools    []llm.ToolDefinition
}

// ModelHandler performs (or delegates) a model call.
type ModelHandler func(ctx context.Context, req *ModelRequest) (llm.Message, error)

// Middleware hooks into every model call an Agent makes and may contribute
// tools of its own.
type Middleware interface {
	Name() string

	// Tools are registered with the agent alongside its base tools.
	Tools() []tool.Tool

	// WrapModelCall runs around the model call. Implementations usually
	// adjust req and then return next(ctx, req).
	WrapModelCall(ctx context.Context, req *ModelRequest, next ModelHandler) (llm.Message, error)
}

// chain composes mws around final. The first middleware is outermost: it sees
// the request first and the response last.
func chain(final ModelHandler, mws ...Middleware) ModelHandler {
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(ctx context.Context, req *ModelRequest) (llm.Message, error) {
			return mw.WrapModelCall(ctx, req, next)
		}
	}
	return h
}
