package agent

import (
	"context"

	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/skill"
	"github.com/pocketomega/skill-agent/internal/tool"
)

// SkillMiddleware advertises the registry's skills in the system prompt of
// every model call and contributes the load_skill tool.
type SkillMiddleware struct {
	reg  *skill.Registry
	load *skill.LoadTool
}

var _ Middleware = (*SkillMiddleware)(nil)

// NewSkillMiddleware creates the middleware over reg.
func NewSkillMiddleware(reg *skill.Registry) *SkillMiddleware {
	return &SkillMiddleware{reg: reg, load: skill.NewLoadTool(reg)}
}

func (m *SkillMiddleware) Name() string { return "skills" }

func (m *SkillMiddleware) Tools() []tool.Tool { return []tool.Tool{m.load} }

// WrapModelCall replaces req.System with the augmented prompt. No other
// request field is touched.
func (m *SkillMiddleware) WrapModelCall(ctx context.Context, req *ModelRequest, next ModelHandler) (llm.Message, error) {
	req.System = skill.Augment(ctx, req.System, m.reg)
	return next(ctx, req)
}
