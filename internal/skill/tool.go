package skill

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketomega/skill-agent/internal/tool"
)

// LoadSkillToolName is the name the model calls the loader by.
const LoadSkillToolName = "load_skill"

// LoadSkill returns the text handed back to the model for name. A miss is
// not an error: the reply lists every valid name so the model can retry.
func LoadSkill(reg *Registry, name string) string {
	if s, ok := reg.Find(name); ok {
		return fmt.Sprintf("Loaded skill: %s\n\n%s", name, s.Content)
	}
	return fmt.Sprintf("Skill '%s' not found. Available skills: %s", name, strings.Join(reg.Names(), ", "))
}

// LoadTool exposes LoadSkill as a tool.Tool.
type LoadTool struct {
	reg    *Registry
	schema json.RawMessage
}

var _ tool.Tool = (*LoadTool)(nil)

// NewLoadTool creates the load_skill tool over reg.
func NewLoadTool(reg *Registry) *LoadTool {
	return &LoadTool{
		reg: reg,
		schema: tool.BuildSchema(tool.SchemaParam{
			Name:        "skill_name",
			Type:        "string",
			Description: "Name of the skill to load, exactly as listed under Available Skills.",
			Required:    true,
		}),
	}
}

func (t *LoadTool) Name() string                 { return LoadSkillToolName }
func (t *LoadTool) InputSchema() json.RawMessage { return t.schema }

func (t *LoadTool) Description() string {
	return "Load full content of a skill by name and return it as a string."
}

type loadArgs struct {
	SkillName string `json:"skill_name"`
}

// Execute decodes {"skill_name": "..."} and returns LoadSkill's reply.
func (t *LoadTool) Execute(_ context.Context, args json.RawMessage) (tool.ToolResult, error) {
	var a loadArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return tool.ToolResult{Error: fmt.Sprintf("invalid arguments for %s: %v", LoadSkillToolName, err)}, nil
		}
	}
	return tool.ToolResult{Output: LoadSkill(t.reg, a.SkillName)}, nil
}

func (t *LoadTool) Init(_ context.Context) error { return nil }
func (t *LoadTool) Close() error                 { return nil }
