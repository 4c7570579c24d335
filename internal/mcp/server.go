// Package mcp serves the skill registry over the Model Context Protocol so
// MCP-capable hosts can list and load skills without the bundled agent.
package mcp

import (
	"context"
	"fmt"

	sdk_mcp "github.com/mark3labs/mcp-go/mcp"
	sdk_server "github.com/mark3labs/mcp-go/server"

	"github.com/pocketomega/skill-agent/internal/logger"
	"github.com/pocketomega/skill-agent/internal/skill"
)

const (
	// ServerName is reported to clients during initialize.
	ServerName = "skill-agent"
	// ServerVersion is reported to clients during initialize.
	ServerVersion = "0.1.0"

	resourceScheme = "skill://"
	resourceMIME   = "text/markdown"
)

// ResourceURI returns the resource URI under which a skill is published.
func ResourceURI(name string) string {
	return resourceScheme + name
}

// NewServer builds an MCP server exposing load_skill and one resource per skill.
func NewServer(reg *skill.Registry) *sdk_server.MCPServer {
	s := sdk_server.NewMCPServer(ServerName, ServerVersion,
		sdk_server.WithToolCapabilities(false),
		sdk_server.WithResourceCapabilities(false, false),
	)

	loader := skill.NewLoadTool(reg)
	s.AddTool(
		sdk_mcp.NewTool(skill.LoadSkillToolName,
			sdk_mcp.WithDescription(loader.Description()),
			sdk_mcp.WithString("skill_name",
				sdk_mcp.Required(),
				sdk_mcp.Description("Name of the skill to load, exactly as listed."),
			),
		),
		loadSkillHandler(reg),
	)

	for _, sk := range reg.All() {
		uri := ResourceURI(sk.Name)
		content := sk.Content
		s.AddResource(
			sdk_mcp.NewResource(uri, sk.Name,
				sdk_mcp.WithResourceDescription(sk.Description),
				sdk_mcp.WithMIMEType(resourceMIME),
			),
			func(_ context.Context, _ sdk_mcp.ReadResourceRequest) ([]sdk_mcp.ResourceContents, error) {
				return []sdk_mcp.ResourceContents{
					sdk_mcp.TextResourceContents{URI: uri, MIMEType: resourceMIME, Text: content},
				}, nil
			},
		)
	}
	return s
}

// loadSkillHandler answers like the agent-side tool: a miss is a normal
// result listing the valid names, not a protocol error.
func loadSkillHandler(reg *skill.Registry) sdk_server.ToolHandlerFunc {
	return func(ctx context.Context, req sdk_mcp.CallToolRequest) (*sdk_mcp.CallToolResult, error) {
		name, err := req.RequireString("skill_name")
		if err != nil {
			return sdk_mcp.NewToolResultError(err.Error()), nil
		}
		logger.G(ctx).WithField("skill", name).Debug("mcp load_skill")
		return sdk_mcp.NewToolResultText(skill.LoadSkill(reg, name)), nil
	}
}

// Serve runs the server on stdin/stdout until the input stream closes.
// Logs must not go to stdout while serving.
func Serve(reg *skill.Registry) error {
	logger.L.WithField("skills", reg.Len()).Info("serving skills over MCP stdio")
	if err := sdk_server.ServeStdio(NewServer(reg)); err != nil {
		return fmt.Errorf("mcp: serve stdio: %w", err)
	}
	return nil
}
