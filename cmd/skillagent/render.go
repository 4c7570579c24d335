package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pocketomega/skill-agent/internal/agent"
	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/util"
)

func printTranscript(w io.Writer, res *agent.Result) {
	fmt.Fprintf(w, "\n=== Final Result (thread %s) ===\n\n", res.ThreadID)
	for _, m := range res.Messages {
		fmt.Fprintf(w, "%s\n", header(m))
		for _, tc := range m.ToolCalls {
			fmt.Fprintf(w, "Tool call: %s(%s) [%s]\n", tc.Name, string(tc.Arguments), tc.ID)
		}
		if m.Content != "" {
			fmt.Fprintln(w, m.Content)
		}
		fmt.Fprintln(w)
	}
}

func header(m llm.Message) string {
	role := m.Role
	if role == "" {
		role = "unknown"
	}
	title := strings.ToUpper(role[:1]) + role[1:] + " Message"
	if m.Role == llm.RoleTool && m.Name != "" {
		title += " (" + m.Name + ")"
	}
	pad := (48 - len(title)) / 2
	if pad < 1 {
		pad = 1
	}
	bar := strings.Repeat("=", pad)
	return bar + " " + title + " " + bar
}

func formatStep(r agent.StepRecord) string {
	status := "ok"
	if r.IsError {
		status = "error"
	}
	return fmt.Sprintf("[%s %s] %s -> %s", r.ToolName, status, r.Input, util.Preview(r.Output, 80))
}
