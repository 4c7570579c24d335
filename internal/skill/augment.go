package skill

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketomega/skill-agent/internal/logger"
	"github.com/pocketomega/skill-agent/internal/prompt"
)

const (
	listingHeader   = "## Available Skills"
	loadInstruction = "Use the " + LoadSkillToolName + " tool when you need detailed information " +
		"about handling a specific type of request."
)

// Listing renders one "- **name**: description" line per skill, in order.
func Listing(reg *Registry) string {
	lines := make([]string, 0, reg.Len())
	for _, s := range reg.All() {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", s.Name, s.Description))
	}
	return strings.Join(lines, "\n")
}

// Block is the system prompt section advertising the skills.
func Block(reg *Registry) string {
	return listingHeader + "\n\n" + Listing(reg) + "\n\n" + loadInstruction
}

// Augment returns sp with the skills block appended as a final segment.
// An absent prompt becomes a prompt holding only the block; a present one
// keeps its segments untouched and in order. Nothing is deduplicated:
// augmenting an already augmented prompt appends a second block.
func Augment(ctx context.Context, sp prompt.SystemPrompt, reg *Registry) prompt.SystemPrompt {
	block := prompt.TextSegment(Block(reg))
	out := prompt.Fold(sp,
		func() prompt.SystemPrompt { return prompt.Present(block) },
		func(segs []prompt.Segment) prompt.SystemPrompt { return prompt.Present(segs...).Append(block) },
	)
	logger.G(ctx).Debugf("System prompt:\n%s", out.Text())
	return out
}
