package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketomega/skill-agent/internal/skill"
)

func newPromptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt the model receives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sp := skill.Augment(cmd.Context(), a.system, a.registry)
			fmt.Fprintln(cmd.OutOrStdout(), sp.Text())
			return nil
		},
	}
}
