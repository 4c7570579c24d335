package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketomega/skill-agent/internal/agent"
)

func newAskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the conversation",
		Long: `Send one question to the agent and print every message of the thread,
including load_skill calls and their results. Without a question the built-in
example query is used.

Examples:
  skillagent ask
  skillagent ask "Which products need reordering?"
  skillagent ask --thread 6c1f... "And only in the north warehouse?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				question = agent.ExampleQuery
			}
			thread, _ := cmd.Flags().GetString("thread")

			ag, store, err := a.newAgent(nil)
			if err != nil {
				return err
			}
			defer store.Close()
			defer ag.Close()

			res, err := ag.Invoke(cmd.Context(), thread, question)
			if err != nil {
				return err
			}
			printTranscript(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().String("thread", "", "thread ID to use (default: a new random ID)")
	return cmd
}
