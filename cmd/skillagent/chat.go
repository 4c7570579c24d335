package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pocketomega/skill-agent/internal/agent"
	"github.com/pocketomega/skill-agent/internal/logger"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation on a single thread",
		Long: `Read questions line by line and answer each on the same thread.
Type /new to drop the history and start a fresh thread, /exit or EOF to quit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ag, store, err := a.newAgent(func(r agent.StepRecord) {
				fmt.Fprintln(out, formatStep(r))
			})
			if err != nil {
				return err
			}
			defer store.Close()
			defer ag.Close()
			defer func() {
				logger.G(cmd.Context()).WithField("threads", store.Count()).Debug("chat ended")
			}()

			thread := uuid.NewString()
			fmt.Fprintf(out, "thread %s (type /new to reset, /exit to quit)\n", thread)

			in := bufio.NewScanner(cmd.InOrStdin())
			in.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				fmt.Fprint(out, "> ")
				if !in.Scan() {
					fmt.Fprintln(out)
					return in.Err()
				}
				line := strings.TrimSpace(in.Text())
				switch line {
				case "":
					continue
				case "/exit", "/quit":
					return nil
				case "/new":
					ag.Reset(thread)
					thread = uuid.NewString()
					fmt.Fprintf(out, "thread %s\n", thread)
					continue
				}

				res, err := ag.Invoke(cmd.Context(), thread, line)
				if err != nil {
					// The thread stays usable; report and keep reading.
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				fmt.Fprintln(out, res.Answer)
			}
		},
	}
}
