package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketomega/skill-agent/internal/agent"
	"github.com/pocketomega/skill-agent/internal/config"
	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/llm/openai"
	"github.com/pocketomega/skill-agent/internal/logger"
	"github.com/pocketomega/skill-agent/internal/prompt"
	"github.com/pocketomega/skill-agent/internal/session"
	"github.com/pocketomega/skill-agent/internal/skill"
)

// newProvider is swapped out in tests.
var newProvider = func() (llm.Provider, error) {
	c, err := openai.NewClientFromEnv()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// app is what every subcommand works from, filled in by the root PersistentPreRunE.
type app struct {
	settings *config.Settings
	registry *skill.Registry
	system   prompt.SystemPrompt
}

// newAgent wires provider, registry and an in-memory checkpointer together.
// The caller closes the returned store.
func (a *app) newAgent(onStep func(agent.StepRecord)) (*agent.Agent, *session.Store, error) {
	provider, err := newProvider()
	if err != nil {
		return nil, nil, err
	}
	store := session.NewStore(a.settings.SessionTTL)
	ag, err := agent.NewSkillsAgent(provider, a.registry, agent.Options{
		SystemPrompt: a.system,
		MaxSteps:     a.settings.MaxSteps,
		Checkpointer: store,
		OnStep:       onStep,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return ag, store, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "skillagent",
		Short:         "SQL assistant agent that loads database skills on demand",
		Long:          `skillagent lists its skills in the system prompt and lets the model pull a skill's full schema notes with the load_skill tool.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().String("skills", "", "YAML skills file (default: built-in skills, or SKILLS_FILE)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: LOG_LEVEL or info)")
	root.PersistentFlags().String("log-format", "", "log format: text or json (default: LOG_FORMAT or text)")
	root.PersistentFlags().String("prompts-dir", "", "directory whose prompt files (system.md) replace the built-in ones (default: PROMPTS_DIR)")
	root.PersistentFlags().String("env-file", "", "load environment from this file instead of searching for .env")

	root.AddCommand(
		newAskCmd(a),
		newChatCmd(a),
		newSkillsCmd(a),
		newPromptCmd(a),
		newMCPCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		config.LoadEnv(envFile)
	} else {
		config.LoadEnv()
	}

	settings, err := config.SettingsFromEnv()
	if err != nil {
		return err
	}
	if v, _ := flags.GetString("skills"); v != "" {
		settings.SkillsFile = v
	}
	if v, _ := flags.GetString("prompts-dir"); v != "" {
		settings.PromptsDir = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		settings.LogLevel = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		settings.LogFormat = v
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := logger.SetLogLevel(settings.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLogFormat(settings.LogFormat)

	reg, err := skill.Load(settings.SkillsFile)
	if err != nil {
		return err
	}
	logger.G(cmd.Context()).WithField("skills", reg.Len()).Debug("skills loaded")

	a.settings = settings
	a.registry = reg
	a.system = prompt.NewLoader(settings.PromptsDir).System(settings.SystemPrompt)
	return nil
}
