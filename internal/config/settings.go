package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pocketomega/skill-agent/internal/agent"
)

// Defaults for Settings.
const (
	DefaultMaxSteps   = agent.DefaultMaxSteps
	DefaultSessionTTL = agent.DefaultSessionTTL
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Settings are the non-model knobs read from the environment.
type Settings struct {
	SkillsFile   string        // SKILLS_FILE, "" = built-in skills
	SystemPrompt string        // SYSTEM_PROMPT, "" = system.md
	PromptsDir   string        // PROMPTS_DIR, directory whose files shadow the embedded prompts
	MaxSteps     int           // AGENT_MAX_STEPS (1-200)
	SessionTTL   time.Duration // SESSION_TTL_MINUTES
	LogLevel     string        // LOG_LEVEL
	LogFormat    string        // LOG_FORMAT: "text" or "json"
}

// SettingsFromEnv reads Settings and validates them. Unparseable numbers are
// reported rather than silently replaced by defaults.
func SettingsFromEnv() (*Settings, error) {
	s := &Settings{
		SkillsFile:   os.Getenv("SKILLS_FILE"),
		SystemPrompt: os.Getenv("SYSTEM_PROMPT"),
		PromptsDir:   os.Getenv("PROMPTS_DIR"),
		MaxSteps:     DefaultMaxSteps,
		SessionTTL:   DefaultSessionTTL,
		LogLevel:     envOr("LOG_LEVEL", DefaultLogLevel),
		LogFormat:    envOr("LOG_FORMAT", DefaultLogFormat),
	}

	if v := os.Getenv("AGENT_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("AGENT_MAX_STEPS: %q is not an integer", v)
		}
		s.MaxSteps = n
	}
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL_MINUTES: %q is not an integer", v)
		}
		s.SessionTTL = time.Duration(n) * time.Minute
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks ranges and enumerations.
func (s *Settings) Validate() error {
	if s.MaxSteps < 1 || s.MaxSteps > 200 {
		return fmt.Errorf("AGENT_MAX_STEPS must be between 1 and 200, got %d", s.MaxSteps)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %v", s.SessionTTL)
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", s.LogFormat)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
