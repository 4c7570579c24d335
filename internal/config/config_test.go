package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SKILLS_FILE", "SYSTEM_PROMPT", "PROMPTS_DIR", "AGENT_MAX_STEPS", "SESSION_TTL_MINUTES", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func TestSettingsFromEnv_Defaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "", s.SkillsFile)
	assert.Equal(t, DefaultMaxSteps, s.MaxSteps)
	assert.Equal(t, DefaultSessionTTL, s.SessionTTL)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
}

func TestSettingsFromEnv_Overrides(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("SKILLS_FILE", "/etc/skills.yaml")
	t.Setenv("SYSTEM_PROMPT", "be terse")
	t.Setenv("PROMPTS_DIR", "/srv/prompts")
	t.Setenv("AGENT_MAX_STEPS", "7")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("LOG_FORMAT", "json")

	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/skills.yaml", s.SkillsFile)
	assert.Equal(t, "be terse", s.SystemPrompt)
	assert.Equal(t, "/srv/prompts", s.PromptsDir)
	assert.Equal(t, 7, s.MaxSteps)
	assert.Equal(t, 5*time.Minute, s.SessionTTL)
	assert.Equal(t, "json", s.LogFormat)
}

func TestSettingsFromEnv_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"steps not int": {"AGENT_MAX_STEPS", "many"},
		"steps range":   {"AGENT_MAX_STEPS", "0"},
		"ttl not int":   {"SESSION_TTL_MINUTES", "soon"},
		"ttl negative":  {"SESSION_TTL_MINUTES", "-1"},
		"format":        {"LOG_FORMAT", "xml"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearSettingsEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := SettingsFromEnv()
			assert.ErrorContains(t, err, kv[0])
		})
	}
}

func TestLoadEnv_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SKILL_AGENT_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("SKILL_AGENT_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("SKILL_AGENT_TEST_VAR"))

	assert.Equal(t, path, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("SKILL_AGENT_TEST_VAR"))
}

func TestLoadEnv_ExistingEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SKILL_AGENT_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("SKILL_AGENT_TEST_VAR", "from-env")

	LoadEnv(path)
	assert.Equal(t, "from-env", os.Getenv("SKILL_AGENT_TEST_VAR"))
}

func TestLoadEnv_MissingPath(t *testing.T) {
	assert.Equal(t, "", LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestResolveEnvCandidates_IncludesCwdOnce(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	want := filepath.Join(cwd, ".env")

	count := 0
	for _, p := range resolveEnvCandidates() {
		if p == want {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
