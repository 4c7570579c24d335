// Package config loads .env files and the process-level settings the CLI
// needs. Model settings live with their client in internal/llm/openai.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/pocketomega/skill-agent/internal/logger"
)

// LoadEnv loads environment variables from a .env file and returns the path
// it loaded, or "" when none was found. Variables already set in the
// environment win over the file.
//
// Search order (stops at the first file found):
//  1. Explicit paths passed as arguments.
//  2. Directory of the running executable and up to three parents.
//  3. Current working directory.
func LoadEnv(paths ...string) string {
	log := logger.L.WithField("component", "config")

	if len(paths) > 0 {
		if err := godotenv.Load(paths...); err != nil {
			log.WithError(err).Warn("no .env file at specified path(s), using system environment variables")
			return ""
		}
		log.WithField("path", paths[0]).Debug("loaded .env")
		return paths[0]
	}

	candidates := resolveEnvCandidates()
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.WithError(err).WithField("path", p).Warn("failed to load .env")
			return ""
		}
		log.WithField("path", p).Debug("loaded .env")
		return p
	}

	log.WithField("searched", candidates).Debug("no .env file found, using system environment variables")
	return ""
}

// resolveEnvCandidates returns the ordered, de-duplicated list of .env paths to try.
func resolveEnvCandidates() []string {
	var candidates []string
	seen := map[string]bool{}

	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			candidates = append(candidates, p)
		}
	}

	// bin/skillagent finds the project-root .env this way.
	if exe, err := os.Executable(); err == nil {
		if real, err := filepath.EvalSymlinks(exe); err == nil {
			exe = real
		}
		dir := filepath.Dir(exe)
		for i := 0; i <= 3; i++ {
			add(filepath.Join(dir, ".env"))
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		add(filepath.Join(cwd, ".env"))
	}

	return candidates
}
