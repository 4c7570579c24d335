// Package prompt holds the system prompt value type used on model requests
// and the loader for the prompt files shipped with the binary.
//
// Prompt files live in prompts/*.md and are embedded at build time. A
// runtime directory may shadow any of them by file name.
//
// The Loader is safe for concurrent use.
package prompt

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pocketomega/skill-agent/internal/logger"
)

// SystemFile is the base system prompt of the skills agent.
const SystemFile = "system.md"

//go:embed prompts/*
var defaultPrompts embed.FS

// Loader reads prompt files, preferring overrideDir over the embedded copies.
// File contents are cached after the first read.
type Loader struct {
	overrideDir string
	cache       map[string]string
	mu          sync.RWMutex
}

// NewLoader creates a Loader. An empty overrideDir means embedded files only.
func NewLoader(overrideDir string) *Loader {
	return &Loader{
		overrideDir: overrideDir,
		cache:       make(map[string]string),
	}
}

// Load returns the content of the named prompt file.
//
// Priority:
//  1. overrideDir/name
//  2. embedded prompts/name
//  3. "" when neither exists
//
// An unreadable override logs a warning and falls back to the embedded copy.
func (l *Loader) Load(name string) string {
	l.mu.RLock()
	if val, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return val
	}
	l.mu.RUnlock()

	content := l.loadUncached(name)

	// Two goroutines may miss together; keep whichever landed first.
	l.mu.Lock()
	defer l.mu.Unlock()
	if val, ok := l.cache[name]; ok {
		return val
	}
	l.cache[name] = content
	return content
}

func (l *Loader) loadUncached(name string) string {
	if l.overrideDir != "" {
		path := filepath.Join(l.overrideDir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data)
		}
		if !os.IsNotExist(err) {
			logger.L.WithError(err).WithField("path", path).Warn("prompt override unreadable, using embedded default")
		}
	}

	data, err := fs.ReadFile(defaultPrompts, "prompts/"+name)
	if err != nil {
		return ""
	}
	return string(data)
}

// System returns the base system prompt. override wins when non-blank;
// otherwise SystemFile is loaded. Trailing newlines are trimmed so the
// skills block is appended directly after the last sentence.
func (l *Loader) System(override string) SystemPrompt {
	if strings.TrimSpace(override) != "" {
		return FromText(override)
	}
	return FromText(strings.TrimRight(l.Load(SystemFile), "\r\n"))
}
