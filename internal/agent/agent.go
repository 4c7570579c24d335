// Package agent runs the tool-calling loop: it sends the conversation to a
// chat model through a middleware chain, executes requested tools, and
// checkpoints every thread's messages.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/logger"
	"github.com/pocketomega/skill-agent/internal/prompt"
	"github.com/pocketomega/skill-agent/internal/session"
	"github.com/pocketomega/skill-agent/internal/tool"
	"github.com/pocketomega/skill-agent/internal/util"
)

const (
	// DefaultMaxSteps bounds the model calls made for one user message.
	DefaultMaxSteps = 25
	// DefaultSessionTTL is the idle lifetime of a thread in the default checkpointer.
	DefaultSessionTTL = 30 * time.Minute
)

// ErrMaxSteps is returned when the model keeps requesting tools past the step limit.
var ErrMaxSteps = errors.New("agent: step limit reached without a final answer")

// Checkpointer stores conversation history by thread ID. The agent
// serializes Invoke calls per thread, so within one Agent a thread has a
// single writer. Sharing a Checkpointer between agents gives up that
// guarantee.
type Checkpointer interface {
	Load(threadID string) []llm.Message
	Append(threadID string, msgs ...llm.Message)
	Delete(threadID string)
}

var _ Checkpointer = (*session.Store)(nil)

// StepRecord describes one executed tool call.
type StepRecord struct {
	Step       int    `json:"step"`
	ToolName   string `json:"tool_name"`
	ToolCallID string `json:"tool_call_id,omitempty"`
	Input      string `json:"input"`
	Output     string `json:"output"`
	IsError    bool   `json:"is_error,omitempty"`
}

// Options configures an Agent. Zero values pick the defaults.
type Options struct {
	SystemPrompt prompt.SystemPrompt // base prompt; Absent sends none
	MaxSteps     int                 // <= 0 means DefaultMaxSteps
	Checkpointer Checkpointer        // nil means an in-memory session.Store owned by the agent
	Tools        *tool.Registry      // base tools; middleware tools are overlaid
	Middleware   []Middleware        // first is outermost
	OnStep       func(StepRecord)    // called after each tool call
}

// Agent is safe for concurrent use. Invoke calls on the same thread run one
// at a time; different threads proceed in parallel.
type Agent struct {
	provider     llm.Provider
	system       prompt.SystemPrompt
	maxSteps     int
	checkpointer Checkpointer
	ownedStore   *session.Store
	tools        *tool.Registry
	middleware   []Middleware
	handler      ModelHandler
	onStep       func(StepRecord)
	threads      threadLocks

	initOnce sync.Once
	initErr  error
}

// Result is the outcome of one Invoke.
type Result struct {
	ThreadID string
	Messages []llm.Message // the whole thread, including earlier turns
	Answer   string
	Steps    []StepRecord
}

// New assembles an agent around provider.
func New(provider llm.Provider, opts Options) (*Agent, error) {
	if provider == nil {
		return nil, fmt.Errorf("agent: provider is required")
	}

	a := &Agent{
		provider:     provider,
		system:       opts.SystemPrompt,
		maxSteps:     opts.MaxSteps,
		checkpointer: opts.Checkpointer,
		middleware:   append([]Middleware(nil), opts.Middleware...),
		onStep:       opts.OnStep,
	}
	if a.maxSteps <= 0 {
		a.maxSteps = DefaultMaxSteps
	}
	if a.checkpointer == nil {
		a.ownedStore = session.NewStore(DefaultSessionTTL)
		a.checkpointer = a.ownedStore
	}

	base := opts.Tools
	if base == nil {
		base = tool.NewRegistry()
	}
	// Middleware tools are owned by the agent's view, so InitAll and
	// CloseAll reach them and leave the caller's base tools alone.
	a.tools = base.WithExtra()
	for _, mw := range a.middleware {
		for _, t := range mw.Tools() {
			a.tools.Register(t)
		}
	}
	a.handler = chain(a.callModel, a.middleware...)
	return a, nil
}

// Reset forgets a thread's history.
func (a *Agent) Reset(threadID string) {
	unlock := a.threads.lock(threadID)
	defer unlock()
	a.checkpointer.Delete(threadID)
}

// Close closes the middleware tools and the default checkpointer, if the
// agent created one.
func (a *Agent) Close() {
	a.tools.CloseAll()
	if a.ownedStore != nil {
		a.ownedStore.Close()
	}
}

// Invoke sends userText on threadID and loops until the model answers
// without tool calls. An empty threadID starts a new thread.
//
// The turn's messages are checkpointed when the loop ends, including when the
// step limit is hit. A provider error aborts the turn and nothing is saved.
func (a *Agent) Invoke(ctx context.Context, threadID, userText string) (*Result, error) {
	if threadID == "" {
		threadID = uuid.NewString()
	}
	ctx = logger.WithFields(ctx, logrus.Fields{"thread": threadID})
	log := logger.G(ctx)

	a.initOnce.Do(func() { a.initErr = a.tools.InitAll(ctx) })
	if a.initErr != nil {
		return nil, fmt.Errorf("agent: %w", a.initErr)
	}

	unlock := a.threads.lock(threadID)
	defer unlock()

	history := a.checkpointer.Load(threadID)
	turn := []llm.Message{llm.UserMessage(userText)}
	defs := a.tools.Definitions()
	res := &Result{ThreadID: threadID}

	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgs := make([]llm.Message, 0, len(history)+len(turn))
		msgs = append(append(msgs, history...), turn...)
		req := &ModelRequest{System: a.system, Messages: msgs, Tools: defs}

		log.WithField("step", step).Debug("calling model")
		reply, err := a.handler(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("agent: step %d: %w", step, err)
		}
		turn = append(turn, reply)

		if len(reply.ToolCalls) == 0 {
			a.checkpointer.Append(threadID, turn...)
			res.Messages = append(history, turn...)
			res.Answer = reply.Content
			log.WithField("steps", step).Info("agent answered")
			return res, nil
		}

		for _, call := range reply.ToolCalls {
			out, err := a.tools.Execute(ctx, call.Name, call.Arguments)
			if err != nil {
				return nil, fmt.Errorf("agent: tool %q: %w", call.Name, err)
			}
			rec := StepRecord{
				Step:       step,
				ToolName:   call.Name,
				ToolCallID: call.ID,
				Input:      string(call.Arguments),
				Output:     out.Text(),
				IsError:    out.Error != "",
			}
			res.Steps = append(res.Steps, rec)
			if a.onStep != nil {
				a.onStep(rec)
			}
			log.WithFields(logrus.Fields{
				"tool":     call.Name,
				"is_error": rec.IsError,
				"output":   util.Preview(rec.Output, 120),
			}).Debug("tool executed")
			turn = append(turn, llm.ToolMessage(call, rec.Output))
		}
	}

	a.checkpointer.Append(threadID, turn...)
	log.WithField("max_steps", a.maxSteps).Warn("step limit reached")
	return nil, fmt.Errorf("%w (%d steps)", ErrMaxSteps, a.maxSteps)
}

func (a *Agent) callModel(ctx context.Context, req *ModelRequest) (llm.Message, error) {
	return a.provider.Chat(ctx, llm.ChatRequest{
		System:   req.System,
		Messages: req.Messages,
		Tools:    req.Tools,
	})
}

// threadLocks hands out one mutex per thread ID and drops it once no caller
// holds or waits on it.
type threadLocks struct {
	mu    sync.Mutex
	locks map[string]*threadLock
}

type threadLock struct {
	mu   sync.Mutex
	refs int
}

func (t *threadLocks) lock(id string) (unlock func()) {
	t.mu.Lock()
	if t.locks == nil {
		t.locks = make(map[string]*threadLock)
	}
	l, ok := t.locks[id]
	if !ok {
		l = &threadLock{}
		t.locks[id] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, id)
		}
		t.mu.Unlock()
	}
}
