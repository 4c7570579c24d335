// Package session keeps per-thread conversation history in memory so a
// thread ID can be resumed across agent invocations.
package session

import (
	"sync"
	"time"

	"github.com/pocketomega/skill-agent/internal/llm"
)

// minCleanupInterval is the smallest allowed TTL to prevent degenerate ticker intervals.
const minCleanupInterval = time.Millisecond

// Thread holds the messages exchanged under one thread ID.
type Thread struct {
	ID       string
	Messages []llm.Message
	LastUsed time.Time
}

// Store is a thread-safe in-memory checkpointer with TTL eviction.
// State lives only as long as the process.
type Store struct {
	mu      sync.RWMutex
	threads map[string]*Thread
	ttl     time.Duration // inactivity TTL, e.g. 30 minutes
	done    chan struct{} // closed by Close() to stop the cleanup goroutine
}

// NewStore creates a Store and starts the goroutine that evicts threads idle
// for longer than ttl. Call Close when the store is no longer needed.
func NewStore(ttl time.Duration) *Store {
	if ttl < minCleanupInterval {
		ttl = minCleanupInterval
	}
	s := &Store{
		threads: make(map[string]*Thread),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Load returns a copy of the thread's messages, or nil for an unknown thread.
func (s *Store) Load(id string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.threads[id]
	if !ok {
		return nil
	}
	th.LastUsed = time.Now()
	out := make([]llm.Message, len(th.Messages))
	copy(out, th.Messages)
	return out
}

// Append adds msgs to the thread, creating it on first write.
func (s *Store) Append(id string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.threads[id]
	if !ok {
		th = &Thread{ID: id}
		s.threads[id] = th
	}
	th.Messages = append(th.Messages, msgs...)
	th.LastUsed = time.Now()
}

// Delete removes a thread.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, id)
}

// Count returns the number of live threads.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evict(time.Now().Add(-s.ttl))
		}
	}
}

func (s *Store) evict(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, th := range s.threads {
		if th.LastUsed.Before(cutoff) {
			delete(s.threads, id)
		}
	}
}
