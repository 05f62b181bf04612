package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 32

type shard struct {
	mu     sync.Mutex
	states map[string]*rateState
}

// MemoryLimiter keeps rate state in process memory, sharded by identity.
// Checks for the same identity serialize on its shard; other identities proceed in parallel.
type MemoryLimiter struct {
	policy Policy
	shards [shardCount]*shard
}

// NewMemoryLimiter creates an in-memory limiter
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	l := &MemoryLimiter{policy: policy}
	for i := range l.shards {
		l.shards[i] = &shard{states: make(map[string]*rateState)}
	}
	return l
}

func (l *MemoryLimiter) shardFor(identity string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	return l.shards[h.Sum32()%shardCount]
}

// Admit checks and records an event for identity
func (l *MemoryLimiter) Admit(_ context.Context, identity string, now time.Time) (Decision, error) {
	s := l.shardFor(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[identity]
	if !ok {
		state = &rateState{}
	}

	decision := state.admit(l.policy, now)
	if decision == Admitted && !ok {
		s.states[identity] = state
	}

	return decision, nil
}

// EvictIdle drops the state of identities with no admitted event since idleAfter.
// Idle state can no longer reject anything once both the pacing interval and the window elapsed.
func (l *MemoryLimiter) EvictIdle(now time.Time, idleAfter time.Duration) int {
	idleAfter = max(idleAfter, l.policy.Window, l.policy.MinInterval)

	evicted := 0
	for _, s := range l.shards {
		s.mu.Lock()
		for identity, state := range s.states {
			if now.Sub(state.lastEventAt) >= idleAfter {
				delete(s.states, identity)
				evicted++
			}
		}
		s.mu.Unlock()
	}
	return evicted
}

// Len returns the number of identities with tracked state
func (l *MemoryLimiter) Len() int {
	n := 0
	for _, s := range l.shards {
		s.mu.Lock()
		n += len(s.states)
		s.mu.Unlock()
	}
	return n
}
