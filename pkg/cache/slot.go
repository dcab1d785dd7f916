package cache

import (
	"sync"
	"time"

	"github.com/arishaaaaa/my-cache-proxy/pkg/payload"
)

// State is a cache entry's position in its Empty → Loading → Ready/Error
// lifecycle.
type State int

const (
	// Empty holds no URL and no payload.
	Empty State = iota
	// Loading has an attached leader actively filling the payload.
	Loading
	// Ready is a terminal state: the payload is complete and immutable.
	Ready
	// Error is a terminal state: the fetch failed or was non-cacheable.
	Error
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Slot is one entry in the directory's fixed-size table. Its mutex guards
// metadata (key, state, lruStamp, sizeFull) and the condition broadcast on
// every terminal transition; the payload itself uses its own release/acquire
// synchronization so a leader's append never blocks on a follower's read.
type Slot struct {
	mu   sync.Mutex
	cond *sync.Cond

	key      string
	state    State
	payload  *payload.Buffer
	lruStamp uint64

	// sizeFull marks that the leader stopped appending because the payload
	// hit capacity; the entry still terminates as Error once the upstream
	// stream closes.
	sizeFull bool
}

func newSlot() *Slot {
	s := &Slot{state: Empty}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Observe returns a snapshot of the slot's key, state, and payload length.
func (s *Slot) Observe() (key string, state State, length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := 0
	if s.payload != nil {
		l = s.payload.Len()
	}
	return s.key, s.state, l
}

// Payload returns the slot's payload buffer. It is valid to call ReadAt on
// the returned buffer without holding the slot's lock; the buffer is only
// replaced (or nil'd) on an eviction, which a follower never races against
// while it itself holds a leader/follower role on this slot.
func (s *Slot) Payload() *payload.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

// Append writes a chunk to the payload on behalf of the leader and wakes any
// waiting followers. Must only be called by the slot's current leader.
func (s *Slot) Append(p []byte) error {
	s.mu.Lock()
	buf := s.payload
	s.mu.Unlock()
	if buf == nil {
		return ErrNoLeader
	}
	if err := buf.Append(p); err != nil {
		return err
	}
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
	return nil
}

// MarkSizeFull records that the payload overflowed capacity; the leader
// keeps forwarding bytes to the client but stops appending to the cache.
func (s *Slot) MarkSizeFull() {
	s.mu.Lock()
	s.sizeFull = true
	s.mu.Unlock()
}

// WaitTerminal blocks until the slot leaves Loading and returns the resulting
// state. A slot released to Empty by Delete or Shutdown is reported as Error.
func (s *Slot) WaitTerminal() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.state == Loading {
		s.cond.Wait()
	}
	if s.state == Empty {
		return Error
	}
	return s.state
}

// WaitProgress blocks until either the payload length has advanced past
// atLeast or the slot reaches a terminal state, returning the resulting
// state and length. Used by followers that want to wake on every append,
// not just on terminal transitions.
func (s *Slot) WaitProgress(atLeast int) (State, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		l := 0
		if s.payload != nil {
			l = s.payload.Len()
		}
		if s.state != Loading || l > atLeast {
			return s.state, l
		}
		s.cond.Wait()
	}
}

// WaitProgressDeadline behaves like WaitProgress but gives up once deadline
// passes without the buffer advancing or the slot reaching a terminal
// state, reporting timedOut = true in that case. This is how a follower
// applies its total-inactivity timeout against a condition variable that
// has no native deadline support.
func (s *Slot) WaitProgressDeadline(atLeast int, deadline time.Time) (state State, length int, timedOut bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		l := 0
		if s.payload != nil {
			l = s.payload.Len()
		}
		if s.state != Loading || l > atLeast {
			return s.state, l, false
		}
		if !time.Now().Before(deadline) {
			return s.state, l, true
		}
		timer := time.AfterFunc(time.Until(deadline), func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		s.cond.Wait()
		timer.Stop()
	}
}

// broadcastLocked wakes every goroutine parked in WaitTerminal/WaitProgress on
// this slot. Callers must hold s.mu; it is used after a state change
// (terminal transition, forced eviction) to signal waiters immediately.
func (s *Slot) broadcastLocked() {
	s.cond.Broadcast()
}
