package cache

import (
	"sync"

	"github.com/arishaaaaa/my-cache-proxy/pkg/payload"
)

// Role is returned alongside an entry handle from FindOrInsert, telling the
// caller which of the three paths (§4.4, §4.5, §4.6 in the design notes) it
// must run.
type Role int

const (
	// Leader means the caller is now the sole fetch coordinator for this
	// entry and holds its LeaderToken.
	Leader Role = iota
	// Follower means the entry is Loading under another leader; the caller
	// should tail-read the payload.
	Follower
	// Hit means the entry is already Ready; the caller should copy the
	// payload directly.
	Hit
)

func (r Role) String() string {
	switch r {
	case Leader:
		return "leader"
	case Follower:
		return "follower"
	case Hit:
		return "hit"
	default:
		return "unknown"
	}
}

// LeaderToken is the one-shot accept_fn a leader must call exactly once to
// resolve the entry it was handed by FindOrInsert.
type LeaderToken struct {
	slot      *Slot
	published bool
}

// PublishReady transitions the bound slot Loading → Ready. A second call, or
// a call after PublishError, is a no-op returning ErrAlreadyPublished.
func (t *LeaderToken) PublishReady() error {
	s := t.slot
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.published || s.state != Loading {
		return ErrAlreadyPublished
	}
	t.published = true
	s.state = Ready
	s.broadcastLocked()
	return nil
}

// PublishError transitions the bound slot Loading → Error and releases its
// payload, so no partially fetched bytes stay cached.
func (t *LeaderToken) PublishError() error {
	s := t.slot
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.published || s.state != Loading {
		return ErrAlreadyPublished
	}
	t.published = true
	s.state = Error
	s.payload = nil
	s.broadcastLocked()
	return nil
}

// Directory is the fixed-capacity, linearly-scanned associative store
// described by the cache's admission algorithm: find-or-insert, LRU
// eviction, and deletion all hold a single directory-wide mutex for their
// decision, then release it before any byte transfer happens.
type Directory struct {
	mu       sync.Mutex
	slots    []*Slot
	tick     uint64
	maxBytes int
	shutdown bool

	// OnEvict, if set, is called (with the directory mutex held, so it must
	// not call back into the Directory) every time FindOrInsert reclaims a
	// non-empty, non-Loading slot to admit a new key. Used to drive the
	// cache_evictions_total metric without making this package depend on
	// the metrics package.
	OnEvict func()
}

// NewDirectory builds a directory with n fixed slots, each admitting
// payloads up to maxBytes.
func NewDirectory(n int, maxBytes int) *Directory {
	d := &Directory{
		slots:    make([]*Slot, n),
		maxBytes: maxBytes,
	}
	for i := range d.slots {
		d.slots[i] = newSlot()
	}
	return d
}

// FindOrInsert implements §4.3's atomic find-or-insert. It returns the role
// the caller must play, the slot handle, and — only when role is Leader — a
// token the caller must publish exactly once.
func (d *Directory) FindOrInsert(url string) (Role, *Slot, *LeaderToken, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shutdown {
		return 0, nil, nil, ErrShutdownPkg
	}

	// Error: treated as absent on lookup (forces a new fetch), but the slot
	// itself is still occupied by url — remembered here so admission reuses
	// it in place rather than leaving a stale Error entry with a duplicate
	// key sitting in a second slot (Invariant D1).
	var errorMatch *Slot
	for _, s := range d.slots {
		s.mu.Lock()
		if s.state != Empty && s.key == url {
			switch s.state {
			case Ready:
				d.tick++
				s.lruStamp = d.tick
				s.mu.Unlock()
				return Hit, s, nil, nil
			case Loading:
				d.tick++
				s.lruStamp = d.tick
				s.mu.Unlock()
				return Follower, s, nil, nil
			default: // Error
				errorMatch = s
			}
		}
		s.mu.Unlock()
	}

	var victim *Slot
	if errorMatch != nil {
		victim = errorMatch
	} else {
		for _, s := range d.slots {
			s.mu.Lock()
			if s.state == Empty {
				victim = s
				s.mu.Unlock()
				break
			}
			s.mu.Unlock()
		}
	}

	if victim == nil {
		var oldest *Slot
		var oldestStamp uint64
		for _, s := range d.slots {
			s.mu.Lock()
			if s.state == Loading {
				s.mu.Unlock()
				continue
			}
			if oldest == nil || s.lruStamp < oldestStamp {
				oldest = s
				oldestStamp = s.lruStamp
			}
			s.mu.Unlock()
		}
		if oldest == nil {
			return 0, nil, nil, ErrSaturated
		}
		oldest.mu.Lock()
		oldest.key = ""
		oldest.state = Empty
		oldest.payload = nil
		oldest.sizeFull = false
		oldest.mu.Unlock()
		victim = oldest
		if d.OnEvict != nil {
			d.OnEvict()
		}
	}

	victim.mu.Lock()
	d.tick++
	victim.key = url
	victim.state = Loading
	victim.payload = payload.New(d.maxBytes)
	victim.lruStamp = d.tick
	victim.sizeFull = false
	victim.mu.Unlock()

	return Leader, victim, &LeaderToken{slot: victim}, nil
}

// Delete removes the entry for url if present. A Loading entry is forced to
// Error and its waiters are woken before being released to Empty.
func (d *Directory) Delete(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range d.slots {
		s.mu.Lock()
		if s.state != Empty && s.key == url {
			if s.state == Loading {
				s.state = Error
				s.broadcastLocked()
			}
			s.key = ""
			s.state = Empty
			s.payload = nil
			s.sizeFull = false
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()
	}
	return ErrNotFound
}

// Shutdown forces every Loading entry to Error and wakes its waiters, then
// releases every payload and returns every slot to Empty. Subsequent
// FindOrInsert calls fail with ErrShutdownPkg.
func (d *Directory) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shutdown = true
	for _, s := range d.slots {
		s.mu.Lock()
		if s.state == Loading {
			s.state = Error
			s.broadcastLocked()
		}
		s.key = ""
		s.state = Empty
		s.payload = nil
		s.mu.Unlock()
	}
}

// EntrySnapshot is a point-in-time view of one directory slot, used by the
// admin HTTP surface.
type EntrySnapshot struct {
	Key      string `json:"key"`
	State    string `json:"state"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	LRUStamp uint64 `json:"lru_stamp"`
}

// Snapshot returns a consistent-enough view of all slots for reporting; it
// does not hold the directory mutex across all slot reads, so it is not
// linearizable with concurrent admissions, which is acceptable for an
// observability endpoint.
func (d *Directory) Snapshot() []EntrySnapshot {
	out := make([]EntrySnapshot, 0, len(d.slots))
	for _, s := range d.slots {
		s.mu.Lock()
		capacity := 0
		length := 0
		if s.payload != nil {
			capacity = s.payload.Capacity()
			length = s.payload.Len()
		}
		if s.state != Empty {
			out = append(out, EntrySnapshot{
				Key:      s.key,
				State:    s.state.String(),
				Length:   length,
				Capacity: capacity,
				LRUStamp: s.lruStamp,
			})
		}
		s.mu.Unlock()
	}
	return out
}
