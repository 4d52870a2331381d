package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps operations in process memory. Entries expire after ttl.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	ops    map[string]*Operation
	leases map[string]string // key -> lease token
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		ops:    make(map[string]*Operation),
		leases: make(map[string]string),
	}
}

func (s *MemoryStore) Acquire(_ context.Context, key, buyer string, quantity int) (*Operation, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()

	if _, leased := s.leases[key]; leased {
		return nil, nil, ErrInFlight
	}

	op, ok := s.ops[key]
	if !ok {
		op = newOperation(key, buyer, quantity, s.now())
		s.ops[key] = op
	} else if !op.Matches(buyer, quantity) {
		return nil, nil, ErrKeyMismatch
	}

	token := uuid.NewString()
	s.leases[key] = token
	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			if s.leases[key] == token {
				delete(s.leases, key)
			}
			s.mu.Unlock()
		})
	}
	c := op.clone()
	c.lease = token
	return c, release, nil
}

func (s *MemoryStore) Save(_ context.Context, op *Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok, ok := s.leases[op.Key]; !ok || tok != op.lease {
		return ErrLeaseLost
	}
	op.UpdatedAt = s.now()
	s.ops[op.Key] = op.clone()
	return nil
}

// prune drops expired operations that are not leased. Caller holds mu.
func (s *MemoryStore) prune() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for key, op := range s.ops {
		if _, leased := s.leases[key]; !leased && op.UpdatedAt.Before(cutoff) {
			delete(s.ops, key)
		}
	}
}
