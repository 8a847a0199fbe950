package resultcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
)

const defaultMaxSize = 10000

// node is one entry of the insertion-ordered list.
type node struct {
	key  string
	res  calculator.Result
	next *node
}

func (n *node) reset() {
	n.key = ""
	n.res = calculator.Result{}
	n.next = nil
}

// MemoryStore keeps results in process memory. In bounded mode the oldest
// insertion is evicted first; nodes are recycled through a sync.Pool.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*node
	head     *node // oldest
	tail     *node // newest
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = make(map[string]*node)
	s.nodePool = sync.Pool{
		New: func() any { return &node{} },
	}
	return s
}

// Get returns the stored result for key.
func (s *MemoryStore) Get(_ context.Context, key string) (calculator.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.entries[key]
	if !ok {
		return calculator.Result{}, false, nil
	}
	return n.res, true, nil
}

// Set stores res under key. Re-setting a key replaces the value in place and
// keeps its position in the eviction order.
func (s *MemoryStore) Set(_ context.Context, key string, res calculator.Result) error { //nolint:gocritic // hugeParam: Result is stored by value
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[key]; ok {
		n.res = res
		return nil
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	n := s.nodePool.Get().(*node)
	n.key = key
	n.res = res
	if s.tail == nil {
		s.head = n
	} else {
		s.tail.next = n
	}
	s.tail = n
	s.entries[key] = n
	s.size.Add(1)
	return nil
}

// evictOldest removes the head of the list. Must be called with s.mu held.
func (s *MemoryStore) evictOldest() {
	n := s.head
	if n == nil {
		return
	}
	s.head = n.next
	if s.head == nil {
		s.tail = nil
	}
	delete(s.entries, n.key)
	n.reset()
	s.nodePool.Put(n)
	s.size.Add(-1)
}

// Size returns the current number of entries.
func (s *MemoryStore) Size() int64 {
	return s.size.Load()
}
