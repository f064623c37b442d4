package audit

import (
	"context"
	"sync"
	"time"
)

const defaultCapacity = 1000

// MemoryLog keeps the most recent audit entries in process memory.
type MemoryLog struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewMemoryLog constructs a MemoryLog holding at most capacity entries.
func NewMemoryLog(capacity int) *MemoryLog {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryLog{capacity: capacity, now: time.Now}
}

// Log appends an entry, filling id, timestamp and digest when empty. The oldest entry is dropped at capacity.
func (m *MemoryLog) Log(_ context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = m.now().UTC()
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, entry)
	return nil
}

// List returns up to limit entries, newest first. A non-positive limit returns all.
func (m *MemoryLog) List(limit int) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.entries[i])
	}
	return out
}
