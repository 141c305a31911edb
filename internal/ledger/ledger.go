// Package ledger keeps the in-memory history of completed interactions for
// one browser session. Nothing here is persisted; the ledger dies with the
// session.
package ledger

import (
	"iter"
	"sync"

	"github.com/verdant-health/clinsight/internal/domain"
)

// Ledger is an append-only record list. Entries are immutable once appended.
type Ledger struct {
	mu      sync.RWMutex
	records []domain.SessionRecord
}

func New() *Ledger {
	return &Ledger{}
}

// Append adds one record. O(1); prior entries are never touched.
func (l *Ledger) Append(record domain.SessionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
}

// All returns a snapshot of the records in insertion order. Later appends do
// not affect a snapshot already taken.
func (l *Ledger) All() []domain.SessionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.SessionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Records returns a restartable sequence over a snapshot; ranging over it
// multiple times yields the same records.
func (l *Ledger) Records() iter.Seq[domain.SessionRecord] {
	snapshot := l.All()
	return func(yield func(domain.SessionRecord) bool) {
		for _, r := range snapshot {
			if !yield(r) {
				return
			}
		}
	}
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
