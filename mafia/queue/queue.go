// Package queue admits players into matches. Every queued player holds a
// random order token; a match takes the lowest tokens, and players left
// waiting get a narrower token range each time a match cannot be formed, so
// they drift toward the front.
package queue

import (
	"math/rand/v2"
	"sort"
	"sync"
)

const (
	// DefaultRange is the token range of a freshly queued player.
	DefaultRange = 1024
	// MatchSize is how many players a match takes.
	MatchSize = 10
)

// Entry is one queued player.
type Entry struct {
	UserID     string `json:"user_id"`
	OrderToken int    `json:"order_token"`
	TokenRange int    `json:"token_range"`

	arrival uint64
}

// Queue is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	entries map[string]*Entry
	arrival uint64
	intN    func(n int) int
}

// New returns an empty queue. intN draws in [0, n); nil uses math/rand/v2.
func New(intN func(n int) int) *Queue {
	if intN == nil {
		intN = rand.IntN
	}
	return &Queue{
		entries: make(map[string]*Entry),
		intN:    intN,
	}
}

// Add queues userID and reports whether it was not queued already.
func (q *Queue) Add(userID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.entries[userID]; ok {
		return false
	}
	q.arrival++
	q.entries[userID] = &Entry{
		UserID:     userID,
		OrderToken: q.token(DefaultRange),
		TokenRange: DefaultRange,
		arrival:    q.arrival,
	}
	return true
}

// Remove drops userID and reports whether it was queued.
func (q *Queue) Remove(userID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.entries[userID]; !ok {
		return false
	}
	delete(q.entries, userID)
	return true
}

// Len returns the number of waiting players.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// TryMatch takes the MatchSize lowest-token players out of the queue, in token
// order. With fewer players waiting it promotes everyone instead and returns
// false.
func (q *Queue) TryMatch() ([MatchSize]string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var ids [MatchSize]string
	if len(q.entries) < MatchSize {
		q.promote()
		return ids, false
	}
	ordered := make([]*Entry, 0, len(q.entries))
	for _, e := range q.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].OrderToken != ordered[j].OrderToken {
			return ordered[i].OrderToken < ordered[j].OrderToken
		}
		return ordered[i].arrival < ordered[j].arrival
	})
	for i := range ids {
		ids[i] = ordered[i].UserID
		delete(q.entries, ordered[i].UserID)
	}
	return ids, true
}

// Snapshot returns a copy of every entry in arrival order.
func (q *Queue) Snapshot() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].arrival < out[j].arrival })
	return out
}

func (q *Queue) promote() {
	for _, e := range q.entries {
		e.TokenRange = max(e.TokenRange/2, 1)
		e.OrderToken = q.token(e.TokenRange)
	}
}

// token draws in [1, n].
func (q *Queue) token(n int) int {
	return q.intN(n) + 1
}
