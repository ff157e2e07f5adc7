package nodestore

import (
	"container/heap"
	"sync"
	"time"
)

// ttlQueue is a priority queue of (key, expiry) pairs ordered by earliest
// expiry, with upsert-by-key semantics: pushing a key that is already queued
// replaces its expiry rather than adding a second record.
//
// Why upsert and not a plain heap: if a key is SET twice with different
// TTLs, a plain heap would carry two stale records, and the earlier
// (shorter) one could fire first and evict the entry before its real,
// longer-lived expiry — a correctness bug, not just wasted memory. A plain
// container/heap has no notion of "the record for this key", so we pair it
// with an index map the way an indexed priority queue would, rather than
// reach for a generic heap package — no library in this corpus offers a
// keyed/indexed priority queue, so this is standard-library
// container/heap plus a small amount of bookkeeping.
//
// Tolerating staleness: DEL and overwrite-without-upsert would normally
// leave a queue record with a key no longer backed by a live entry; because
// we upsert on every push, a stale record nonetheless exists only after a
// DEL or an overwrite without TTL, neither of which touches the queue. That
// is fine — the eager expiry path deletes only a store entry that is itself
// expired, so a record whose key is absent, or now holds no TTL, is a no-op
// (spec §4.2).
type ttlQueue struct {
	mu    sync.Mutex
	items []*ttlItem
	index map[string]int // key -> position in items, kept in sync by heap ops
}

type ttlItem struct {
	key    string
	expiry time.Time
	pos    int
}

func newTTLQueue() *ttlQueue {
	return &ttlQueue{index: make(map[string]int)}
}

// Push inserts or updates the expiry record for key.
func (q *ttlQueue) Push(key string, expiry time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if i, ok := q.index[key]; ok {
		q.items[i].expiry = expiry
		heap.Fix((*ttlHeap)(q), i)
		return
	}
	heap.Push((*ttlHeap)(q), &ttlItem{key: key, expiry: expiry})
}

// Remove drops key's record if present; a no-op otherwise.
func (q *ttlQueue) Remove(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, ok := q.index[key]
	if !ok {
		return
	}
	heap.Remove((*ttlHeap)(q), i)
}

// PeekExpired pops and returns the key at the top of the queue if its
// expiry is not after now; the zero value and false otherwise. Used by the
// expirer task, which keeps calling this until it returns false.
func (q *ttlQueue) PeekExpired(now time.Time) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return "", false
	}
	top := q.items[0]
	if top.expiry.After(now) {
		return "", false
	}
	heap.Pop((*ttlHeap)(q))
	return top.key, true
}

// ttlHeap adapts ttlQueue's slice + index to container/heap.Interface.
// Defined on *ttlQueue (not a separate type holding its own slice) so that
// the index map stays trivially in sync with every mutation heap.* makes.
type ttlHeap ttlQueue

func (h *ttlHeap) Len() int { return len(h.items) }

func (h *ttlHeap) Less(i, j int) bool {
	return h.items[i].expiry.Before(h.items[j].expiry)
}

func (h *ttlHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].pos = i
	h.items[j].pos = j
	h.index[h.items[i].key] = i
	h.index[h.items[j].key] = j
}

func (h *ttlHeap) Push(x any) {
	item := x.(*ttlItem)
	item.pos = len(h.items)
	h.index[item.key] = item.pos
	h.items = append(h.items, item)
}

func (h *ttlHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	delete(h.index, item.key)
	return item
}
