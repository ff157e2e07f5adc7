package nodestore

import (
	"sync"
	"time"
)

// mailboxCapacity bounds memory per node and exerts back-pressure on the
// coordinator when a replica falls behind. This bound is load-bearing —
// widening or removing it defeats the back-pressure design (spec §9) —
// so it is not exposed as a constructor parameter.
const mailboxCapacity = 1000

// expirerInterval is the cadence at which the background expirer wakes to
// check the top of the TTL queue.
const expirerInterval = time.Millisecond

// Node is a single logical storage unit. Nodes carry no knowledge of each
// other; they are addressed only through the cluster coordinator, which
// holds the ring and the node list.
type Node struct {
	id string

	mu   sync.RWMutex
	data map[string]Entry

	ttl     *ttlQueue
	mailbox chan Op
	log     *opLog
}

// New creates a node with a fresh mailbox and starts its drain and expirer
// tasks. Both run for the remaining lifetime of the process — there is no
// shutdown signal in this design (spec §5).
func New(id string) *Node {
	n := &Node{
		id:      id,
		data:    make(map[string]Entry),
		ttl:     newTTLQueue(),
		mailbox: make(chan Op, mailboxCapacity),
		log:     newOpLog(256),
	}
	go n.drain()
	go n.expire()
	return n
}

// ID returns the node's stable identifier.
func (n *Node) ID() string { return n.id }

// Insert replaces any prior entry for key. If ttl is non-nil, (key,
// now+*ttl) is upserted into the TTL queue, replacing any earlier expiry
// record for key so that a longer TTL set later can't be pre-empted by a
// shorter one set earlier (spec §4.2's upsert-by-key requirement).
func (n *Node) Insert(key string, value []byte, ttl *time.Duration) {
	entry := Entry{Value: value}
	if ttl != nil {
		entry.Expiry = time.Now().Add(*ttl)
	}

	n.mu.Lock()
	n.data[key] = entry
	n.mu.Unlock()

	if ttl != nil {
		n.ttl.Push(key, entry.Expiry)
	}
	n.log.record(Op{Kind: OpSet, Key: key, Value: value, TTL: ttl})
}

// Remove drops key's entry. A no-op if key is absent. The TTL queue is not
// proactively purged here — a stale record may remain until the expirer
// finds it and discovers the store no longer holds the key, which is a
// benign no-op per spec §4.2.
func (n *Node) Remove(key string) {
	n.mu.Lock()
	delete(n.data, key)
	n.mu.Unlock()
	n.log.record(Op{Kind: OpDel, Key: key})
}

// Lookup returns the value for key if present and unexpired. A present but
// expired entry is evicted from both the map and the TTL queue before
// returning absent — the lazy expiry path (spec §4.2).
func (n *Node) Lookup(key string) ([]byte, bool) {
	n.mu.RLock()
	entry, ok := n.data[key]
	n.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if entry.Expired(time.Now()) {
		n.mu.Lock()
		delete(n.data, key)
		n.mu.Unlock()
		n.ttl.Remove(key)
		return nil, false
	}
	return entry.Value, true
}

// Enqueue delivers op to the mailbox, blocking if it is full. This is the
// replication back-pressure mechanism: a coordinator fanning a write out to
// a slow replica simply waits here rather than failing the caller.
//
// A mailbox is never closed in normal operation — drain runs for the
// process lifetime — but the send is guarded anyway so that, if it ever
// were, the coordinator's policy of silently swallowing the failure (spec
// §7) holds rather than crashing the caller.
func (n *Node) Enqueue(op Op) {
	defer func() { recover() }()
	n.mailbox <- op
}

// drain pulls operations from the mailbox forever, applying them to the
// store in receipt order. Never returns in normal operation.
func (n *Node) drain() {
	for op := range n.mailbox {
		switch op.Kind {
		case OpSet:
			n.Insert(op.Key, op.Value, op.TTL)
		case OpDel:
			n.Remove(op.Key)
		}
	}
}

// expire wakes on expirerInterval and evicts every entry whose expiry has
// passed — the eager expiry path (spec §4.2). It is permissible for a
// popped key to already be gone from the store (removed by a DEL or an
// overwrite in between); that is a no-op.
func (n *Node) expire() {
	ticker := time.NewTicker(expirerInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		for {
			key, ok := n.ttl.PeekExpired(now)
			if !ok {
				break
			}
			n.mu.Lock()
			if entry, present := n.data[key]; present && entry.Expired(now) {
				delete(n.data, key)
			}
			n.mu.Unlock()
		}
	}
}

// Snapshot returns a point-in-time copy of every unexpired entry, bypassing
// the coordinator entirely. This is the testing hook spec §8 property 9
// calls for: reading a replica's store directly to observe convergence.
func (n *Node) Snapshot() map[string][]byte {
	now := time.Now()
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make(map[string][]byte, len(n.data))
	for k, e := range n.data {
		if !e.Expired(now) {
			out[k] = e.Value
		}
	}
	return out
}
