package cluster

import (
	"sync"

	"distributed-kvstore/internal/nodestore"
)

// fanOut delivers op to every replica's mailbox and returns once all of
// them have been attempted.
//
// Each replica gets exactly one Enqueue call per fan-out, so dispatching
// them concurrently can never reorder messages within a single mailbox —
// the ordering guarantee in spec §5 is about the sequence of enqueue calls
// a mailbox receives across its lifetime, and concurrent replicas don't
// share a mailbox with each other.
//
// Mailbox overflow and mailbox-closed failures are not surfaced here: a
// full mailbox simply blocks the goroutine until there's room (the
// back-pressure design in spec §9), and a send to a closed mailbox — not
// expected in normal operation, since nodes live for the process lifetime —
// is recovered and dropped inside Node.Enqueue, so it never reaches the
// caller (spec §7).
func fanOut(replicas []*nodestore.Node, op nodestore.Op) {
	var wg sync.WaitGroup
	wg.Add(len(replicas))
	for _, replica := range replicas {
		go func(n *nodestore.Node) {
			defer wg.Done()
			n.Enqueue(op)
		}(replica)
	}
	wg.Wait()
}
