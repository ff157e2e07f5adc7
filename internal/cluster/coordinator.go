package cluster

import (
	"time"

	"distributed-kvstore/internal/nodestore"
)

// Set computes the replica set for key, applies the write inline on the
// primary, and fans the same write out to each replica's mailbox in order.
// It returns once the primary insert has completed and every replica
// enqueue has been attempted — an attempt may block on a full mailbox, but
// it never fails in a way Set surfaces to the caller (spec §7: no error
// escapes SET in normal operation).
//
// ttl is nil for entries with no expiry.
func (c *Cluster) Set(key string, value []byte, ttl *time.Duration) {
	nodes := c.replicaSet(key)
	if len(nodes) == 0 {
		emptyRingPanic("Set", key)
	}

	primary, replicas := nodes[0], nodes[1:]
	primary.Insert(key, value, ttl)

	fanOut(replicas, nodestore.Op{Kind: nodestore.OpSet, Key: key, Value: value, TTL: ttl})
}

// Get consults the primary only — replicas are never read through the
// coordinator (spec §4.3, §9: "GET ignores replicas entirely" is accepted
// behavior, not an oversight). Returns the value and true if present and
// unexpired, or nil and false otherwise.
func (c *Cluster) Get(key string) ([]byte, bool) {
	nodes := c.replicaSet(key)
	if len(nodes) == 0 {
		emptyRingPanic("Get", key)
	}
	return nodes[0].Lookup(key)
}

// Del is symmetric to Set: inline removal on the primary, fan-out delete to
// each replica's mailbox.
func (c *Cluster) Del(key string) {
	nodes := c.replicaSet(key)
	if len(nodes) == 0 {
		emptyRingPanic("Del", key)
	}

	primary, replicas := nodes[0], nodes[1:]
	primary.Remove(key)

	fanOut(replicas, nodestore.Op{Kind: nodestore.OpDel, Key: key})
}
