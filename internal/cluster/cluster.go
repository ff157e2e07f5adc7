// Package cluster is the public surface of the store: SET, GET, DEL, and
// the add_node setup call that grows the ring. It owns the one mutable
// piece of shared topology — the node list and the ring built on top of
// it — and hands every read or write off to the per-node storage engine in
// internal/nodestore.
package cluster

import (
	"fmt"
	"sync"

	"distributed-kvstore/internal/nodestore"
	"distributed-kvstore/internal/ring"
)

// Cluster is an ordered list of nodes, the ring built over them, and the
// two fixed parameters that shape routing and durability: V virtual nodes
// per physical node, and R the replication factor.
//
// The node list is append-only and indices never shift, so the ring can
// safely address nodes by index rather than by pointer or ID lookup.
type Cluster struct {
	mu    sync.RWMutex
	nodes []*nodestore.Node
	ring  *ring.Ring
	v     int
	r     int
}

// New creates a fresh, empty cluster. v and r must be positive; the ring
// starts with no nodes, so SET/GET/DEL called before the first AddNode hit
// the empty-ring case documented on emptyRingPanic below.
func New(v, r int) *Cluster {
	if v <= 0 || r <= 0 {
		panic("cluster: v and r must be positive")
	}
	return &Cluster{
		ring: ring.New(v),
		v:    v,
		r:    r,
	}
}

// AddNode constructs a node with a fresh mailbox, starts its drain and
// expirer tasks, appends it to the node list, and derives its V ring
// coordinates. Callers must not race AddNode with SET/GET/DEL — the spec
// treats add_node as exclusive of the routing hot path (spec §5).
func (c *Cluster) AddNode(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := len(c.nodes)
	c.nodes = append(c.nodes, nodestore.New(id))
	c.ring.AddNode(id, idx)
}

// NodeCount returns the number of physical nodes currently in the cluster.
func (c *Cluster) NodeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// NodeAt returns the node at index i for test and introspection use —
// spec §8 property 9 requires reading a replica's store directly,
// bypassing the coordinator, to observe replication convergence.
func (c *Cluster) NodeAt(i int) *nodestore.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nodes[i]
}

// replicaSet returns the primary (first) followed by replicas, per the
// ring's clockwise walk from key's coordinate. An empty result means the
// ring holds no nodes at all — the empty-ring condition that Set, Get and
// Del treat as a programmer error rather than a silent no-op (spec §7).
func (c *Cluster) replicaSet(key string) []*nodestore.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	indices := c.ring.GetNodes(key, c.r)
	nodes := make([]*nodestore.Node, len(indices))
	for i, idx := range indices {
		nodes[i] = c.nodes[idx]
	}
	return nodes
}

// emptyRingPanic is raised by Set, Get, and Del when called before any node
// has been added. The source this spec is drawn from would panic on an
// index-zero access into an empty node list; we surface the same failure
// explicitly instead of letting it happen as an accidental index panic deep
// in the ring (spec §7, §9 — "implementers should surface an explicit
// failure, not mimic the panic").
func emptyRingPanic(op, key string) {
	panic(fmt.Sprintf("cluster: %s(%q) called on an empty ring — add_node must be called first", op, key))
}

// V reports the configured virtual-nodes-per-node parameter.
func (c *Cluster) V() int { return c.v }

// R reports the configured replication factor.
func (c *Cluster) R() int { return c.r }
