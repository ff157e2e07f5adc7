package ring

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

////////////////////////////////////////////////////////////////////////////////
// RING STRUCTURE
////////////////////////////////////////////////////////////////////////////////

// Ring is the consistent-hash ring. It stores, for each virtual node
// coordinate, the index of the physical node that owns it — never a node
// handle — so the ring has no notion of node lifecycle and can't create a
// reference cycle with whatever owns the nodes themselves.
//
// Safe for concurrent use: many routing reads overlap with at most one
// writer (AddNode), which the cluster coordinator is required to run
// exclusively (see spec §5 — add_node is not meant to race with SET/GET/DEL).
//
// Fields:
//
//	mu     → protects ring and sorted
//	vnodes → number of virtual nodes generated per physical node
//	ring   → maps ring coordinate → node index
//	sorted → coordinates in ascending order, for binary search
type Ring struct {
	mu     sync.RWMutex
	vnodes int
	ring   map[uint32]int
	sorted []uint32
}

// New creates an empty ring with v virtual nodes per physical node.
func New(v int) *Ring {
	if v <= 0 {
		v = 1
	}
	return &Ring{
		vnodes: v,
		ring:   make(map[uint32]int),
	}
}

////////////////////////////////////////////////////////////////////////////////
// NODE MANAGEMENT
////////////////////////////////////////////////////////////////////////////////

// AddNode places vnodes virtual coordinates for node index idx onto the
// ring, each hashing "{nodeID}:{i}" for i in [0, vnodes).
//
// Coordinates are unique per (nodeID, i) pair by construction; a coordinate
// collision across two different node IDs is tolerated — the later AddNode
// call simply wins that single coordinate, per spec §3's invariant that such
// collisions must not crash.
func (r *Ring) AddNode(nodeID string, idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.vnodes; i++ {
		coord := HashString(fmt.Sprintf("%s:%d", nodeID, i))
		r.ring[coord] = idx
	}
	r.rebuild()
}

////////////////////////////////////////////////////////////////////////////////
// KEY LOOKUP (REPLICA-SET SELECTION)
////////////////////////////////////////////////////////////////////////////////

// GetNodes returns up to count distinct physical node indices responsible
// for key, walking the ring clockwise from key's coordinate and skipping
// duplicate physical nodes reached through their other virtual nodes.
//
// The first returned index is the primary; the rest are replicas in walk
// order. If the ring holds fewer than count distinct nodes, the returned
// slice is simply shorter — callers must tolerate a degraded replica set
// rather than treat it as an error (spec §4.1).
func (r *Ring) GetNodes(key string, count int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sorted) == 0 {
		return nil
	}

	coord := HashString(key)
	start := r.search(coord)

	seen := make(map[int]bool, count)
	nodes := make([]int, 0, count)

	for i := 0; i < len(r.sorted) && len(nodes) < count; i++ {
		pos := r.sorted[(start+i)%len(r.sorted)]
		idx := r.ring[pos]
		if !seen[idx] {
			seen[idx] = true
			nodes = append(nodes, idx)
		}
	}
	return nodes
}

////////////////////////////////////////////////////////////////////////////////
// INTERNAL HELPERS
////////////////////////////////////////////////////////////////////////////////

// rebuild reconstructs the sorted coordinate slice after AddNode. Binary
// search in search() depends on this being sorted.
func (r *Ring) rebuild() {
	r.sorted = make([]uint32, 0, len(r.ring))
	for pos := range r.ring {
		r.sorted = append(r.sorted, pos)
	}
	slices.Sort(r.sorted)
}

// search finds the index of the first coordinate >= pos, wrapping to 0 if
// pos is greater than every coordinate on the ring. This is what gives the
// ring its circular walk.
func (r *Ring) search(pos uint32) int {
	idx := sort.Search(len(r.sorted), func(i int) bool {
		return r.sorted[i] >= pos
	})
	if idx == len(r.sorted) {
		idx = 0
	}
	return idx
}
