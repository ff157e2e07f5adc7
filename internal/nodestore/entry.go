// Package nodestore implements the per-node storage engine: a concurrent
// key→entry map, a TTL-ordered priority queue, a bounded replication
// mailbox, and the background drain and expirer tasks that keep them
// consistent with each other.
//
// Big idea:
//
// Each node knows nothing about any other node — it owns a map, a queue,
// and a mailbox, and nothing more. All cross-node awareness (the ring,
// the replica set, fan-out) lives one layer up, in internal/cluster.
package nodestore

import "time"

// Entry is one stored record: an immutable value plus an optional expiry
// instant. Entries are replaced wholesale on overwrite, never mutated in
// place.
type Entry struct {
	Value  []byte
	Expiry time.Time // zero value means "no TTL"
}

// HasTTL reports whether e carries an expiry.
func (e Entry) HasTTL() bool {
	return !e.Expiry.IsZero()
}

// Expired reports whether e's expiry, if any, is in the past relative to now.
func (e Entry) Expired(now time.Time) bool {
	return e.HasTTL() && !e.Expiry.After(now)
}
