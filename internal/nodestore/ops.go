package nodestore

import "time"

// OpKind distinguishes the two replication operation variants a mailbox
// carries.
type OpKind int

const (
	// OpSet replicates a write: the entry replaces whatever was there.
	OpSet OpKind = iota
	// OpDel replicates a delete.
	OpDel
)

// Op is a single replication operation enqueued to a node's mailbox. TTL is
// nil for entries with no expiry, mirroring the optional-duration shape of
// the public SET API.
type Op struct {
	Kind  OpKind
	Key   string
	Value []byte
	TTL   *time.Duration
}
