package cluster

import "encoding/json"

// NodeDump is the JSON-serializable view of a single node's contents,
// returned by Dump for the /cluster/dump operator/debug route. It carries
// no expiry information — only unexpired values, exactly as Node.Snapshot
// reports them.
type NodeDump struct {
	ID      string            `json:"id"`
	Entries map[string][]byte `json:"entries"`
}

// Dump returns a point-in-time JSON encoding of every node's store, primary
// and replicas alike. This is the in-memory descendant of the teacher's
// disk-backed snapshot: same "marshal the whole store to JSON" idiom, but
// with nothing written to a file, since durable persistence across process
// restarts is out of scope here — there is no Load counterpart because
// there is nothing to recover from. See internal/api.Handler.Dump for its
// only caller.
func (c *Cluster) Dump() ([]byte, error) {
	c.mu.RLock()
	dumps := make([]NodeDump, len(c.nodes))
	for i, n := range c.nodes {
		dumps[i] = NodeDump{ID: n.ID(), Entries: n.Snapshot()}
	}
	c.mu.RUnlock()

	return json.Marshal(dumps)
}
