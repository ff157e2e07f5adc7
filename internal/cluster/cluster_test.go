package cluster

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distributed-kvstore/internal/nodestore"
)

func dur(d time.Duration) *time.Duration { return &d }

// S1: two-node cluster, write with no TTL, read-your-writes on the primary,
// and convergence to the replica within a bound.
func TestScenarioReadYourWritesAndReplicaConvergence(t *testing.T) {
	c := New(100, 2)
	c.AddNode("a")
	c.AddNode("b")

	c.Set("k", []byte("v"), nil)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(v))

	nodes := c.replicaSet("k")
	require.Len(t, nodes, 2)
	primary, replica := nodes[0], nodes[1]

	_, ok = primary.Snapshot()["k"]
	assert.True(t, ok, "expected primary store to hold k directly")

	assert.Eventually(t, func() bool {
		val, ok := replica.Snapshot()["k"]
		return ok && string(val) == "v"
	}, time.Second, time.Millisecond, "expected replica to converge")
}

// Mailbox replication is required to apply ops in FIFO order (spec §5).
// RecentOps exposes the replica's applied-operation trail directly, so this
// checks ordering itself rather than only the converged end state.
func TestReplicaAppliesOpsInFIFOOrder(t *testing.T) {
	c := New(100, 2)
	c.AddNode("a")
	c.AddNode("b")

	const n = 5
	for i := 0; i < n; i++ {
		c.Set("k", []byte(fmt.Sprintf("v%d", i)), nil)
	}

	replica := c.replicaSet("k")[1]
	require.Eventually(t, func() bool {
		ops := replica.RecentOps()
		return len(ops) > 0 && string(ops[len(ops)-1].Value) == fmt.Sprintf("v%d", n-1)
	}, time.Second, time.Millisecond, "expected replica to have applied the last Set")

	ops := replica.RecentOps()
	require.Len(t, ops, n)
	for i, op := range ops {
		assert.Equal(t, nodestore.OpSet, op.Kind)
		assert.Equal(t, "k", op.Key)
		assert.Equal(t, fmt.Sprintf("v%d", i), string(op.Value), "ops must be applied in the order they were sent")
	}
}

// S2: single node cluster, replica set has exactly one node.
func TestScenarioSingleNodeReplicaSet(t *testing.T) {
	c := New(100, 3)
	c.AddNode("a")
	c.Set("x", []byte("1"), nil)

	v, ok := c.Get("x")
	require.True(t, ok)
	assert.Equal(t, "1", string(v))
	assert.Len(t, c.replicaSet("x"), 1)
}

// S3: TTL eager/lazy expiry.
func TestScenarioTTLExpires(t *testing.T) {
	c := New(100, 2)
	c.AddNode("a")
	c.AddNode("b")

	c.Set("t", []byte("hot"), dur(50*time.Millisecond))
	time.Sleep(120 * time.Millisecond)

	_, ok := c.Get("t")
	assert.False(t, ok, "expected t to have expired")
}

// S4: TTL upsert — a later, longer TTL keeps the value alive past the
// earlier, shorter one.
func TestScenarioTTLUpsert(t *testing.T) {
	c := New(100, 2)
	c.AddNode("a")
	c.AddNode("b")

	c.Set("t", []byte("v1"), dur(20*time.Millisecond))
	c.Set("t", []byte("v2"), dur(10*time.Second))
	time.Sleep(60 * time.Millisecond)

	v, ok := c.Get("t")
	require.True(t, ok)
	assert.Equal(t, "v2", string(v))
}

// S5: delete propagates to the replica within a bound.
func TestScenarioDeletePropagates(t *testing.T) {
	c := New(100, 2)
	c.AddNode("a")
	c.AddNode("b")

	c.Set("k", []byte("v"), nil)
	c.Del("k")

	_, ok := c.Get("k")
	assert.False(t, ok, "expected k absent after Del")

	replica := c.replicaSet("k")[1]
	assert.Eventually(t, func() bool {
		_, ok := replica.Snapshot()["k"]
		return !ok
	}, time.Second, time.Millisecond, "expected replica delete to converge")
}

// S6: five nodes, 10k keys, primary distribution within [1600, 2400].
func TestScenarioLoadBalanceAcrossFiveNodes(t *testing.T) {
	c := New(100, 3)
	for i := 0; i < 5; i++ {
		c.AddNode(fmt.Sprintf("n%d", i))
	}

	counts := make(map[int]int)
	for i := 0; i < 10000; i++ {
		key := fmt.Sprintf("key-%d", i)
		c.Set(key, []byte("v"), nil)
		idx := indexOf(c, c.replicaSet(key)[0])
		counts[idx]++
	}

	for idx, n := range counts {
		assert.GreaterOrEqualf(t, n, 1600, "node %d primary share too low", idx)
		assert.LessOrEqualf(t, n, 2400, "node %d primary share too high", idx)
	}
}

func indexOf(c *Cluster, target *nodestore.Node) int {
	for i := 0; i < c.NodeCount(); i++ {
		if c.NodeAt(i) == target {
			return i
		}
	}
	return -1
}

func TestOverwrite(t *testing.T) {
	c := New(50, 1)
	c.AddNode("a")

	c.Set("k", []byte("v1"), nil)
	c.Set("k", []byte("v2"), nil)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", string(v))
}

func TestEmptyRingPanics(t *testing.T) {
	c := New(10, 2)
	assert.Panics(t, func() {
		c.Set("k", []byte("v"), nil)
	})
}
