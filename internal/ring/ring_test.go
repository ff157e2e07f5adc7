package ring

import (
	"fmt"
	"testing"
)

func TestGetNodesDeterministic(t *testing.T) {
	r := New(100)
	r.AddNode("a", 0)
	r.AddNode("b", 1)
	r.AddNode("c", 2)

	first := r.GetNodes("some-key", 2)
	second := r.GetNodes("some-key", 2)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic length: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("non-deterministic routing: %v vs %v", first, second)
		}
	}
}

func TestGetNodesReplicaSetSize(t *testing.T) {
	r := New(50)
	r.AddNode("a", 0)
	r.AddNode("b", 1)

	// n (2) < R (3): replica set shrinks to n, not an error.
	got := r.GetNodes("k", 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct nodes with n<R, got %d: %v", len(got), got)
	}

	r.AddNode("c", 2)
	got = r.GetNodes("k", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 distinct nodes with n==R, got %d: %v", len(got), got)
	}
}

func TestGetNodesDedupesVirtualNodes(t *testing.T) {
	r := New(10) // ten ring entries, all owned by the same physical node
	r.AddNode("only-node", 0)

	got := r.GetNodes("anything", 5)
	if len(got) != 1 {
		t.Fatalf("expected exactly one distinct physical node, got %v", got)
	}
}

func TestEmptyRing(t *testing.T) {
	r := New(10)
	if got := r.GetNodes("k", 2); got != nil {
		t.Fatalf("expected nil replica set on empty ring, got %v", got)
	}
}

func TestLoadBalanceStatistical(t *testing.T) {
	const nNodes = 5
	const nKeys = 10000
	r := New(100)
	for i := 0; i < nNodes; i++ {
		r.AddNode(fmt.Sprintf("n%d", i), i)
	}

	counts := make([]int, nNodes)
	for i := 0; i < nKeys; i++ {
		primary := r.GetNodes(fmt.Sprintf("key-%d", i), 3)[0]
		counts[primary]++
	}

	expected := nKeys / nNodes
	lo, hi := expected*75/100, expected*125/100
	for idx, c := range counts {
		if c < lo || c > hi {
			t.Fatalf("node %d got %d keys, want within [%d,%d] of expected %d", idx, c, lo, hi, expected)
		}
	}
}
