package nodestore

import (
	"testing"
	"time"
)

func TestTTLQueueUpsertReplacesExpiry(t *testing.T) {
	q := newTTLQueue()
	base := time.Now()

	q.Push("k", base.Add(10*time.Millisecond))
	q.Push("k", base.Add(time.Hour)) // upsert: same key, later expiry

	// Nothing should be "expired" at base+20ms, because the live record now
	// expires in an hour, not 10ms.
	if _, ok := q.PeekExpired(base.Add(20 * time.Millisecond)); ok {
		t.Fatal("expected no expired record after upsert pushed the expiry out")
	}
}

func TestTTLQueueOrdersByEarliestExpiry(t *testing.T) {
	q := newTTLQueue()
	base := time.Now()

	q.Push("later", base.Add(time.Hour))
	q.Push("sooner", base.Add(time.Millisecond))

	key, ok := q.PeekExpired(base.Add(2 * time.Millisecond))
	if !ok || key != "sooner" {
		t.Fatalf("expected sooner to expire first, got (%q, %v)", key, ok)
	}
}

func TestTTLQueueRemoveIsNoopWhenAbsent(t *testing.T) {
	q := newTTLQueue()
	q.Remove("never-pushed") // must not panic
}
