package capgain

import (
	"testing"
	"time"
)

func TestTxQueue_PopAndPushFront(t *testing.T) {
	var q txQueue
	q.pushBack(buy(t0, "BTC", 1, 100, "Gemi 1"))
	q.pushBack(buy(t0.Add(time.Hour), "BTC", 2, 200, "Gemi 2"))

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	first := q.Pop()
	if first.LotID != "Gemi 1" {
		t.Fatalf("Pop() = %q, want the earliest entry", first.LotID)
	}

	// A reduced remainder goes back to the head, not the tail.
	first.Units = Q(0.5)
	q.PushFront(first)
	if got := q.Peek().LotID; got != "Gemi 1" {
		t.Errorf("Peek() = %q, want the reinserted remainder", got)
	}
	if !q.Peek().Units.Equal(Q(0.5)) {
		t.Errorf("Peek().Units = %s, want the reduced 0.5", q.Peek().Units)
	}

	q.Pop()
	if got := q.Pop().LotID; got != "Gemi 2" {
		t.Errorf("Pop() = %q, want Gemi 2", got)
	}
	if !q.Empty() {
		t.Error("queue should be empty")
	}
}

func TestTxQueue_PushFrontOnEmpty(t *testing.T) {
	var q txQueue
	q.PushFront(buy(t0, "BTC", 1, 100, "Gemi 1"))
	if q.Empty() || q.Peek().LotID != "Gemi 1" {
		t.Error("PushFront on an empty queue must make the entry the head")
	}
}

func TestBuildAssetQueues(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy(t0, "BTC", 1, 100, "Gemi 1"),
		buy(t0.Add(time.Hour), "ETH", 1, 100, "Gemi 2"),
		sell(t0.Add(2*time.Hour), "BTC", 1, 150, "Gemi 3"),
		sell(t0.Add(3*time.Hour), "ETH", 1, 150, "Gemi 4"),
		buy(t0.Add(4*time.Hour), "BTC", 2, 300, "Gemi 5"),
	)

	pairs := buildAssetQueues(ledger)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	// First-appearance order.
	if pairs[0].Asset != "BTC" || pairs[1].Asset != "ETH" {
		t.Errorf("pair order = %s, %s; want BTC, ETH", pairs[0].Asset, pairs[1].Asset)
	}
	if pairs[0].purchases.Len() != 2 || pairs[0].sales.Len() != 1 {
		t.Errorf("BTC queues = %d purchases, %d sales; want 2, 1",
			pairs[0].purchases.Len(), pairs[0].sales.Len())
	}
	// Relative order within a queue is preserved.
	if got := pairs[0].purchases.Pop().LotID; got != "Gemi 1" {
		t.Errorf("earliest BTC purchase = %q, want Gemi 1", got)
	}
}
