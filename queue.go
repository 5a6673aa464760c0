package capgain

// txQueue is an ordered FIFO queue of transactions. The matcher only ever
// pops the earliest entry and occasionally reinserts a reduced remainder as
// the new earliest, so the queue is a slice with a head index rather than a
// full deque.
type txQueue struct {
	entries []Transaction
	head    int
}

func (q *txQueue) Len() int    { return len(q.entries) - q.head }
func (q *txQueue) Empty() bool { return q.head >= len(q.entries) }

// Peek returns a pointer to the earliest entry, or nil on an empty queue.
func (q *txQueue) Peek() *Transaction {
	if q.Empty() {
		return nil
	}
	return &q.entries[q.head]
}

// Pop removes and returns the earliest entry. It panics on an empty queue;
// callers always test Empty first.
func (q *txQueue) Pop() Transaction {
	tx := q.entries[q.head]
	q.head++
	return tx
}

// PushFront reinserts a partially consumed entry so it is the next
// candidate again.
func (q *txQueue) PushFront(tx Transaction) {
	if q.head > 0 {
		q.head--
		q.entries[q.head] = tx
		return
	}
	q.entries = append([]Transaction{tx}, q.entries...)
}

// pushBack appends an entry, used only while building the queues.
func (q *txQueue) pushBack(tx Transaction) {
	q.entries = append(q.entries, tx)
}

// AssetQueuePair holds the purchase and sale queues of one asset, both
// ordered by (timestamp, lot id) as inherited from the ledger. After
// partitioning, assets share no state and are matchable independently.
type AssetQueuePair struct {
	Asset     string
	purchases txQueue
	sales     txQueue
}

// buildAssetQueues partitions the sorted ledger by asset into independent
// purchase/sale queue pairs, preserving relative order. Pairs are returned
// in order of first appearance of the asset in the ledger.
func buildAssetQueues(l *Ledger) []*AssetQueuePair {
	index := make(map[string]*AssetQueuePair)
	var pairs []*AssetQueuePair

	for _, tx := range l.Transactions() {
		pair, ok := index[tx.Asset]
		if !ok {
			pair = &AssetQueuePair{Asset: tx.Asset}
			index[tx.Asset] = pair
			pairs = append(pairs, pair)
		}
		switch tx.Kind {
		case Purchase:
			pair.purchases.pushBack(tx)
		case Sale:
			pair.sales.pushBack(tx)
		}
	}
	return pairs
}
