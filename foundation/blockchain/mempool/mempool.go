// Package mempool maintains the pool of pending transactions waiting to be
// batched into blocks.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool/selector"
)

// Mempool represents a cache of pending transactions kept in the order they
// were received.
type Mempool struct {
	pool     []database.Tx
	mu       sync.RWMutex
	selectFn selector.Func
}

// New constructs a new mempool using the default sort strategy.
func New() (*Mempool, error) {
	return NewWithStrategy(selector.StrategyLIFO)
}

// NewWithStrategy constructs a new mempool with specified sort strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the mempool and returns the new count.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Next removes and returns the next transaction to process according to the
// configured strategy. False is returned when the pool is empty.
func (mp *Mempool) Next() (database.Tx, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	idxs := mp.selectFn(mp.pool, 1)
	if len(idxs) == 0 {
		return nil, false
	}

	idx := idxs[0]
	tx := mp.pool[idx]
	mp.pool = append(mp.pool[:idx:idx], mp.pool[idx+1:]...)

	return tx, true
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// PickBest uses the configured sort strategy to return the next set
// of transactions without removing them from the pool.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	idxs := mp.selectFn(mp.pool, howMany)

	trans := make([]database.Tx, len(idxs))
	for i, idx := range idxs {
		trans[i] = mp.pool[idx]
	}

	return trans
}
