// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyLIFO = "lifo"
	StrategyFIFO = "fifo"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyLIFO: lifoSelect,
	StrategyFIFO: fifoSelect,
}

// Func defines a function that takes the pending transactions in the order
// they arrived and returns the indexes of howMany of them in the order they
// should be processed. Receiving -1 for howMany must return every index in
// the strategies ordering.
type Func func(transactions []database.Tx, howMany int) []int

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// lifoSelect processes the most recently received transaction first.
var lifoSelect = func(transactions []database.Tx, howMany int) []int {
	n := count(len(transactions), howMany)

	idxs := make([]int, n)
	for i := range n {
		idxs[i] = len(transactions) - 1 - i
	}

	return idxs
}

// fifoSelect processes transactions in the order they were received.
var fifoSelect = func(transactions []database.Tx, howMany int) []int {
	n := count(len(transactions), howMany)

	idxs := make([]int, n)
	for i := range n {
		idxs[i] = i
	}

	return idxs
}

// count caps howMany to the number of transactions available.
func count(available int, howMany int) int {
	if howMany < 0 || howMany > available {
		return available
	}
	return howMany
}
