package database

import (
	"errors"
	"fmt"
)

// Set of error kinds that can be returned while validating transactions,
// blocks and chains.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrHashMismatch       = errors.New("hash does not match block contents")
	ErrLinkage            = errors.New("block is not linked to its parent")
	ErrMalformedInput     = errors.New("malformed chain input")
)

// Specific reasons a transaction is invalid. All wrap ErrInvalidTransaction.
var (
	ErrConservation = fmt.Errorf("%w: deltas do not sum to zero", ErrInvalidTransaction)
	ErrOverdraft    = fmt.Errorf("%w: account would be overdrawn", ErrInvalidTransaction)
	ErrOverflow     = fmt.Errorf("%w: amount out of range", ErrInvalidTransaction)
)

// Kind names used for reporting.
const (
	KindInvalidTransaction = "invalid_transaction"
	KindHashMismatch       = "hash_mismatch"
	KindLinkage            = "linkage"
	KindMalformedInput     = "malformed_input"
	KindUnknown            = "unknown"
)

// Kind classifies the error into one of the ledger error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransaction):
		return KindInvalidTransaction
	case errors.Is(err, ErrHashMismatch):
		return KindHashMismatch
	case errors.Is(err, ErrLinkage):
		return KindLinkage
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	}

	return KindUnknown
}

// =============================================================================

// BlockError is returned when a block fails validation. It identifies the
// block and, for transaction failures, the offending transaction.
type BlockError struct {
	Number  uint64
	TxIndex int // -1 when the failure is not about a single transaction.
	Tx      Tx
	Err     error
}

// Error implements the error interface.
func (be *BlockError) Error() string {
	if be.TxIndex >= 0 {
		return fmt.Sprintf("block %d: tx[%d] %s: %s", be.Number, be.TxIndex, be.Tx, be.Err)
	}

	return fmt.Sprintf("block %d: %s", be.Number, be.Err)
}

// Unwrap provides support for errors.Is and errors.As.
func (be *BlockError) Unwrap() error {
	return be.Err
}

// newBlockError constructs a BlockError that is not about a transaction.
func newBlockError(number uint64, err error) error {
	return &BlockError{
		Number:  number,
		TxIndex: -1,
		Err:     err,
	}
}
