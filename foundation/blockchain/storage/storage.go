// Package storage defines the behavior required to hold the blocks of a
// chain in order.
package storage

import (
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrOutOfOrder is returned when a block is written that does not directly
// follow the last block written.
var ErrOutOfOrder = errors.New("block is out of order")

// Storage interface represents the behavior required to be implemented by
// any package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block database.Block) error
	GetBlock(num uint64) (database.Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the blocks.
type Iterator interface {
	Next() (database.Block, error)
	Done() bool
}

// ReadAllBlocks walks the storage from the genesis block and returns every
// block in order.
func ReadAllBlocks(strg Storage) ([]database.Block, error) {
	var blocks []database.Block

	iter := strg.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
