package database

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// BlockContents represents the hashed part of a block.
type BlockContents struct {
	Number     uint64 `json:"number"`      // Block number in the chain, genesis is 0.
	ParentHash string `json:"parent_hash"` // Hash of the previous block, empty for genesis.
	TxCount    int    `json:"tx_count"`    // Number of transactions in the block.
	Trans      []Tx   `json:"trans"`       // Transactions in the order they are applied.
}

// MarshalJSON implements the json.Marshaler interface. A genesis block has
// no parent, which is written as null.
func (bc BlockContents) MarshalJSON() ([]byte, error) {
	var parentHash *string
	if bc.ParentHash != "" {
		parentHash = &bc.ParentHash
	}

	trans := bc.Trans
	if trans == nil {
		trans = []Tx{}
	}

	bcj := struct {
		Number     uint64  `json:"number"`
		ParentHash *string `json:"parent_hash"`
		TxCount    int     `json:"tx_count"`
		Trans      []Tx    `json:"trans"`
	}{
		Number:     bc.Number,
		ParentHash: parentHash,
		TxCount:    bc.TxCount,
		Trans:      trans,
	}

	return json.Marshal(bcj)
}

// Block represents a group of transactions batched together. The hash is
// the identity of the block and is what the next block links to.
type Block struct {
	Hash     string        `json:"hash"`
	Contents BlockContents `json:"contents"`
}

// NewGenesisBlock constructs the first block of a chain. Its only
// transaction seeds the starting balances.
func NewGenesisBlock(balances map[AccountID]int64) Block {
	seed := make(Tx, len(balances))
	for accountID, balance := range balances {
		seed[accountID] = balance
	}

	b := Block{
		Contents: BlockContents{
			Number:  0,
			TxCount: 1,
			Trans:   []Tx{seed},
		},
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewBlock constructs the next block in the chain after the parent block.
// The transactions are not validated; the caller must have validated them
// against the state as of the parent block.
func NewBlock(trans []Tx, parent Block) Block {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	b := Block{
		Contents: BlockContents{
			Number:     parent.Contents.Number + 1,
			ParentHash: parent.Hash,
			TxCount:    len(cpy),
			Trans:      cpy,
		},
	}
	b.Hash = b.ComputeHash()

	return b
}

// Number returns the block number.
func (b Block) Number() uint64 {
	return b.Contents.Number
}

// IsGenesis reports whether the block claims to be a genesis block.
func (b Block) IsGenesis() bool {
	return b.Contents.Number == 0 && b.Contents.ParentHash == ""
}

// ComputeHash returns the hash for the block contents. Contents naming an
// account that is not valid UTF-8 hash to digest.ZeroHash.
func (b Block) ComputeHash() string {
	for _, tx := range b.Contents.Trans {
		for accountID := range tx {
			if !utf8.ValidString(string(accountID)) {
				return digest.ZeroHash
			}
		}
	}

	return digest.Hash(b.Contents)
}

// CheckHash verifies the stored hash matches the block contents. Contents
// that can't be hashed never match.
func (b Block) CheckHash() error {
	exp := b.ComputeHash()
	if exp == digest.ZeroHash {
		return newBlockError(b.Contents.Number, fmt.Errorf("%w, contents can't be hashed", ErrHashMismatch))
	}
	if b.Hash != exp {
		return newBlockError(b.Contents.Number, fmt.Errorf("%w, got %s, exp %s", ErrHashMismatch, b.Hash, exp))
	}

	return nil
}

// ValidateBlock takes a block and validates it to be included into the
// blockchain after the parent block. The transactions are replayed against
// the state in order and the resulting state is returned. The state passed
// in is never modified, so a failed validation leaves nothing behind.
func (b Block) ValidateBlock(parent Block, state State, evHandler func(v string, args ...any)) (State, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	number := b.Contents.Number

	ev("database: ValidateBlock: validate: blk[%d]: check: transactions are valid updates to the state", number)

	for i, tx := range b.Contents.Trans {
		if err := tx.Validate(state); err != nil {
			return State{}, &BlockError{Number: number, TxIndex: i, Tx: tx, Err: err}
		}
		state = state.Apply(tx)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block hash is valid for the contents", number)

	if err := b.CheckHash(); err != nil {
		return State{}, err
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: tx count matches the transactions", number)

	if b.Contents.TxCount != len(b.Contents.Trans) {
		return State{}, newBlockError(number, fmt.Errorf("%w: tx count is %d, block holds %d", ErrMalformedInput, b.Contents.TxCount, len(b.Contents.Trans)))
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", number)

	nextNumber := parent.Contents.Number + 1
	if number != nextNumber {
		return State{}, newBlockError(number, fmt.Errorf("%w: this block is not the next number, got %d, exp %d", ErrLinkage, number, nextNumber))
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", number)

	if b.Contents.ParentHash != parent.Hash {
		return State{}, newBlockError(number, fmt.Errorf("%w: parent block hash doesn't match our known parent, got %s, exp %s", ErrLinkage, b.Contents.ParentHash, parent.Hash))
	}

	return state, nil
}
