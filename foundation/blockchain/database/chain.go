package database

import (
	"encoding/json"
	"fmt"
)

// CheckChain works through the chain from the genesis block, checking that
// every transaction is a valid update to the state and that the blocks are
// linked by their hashes. The state reconstructed from the whole chain is
// returned.
//
// The first block is treated as genesis: its transactions seed an empty
// state without being validated, and only its hash is checked.
func CheckChain(blocks []Block, evHandler func(v string, args ...any)) (State, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	if len(blocks) == 0 {
		return State{}, fmt.Errorf("%w: chain has no genesis block", ErrMalformedInput)
	}

	genesis := blocks[0]

	ev("database: CheckChain: genesis: blk[%d]: seeding state from %d transactions", genesis.Number(), len(genesis.Contents.Trans))

	var state State
	for _, tx := range genesis.Contents.Trans {
		for _, accountID := range tx.Accounts() {
			if !accountID.IsAccountID() {
				return State{}, fmt.Errorf("%w: genesis account %q is not properly formatted", ErrMalformedInput, accountID)
			}
		}
		state = state.Apply(tx)
	}

	if err := genesis.CheckHash(); err != nil {
		return State{}, err
	}

	parent := genesis
	for _, block := range blocks[1:] {
		var err error
		if state, err = block.ValidateBlock(parent, state, evHandler); err != nil {
			return State{}, err
		}
		parent = block
	}

	ev("database: CheckChain: blocks[%d]: accounts[%d]: chain is valid", len(blocks), state.Len())

	return state, nil
}

// CheckChainText decodes the serialized form of a chain and then checks it
// with CheckChain. Text that is not a list of blocks fails with
// ErrMalformedInput.
func CheckChainText(data []byte, evHandler func(v string, args ...any)) (State, error) {
	blocks, err := UnmarshalChain(data)
	if err != nil {
		return State{}, err
	}

	return CheckChain(blocks, evHandler)
}

// MarshalChain serializes the chain into its text form.
func MarshalChain(blocks []Block) ([]byte, error) {
	if blocks == nil {
		blocks = []Block{}
	}

	return json.Marshal(blocks)
}

// UnmarshalChain decodes the text form of a chain.
func UnmarshalChain(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err)
	}

	return blocks, nil
}
