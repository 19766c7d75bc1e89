package node

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage"
)

// RetrieveGenesis returns a copy of the genesis information.
func (n *Node) RetrieveGenesis() genesis.Genesis {
	return n.genesis
}

// RetrieveTransPerBlock returns the maximum number of transactions per block.
func (n *Node) RetrieveTransPerBlock() int {
	return n.transPerBlock
}

// RetrieveLatestBlock returns the current chain tip.
func (n *Node) RetrieveLatestBlock() database.Block {
	latest, _ := n.snapshot()
	return latest
}

// RetrieveTip returns the chain tip along with the state it produced.
func (n *Node) RetrieveTip() (database.Block, database.State) {
	return n.snapshot()
}

// RetrieveState returns the current state. The value can be held on to
// since states are never modified.
func (n *Node) RetrieveState() database.State {
	_, state := n.snapshot()
	return state
}

// RetrieveMempool returns a copy of the pending transactions in the order
// they will be processed.
func (n *Node) RetrieveMempool() []database.Tx {
	return n.mempool.PickBest(-1)
}

// RetrieveChain returns every block in the chain starting with genesis.
func (n *Node) RetrieveChain() ([]database.Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return storage.ReadAllBlocks(n.storage)
}

// QueryBalance returns the balance for the account and whether the account
// is known to the ledger.
func (n *Node) QueryBalance(accountID database.AccountID) (int64, bool) {
	state := n.RetrieveState()
	return state.Balance(accountID), state.Exists(accountID)
}

// QueryBlocksByAccount returns the blocks holding a transaction that
// involves the specified account.
func (n *Node) QueryBlocksByAccount(accountID database.AccountID) ([]database.Block, error) {
	blocks, err := n.RetrieveChain()
	if err != nil {
		return nil, err
	}

	var out []database.Block
	for _, block := range blocks {
		for _, tx := range block.Contents.Trans {
			if _, exists := tx[accountID]; exists {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}

// VerifyChain replays the whole chain from genesis and checks the result
// matches the state the node holds.
func (n *Node) VerifyChain() (database.State, error) {
	blocks, current, err := n.chainAndState()
	if err != nil {
		return database.State{}, err
	}

	state, err := database.CheckChain(blocks, n.evHandler)
	if err != nil {
		return database.State{}, err
	}

	if !state.Equal(current) {
		return database.State{}, fmt.Errorf("replayed state does not match node state, accounts %d, exp %d", state.Len(), current.Len())
	}

	return state, nil
}

// chainAndState reads the stored chain and the state it produced under
// the same lock.
func (n *Node) chainAndState() ([]database.Block, database.State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	blocks, err := storage.ReadAllBlocks(n.storage)
	if err != nil {
		return nil, database.State{}, err
	}

	return blocks, n.state, nil
}
