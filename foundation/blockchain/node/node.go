// Package node is the core API for the ledger and implements the flows that
// grow a chain: batching pending transactions into blocks and accepting
// blocks proposed by another copy of the chain.
package node

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no transactions in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// EventHandler defines a function that is called when events
// occur in the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start a node.
type Config struct {
	Genesis        genesis.Genesis
	Storage        storage.Storage
	TransPerBlock  int // Overrides the genesis value when greater than 0.
	SelectStrategy string
	EvHandler      EventHandler
}

// Node manages a chain and the state derived from it. The chain and state
// only change together, once a block has been fully built or fully
// validated.
type Node struct {
	mu          sync.Mutex
	latestBlock database.Block
	state       database.State

	genesis        genesis.Genesis
	transPerBlock  int
	selectStrategy string
	evHandler      EventHandler
	mempool        *mempool.Mempool
	storage        storage.Storage
}

// New constructs a node for the specified genesis. Blocks already held by
// the storage are validated and replayed to rebuild the state; an empty
// storage is seeded with the genesis block.
func New(cfg Config) (*Node, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	transPerBlock := cfg.TransPerBlock
	if transPerBlock <= 0 {
		transPerBlock = int(cfg.Genesis.TransPerBlock)
	}
	if transPerBlock <= 0 {
		return nil, fmt.Errorf("invalid transactions per block %d", transPerBlock)
	}

	genesisBlock, err := cfg.Genesis.Block()
	if err != nil {
		return nil, err
	}

	// Construct a mempool with the specified select strategy.
	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = selector.StrategyLIFO
	}
	mp, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := storage.ReadAllBlocks(cfg.Storage)
	if err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		ev("node: New: seeding storage with genesis block[%s]", genesisBlock.Hash)

		if err := cfg.Storage.Write(genesisBlock); err != nil {
			return nil, err
		}
		blocks = []database.Block{genesisBlock}
	}

	if blocks[0].Hash != genesisBlock.Hash {
		return nil, fmt.Errorf("stored genesis block %s does not match genesis %s", blocks[0].Hash, genesisBlock.Hash)
	}

	state, err := database.CheckChain(blocks, ev)
	if err != nil {
		return nil, fmt.Errorf("stored chain is invalid: %w", err)
	}

	n := Node{
		latestBlock: blocks[len(blocks)-1],
		state:       state,

		genesis:        cfg.Genesis,
		transPerBlock:  transPerBlock,
		selectStrategy: strategy,
		evHandler:      ev,
		mempool:        mp,
		storage:        cfg.Storage,
	}

	ev("node: New: chain loaded: blocks[%d]: latestBlk[%s]", len(blocks), n.latestBlock.Hash)

	return &n, nil
}

// Fork constructs an independent node holding a copy of this node's chain
// in the specified storage. Both nodes may then grow their chains apart.
func (n *Node) Fork(strg storage.Storage) (*Node, error) {
	blocks, err := n.RetrieveChain()
	if err != nil {
		return nil, err
	}

	for _, block := range blocks {
		if err := strg.Write(block); err != nil {
			return nil, err
		}
	}

	return New(Config{
		Genesis:        n.genesis,
		Storage:        strg,
		TransPerBlock:  n.transPerBlock,
		SelectStrategy: n.selectStrategy,
		EvHandler:      n.evHandler,
	})
}

// Shutdown cleanly brings the node down.
func (n *Node) Shutdown() error {
	n.evHandler("node: Shutdown: started")
	defer n.evHandler("node: Shutdown: completed")

	return n.storage.Close()
}

// =============================================================================

// snapshot returns the chain tip and the state derived from it as a pair
// taken at the same moment.
func (n *Node) snapshot() (database.Block, database.State) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.latestBlock, n.state
}

// commit appends the block and adopts the new state. The parent the block
// was validated against must still be the chain tip.
func (n *Node) commit(parent database.Block, block database.Block, state database.State) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.latestBlock.Hash != parent.Hash {
		return fmt.Errorf("%w: chain tip moved from %s to %s during validation", database.ErrLinkage, parent.Hash, n.latestBlock.Hash)
	}

	n.evHandler("node: commit: write block[%d] to storage", block.Number())

	if err := n.storage.Write(block); err != nil {
		return err
	}

	n.latestBlock = block
	n.state = state

	return nil
}
