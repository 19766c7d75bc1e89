package node

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/producer"
)

// SubmitTransaction adds a transaction to the mempool. Transactions are
// validated when they are picked for a block.
func (n *Node) SubmitTransaction(tx database.Tx) int {
	count := n.mempool.Add(tx)
	n.evHandler("node: SubmitTransaction: tx[%s]: mempool[%d]", tx, count)

	return count
}

// Produce drains the producer into the mempool and then creates blocks
// until the mempool is empty. The blocks added to the chain are returned.
func (n *Node) Produce(ctx context.Context, p producer.Producer) ([]database.Block, error) {
	for {
		tx, ok := p.Next()
		if !ok {
			break
		}
		n.SubmitTransaction(tx)
	}

	var blocks []database.Block
	for n.mempool.Count() > 0 {
		if err := ctx.Err(); err != nil {
			return blocks, err
		}

		block, err := n.MineNewBlock(ctx)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// MineNewBlock gathers up to the configured number of valid transactions
// from the mempool, checking each against the state as it stands with the
// transactions already gathered applied. Invalid transactions are dropped.
// The resulting block is added to the chain.
func (n *Node) MineNewBlock(ctx context.Context) (database.Block, error) {
	n.evHandler("node: MineNewBlock: MINING: check mempool count")

	// Are there enough transactions in the pool.
	if n.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	parent, state := n.snapshot()

	n.evHandler("node: MineNewBlock: MINING: gather transactions: parentBlk[%d]", parent.Number())

	var trans []database.Tx
	for len(trans) < n.transPerBlock {
		tx, ok := n.mempool.Next()
		if !ok {
			break
		}

		if err := tx.Validate(state); err != nil {
			n.evHandler("node: MineNewBlock: MINING: tx[%s] ignored: %s", tx, err)
			continue
		}

		state = state.Apply(tx)
		trans = append(trans, tx)
	}

	// Just check one more time we were not cancelled.
	if err := ctx.Err(); err != nil {
		n.restore(trans)
		return database.Block{}, err
	}

	block := database.NewBlock(trans, parent)

	n.evHandler("node: MineNewBlock: MINING: update local state: blk[%d]: numTrans[%d]", block.Number(), len(trans))

	if err := n.commit(parent, block, state); err != nil {
		n.restore(trans)
		return database.Block{}, err
	}

	return block, nil
}

// restore puts transactions that did not make it into a block back into
// the mempool.
func (n *Node) restore(trans []database.Tx) {
	for _, tx := range trans {
		n.mempool.Add(tx)
	}
}
