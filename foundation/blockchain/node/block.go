package node

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ProposeBlock builds a candidate block on top of this node's chain tip
// without validating the transactions or adding it to the chain. Another
// node decides whether to accept it.
func (n *Node) ProposeBlock(trans []database.Tx) database.Block {
	parent, _ := n.snapshot()

	block := database.NewBlock(trans, parent)
	n.evHandler("node: ProposeBlock: newBlk[%d]: numTrans[%d]", block.Number(), len(trans))

	return block
}

// ProcessProposedBlock takes a block built by another node, validates it
// against this node's chain tip and state and, if that passes, adds the
// block to the chain and adopts the new state. A rejected block leaves the
// chain and state as they were.
func (n *Node) ProcessProposedBlock(block database.Block) error {
	n.evHandler("node: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.Contents.ParentHash, block.Hash, len(block.Contents.Trans))
	defer n.evHandler("node: ProcessProposedBlock: completed: newBlk[%s]", block.Hash)

	parent, state := n.snapshot()

	newState, err := block.ValidateBlock(parent, state, n.evHandler)
	if err != nil {
		n.evHandler("node: ProcessProposedBlock: REJECTED: kind[%s]: %s", database.Kind(err), err)
		return err
	}

	if err := n.commit(parent, block, newState); err != nil {
		n.evHandler("node: ProcessProposedBlock: REJECTED: kind[%s]: %s", database.Kind(err), err)
		return err
	}

	n.evHandler("node: ProcessProposedBlock: ACCEPTED: blk[%d]", block.Number())

	return nil
}
