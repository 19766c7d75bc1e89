package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/node"
	"github.com/ardanlabs/ledger/foundation/blockchain/producer"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"go.uber.org/zap"
)

type demoConfig struct {
	Transactions         int
	ProposalTransactions int
	MaxValue             int64
	Seed                 uint64
	ChainFile            string
}

// runDemo grows node A's chain from random transfers, has a forked node B
// propose a block of its own random transfers and then checks the whole
// chain, both as values and in its text form. With fewer than two accounts
// only the check is run.
func runDemo(ctx context.Context, log *zap.SugaredLogger, nodeA *node.Node, cfg demoConfig) error {
	accounts := nodeA.RetrieveState().Accounts()

	// Random transfers need two accounts to move value between.
	if len(accounts) < 2 {
		log.Infow("demo", "status", "random transfers skipped", "accounts", len(accounts))
		cfg.Transactions = 0
		cfg.ProposalTransactions = 0
	}

	log.Infow("demo", "status", "produce", "transactions", cfg.Transactions, "state", nodeA.RetrieveState())

	if cfg.Transactions > 0 {
		p, err := producer.NewRandom(producer.RandomConfig{
			Seed:     cfg.Seed,
			Accounts: accounts,
			MaxValue: cfg.MaxValue,
			Count:    cfg.Transactions,
		})
		if err != nil {
			return err
		}

		blocks, err := nodeA.Produce(ctx, p)
		if err != nil {
			return err
		}

		log.Infow("demo", "status", "produced", "blocks", len(blocks), "state", nodeA.RetrieveState())
	}

	// =========================================================================
	// Node B proposes a block

	if cfg.ProposalTransactions > 0 {
		strg, err := memory.New()
		if err != nil {
			return err
		}

		nodeB, err := nodeA.Fork(strg)
		if err != nil {
			return err
		}
		defer nodeB.Shutdown()

		p, err := producer.NewRandom(producer.RandomConfig{
			Seed:     cfg.Seed + 1,
			Accounts: accounts,
			MaxValue: cfg.MaxValue,
			Count:    cfg.ProposalTransactions,
		})
		if err != nil {
			return err
		}

		var trans []database.Tx
		for {
			tx, ok := p.Next()
			if !ok {
				break
			}
			trans = append(trans, tx)
		}

		block := nodeB.ProposeBlock(trans)

		log.Infow("demo", "status", "block received", "chainLength", nodeA.RetrieveLatestBlock().Number()+1, "blk", block.Number())

		if err := nodeA.ProcessProposedBlock(block); err != nil {
			log.Infow("demo", "status", "invalid block ignored", "kind", database.Kind(err), "ERROR", err)
		}
	}

	// =========================================================================
	// Check the whole chain

	state, err := nodeA.VerifyChain()
	if err != nil {
		return fmt.Errorf("verify chain: %w", err)
	}

	blocks, err := nodeA.RetrieveChain()
	if err != nil {
		return err
	}

	text, err := database.MarshalChain(blocks)
	if err != nil {
		return err
	}

	textState, err := database.CheckChainText(text, nil)
	if err != nil {
		return fmt.Errorf("check chain text: %w", err)
	}

	if !textState.Equal(state) {
		return errors.New("text form replays to a different state")
	}

	log.Infow("demo", "status", "chain valid", "blocks", len(blocks), "state", state)

	if cfg.ChainFile != "" {
		if err := os.WriteFile(cfg.ChainFile, text, 0644); err != nil {
			return fmt.Errorf("writing chain file: %w", err)
		}
		log.Infow("demo", "status", "chain written", "file", cfg.ChainFile)
	}

	return nil
}
