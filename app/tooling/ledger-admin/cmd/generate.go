package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/node"
	"github.com/ardanlabs/ledger/foundation/blockchain/producer"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/spf13/cobra"
)

var (
	genesisPath  string
	transactions int
	seed         uint64
	maxValue     int64
	blockSize    int
	strategy     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a chain file from random transfers.",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&genesisPath, "genesis", "g", "", "Path to a genesis file, defaults to Alice and Bob.")
	generateCmd.Flags().IntVarP(&transactions, "transactions", "t", 30, "Number of random transfers.")
	generateCmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "Seed for the random transfers.")
	generateCmd.Flags().Int64VarP(&maxValue, "max-value", "m", 3, "Largest amount moved by a transfer.")
	generateCmd.Flags().IntVarP(&blockSize, "block-size", "b", 5, "Most transactions per block.")
	generateCmd.Flags().StringVar(&strategy, "strategy", "lifo", "Order pending transactions are picked in: lifo or fifo.")
}

func generateRun(cmd *cobra.Command, args []string) error {
	gen := genesis.Default()
	if genesisPath != "" {
		var err error
		if gen, err = genesis.Load(genesisPath); err != nil {
			return err
		}
	}

	strg, err := memory.New()
	if err != nil {
		return err
	}

	n, err := node.New(node.Config{
		Genesis:        gen,
		Storage:        strg,
		TransPerBlock:  blockSize,
		SelectStrategy: strategy,
		EvHandler:      evHandler(),
	})
	if err != nil {
		return err
	}
	defer n.Shutdown()

	p, err := producer.NewRandom(producer.RandomConfig{
		Seed:     seed,
		Accounts: n.RetrieveState().Accounts(),
		MaxValue: maxValue,
		Count:    transactions,
	})
	if err != nil {
		return err
	}

	if _, err := n.Produce(cmd.Context(), p); err != nil {
		return err
	}

	blocks, err := n.RetrieveChain()
	if err != nil {
		return err
	}

	data, err := database.MarshalChain(blocks)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(chainFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(chainFile, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d blocks to %s\n", len(blocks), chainFile)

	return nil
}
