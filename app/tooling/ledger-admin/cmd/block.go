package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	blockHash   string
	blockNumber int64
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Print a block from the chain file by hash or number.",
	RunE:  blockRun,
}

func init() {
	rootCmd.AddCommand(blockCmd)
	blockCmd.Flags().StringVarP(&blockHash, "hash", "x", "", "Hash of the block, 0x prefixed.")
	blockCmd.Flags().Int64VarP(&blockNumber, "number", "n", -1, "Number of the block.")
}

func blockRun(cmd *cobra.Command, args []string) error {
	var hash string
	switch {
	case blockHash != "":
		b, err := hexutil.Decode(blockHash)
		if err != nil {
			return fmt.Errorf("invalid hash %q: %w", blockHash, err)
		}
		if len(b) != 32 {
			return fmt.Errorf("invalid hash %q: got %d bytes, exp 32", blockHash, len(b))
		}
		hash = hexutil.Encode(b)

	case blockNumber < 0:
		return errors.New("a hash or a number is required")
	}

	blocks, _, err := readChain()
	if err != nil {
		return err
	}

	for _, block := range blocks {
		match := block.Hash == hash
		if hash == "" {
			match = int64(block.Number()) == blockNumber
		}
		if !match {
			continue
		}

		data, err := json.MarshalIndent(block, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	return errors.New("block not found")
}
