package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every block and transaction in the chain file.",
	RunE:  verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func verifyRun(cmd *cobra.Command, args []string) error {
	blocks, state, err := readChain()
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "INVALID: kind[%s]: %s\n", database.Kind(err), err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "VALID: blocks[%d]: latest[%s]\n", len(blocks), blocks[len(blocks)-1].Hash)
	for _, accountID := range state.Accounts() {
		fmt.Fprintf(cmd.OutOrStdout(), "Account: %s  Balance: %d\n", accountID, state.Balance(accountID))
	}

	return nil
}
