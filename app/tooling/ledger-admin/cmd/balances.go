package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var accountName string

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Print the balances the chain file adds up to.",
	RunE:  balancesRun,
}

func init() {
	rootCmd.AddCommand(balancesCmd)
	balancesCmd.Flags().StringVarP(&accountName, "account", "a", "", "Only print this account.")
}

func balancesRun(cmd *cobra.Command, args []string) error {
	blocks, state, err := readChain()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "LatestBlockHash: %s\n\n", blocks[len(blocks)-1].Hash)

	if accountName != "" {
		accountID, err := database.ToAccountID(accountName)
		if err != nil {
			return err
		}
		if !state.Exists(accountID) {
			return fmt.Errorf("account %q is not in the ledger", accountID)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Account: %s  Balance: %d\n", accountID, state.Balance(accountID))
		return nil
	}

	for _, accountID := range state.Accounts() {
		fmt.Fprintf(cmd.OutOrStdout(), "Account: %s  Balance: %d\n", accountID, state.Balance(accountID))
	}

	return nil
}
