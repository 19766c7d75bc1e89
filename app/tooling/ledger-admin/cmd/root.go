// Package cmd contains the ledger admin commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	chainFile string
	verbose   bool
	log       = zap.NewNop().Sugar()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&chainFile, "file", "f", "zblock/chain.json", "Path to the chain file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every validation step.")
}

var rootCmd = &cobra.Command{
	Use:           "ledger-admin",
	Short:         "Inspect and verify ledger chain files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command named on the command line.
func Execute(l *zap.SugaredLogger) error {
	log = l
	return rootCmd.ExecuteContext(context.Background())
}

// evHandler returns the function used to report validation steps, which
// only logs when asked to.
func evHandler() func(v string, args ...any) {
	if !verbose {
		return nil
	}

	return func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}
}

// readChain loads the chain file and checks it, returning the blocks with
// the state they reconstruct.
func readChain() ([]database.Block, database.State, error) {
	data, err := os.ReadFile(chainFile)
	if err != nil {
		return nil, database.State{}, fmt.Errorf("reading chain file: %w", err)
	}

	blocks, err := database.UnmarshalChain(data)
	if err != nil {
		return nil, database.State{}, err
	}

	state, err := database.CheckChain(blocks, evHandler())
	if err != nil {
		return blocks, database.State{}, err
	}

	return blocks, state, nil
}
