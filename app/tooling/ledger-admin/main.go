// This program performs administrative tasks for ledger chain files.
package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/app/tooling/ledger-admin/cmd"
	"github.com/ardanlabs/ledger/foundation/logger"
)

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cmd.Execute(log); err != nil {
		log.Errorw("admin", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}
