// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time        `json:"date"`
	TransPerBlock uint16           `json:"trans_per_block" validate:"required,min=1"`                            // The maximum number of transactions that can be in a block.
	Balances      map[string]int64 `json:"balances" validate:"required,min=1,dive,keys,required,endkeys,gte=0"` // Starting balances seeded by the genesis block.
}

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:          time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		TransPerBlock: 5,
		Balances: map[string]int64{
			"Alice": 50,
			"Bob":   50,
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	return Parse(content)
}

// Parse decodes and validates the genesis document.
func Parse(content []byte) (Genesis, error) {
	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis: %w", err)
	}

	return genesis, nil
}

// Block constructs the genesis block that seeds the starting balances.
func (g Genesis) Block() (database.Block, error) {
	balances := make(map[database.AccountID]int64, len(g.Balances))
	for accountStr, balance := range g.Balances {
		accountID, err := database.ToAccountID(accountStr)
		if err != nil {
			return database.Block{}, fmt.Errorf("genesis account %q: %w", accountStr, err)
		}
		balances[accountID] = balance
	}

	return database.NewGenesisBlock(balances), nil
}
