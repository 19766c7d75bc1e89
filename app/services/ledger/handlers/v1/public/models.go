package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

type balance struct {
	Account database.AccountID `json:"account"`
	Balance int64              `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Number      uint64    `json:"number"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type chainStatus struct {
	Valid  bool           `json:"valid"`
	Blocks int            `json:"blocks,omitempty"`
	State  database.State `json:"state"`
}

type submitTx struct {
	Tx database.Tx `json:"tx" validate:"required,min=1"`
}

type proposal struct {
	Block database.Block `json:"block"`
}

type blockResult struct {
	Status string `json:"status"`
	Number uint64 `json:"number"`
	Hash   string `json:"hash"`
	Trans  int    `json:"trans"`
}
