// Package producer provides sources of candidate transactions for a node to
// validate and batch into blocks.
package producer

import (
	"fmt"
	"math/rand/v2"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// Producer represents the behavior required to supply candidate
// transactions. Next returns false once the producer is exhausted.
type Producer interface {
	Next() (database.Tx, bool)
}

// =============================================================================

// Slice produces the transactions from a fixed list in order.
type Slice struct {
	trans []database.Tx
	pos   int
}

// NewSlice constructs a producer over the specified transactions.
func NewSlice(trans []database.Tx) *Slice {
	return &Slice{trans: trans}
}

// Next implements the Producer interface.
func (s *Slice) Next() (database.Tx, bool) {
	if s.pos >= len(s.trans) {
		return nil, false
	}

	tx := s.trans[s.pos]
	s.pos++

	return tx, true
}

// =============================================================================

// RandomConfig represents the settings for a random producer.
type RandomConfig struct {
	Seed     uint64               `json:"seed"`
	Accounts []database.AccountID `json:"accounts" validate:"required,min=2,unique,dive,required"`
	MaxValue int64                `json:"max_value" validate:"required,min=1"`
	Count    int                  `json:"count" validate:"required,min=1"`
}

// Random produces transfers of a random amount in a random direction
// between two distinct accounts. The transfers always conserve value but
// nothing stops them from overdrawing an account; that is for the node to
// catch.
type Random struct {
	rnd       *rand.Rand
	accounts  []database.AccountID
	maxValue  int64
	remaining int
}

// NewRandom constructs a random producer. Each producer owns its source of
// randomness, so two producers with the same seed yield the same sequence.
func NewRandom(cfg RandomConfig) (*Random, error) {
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating random producer config: %w", err)
	}

	accounts := make([]database.AccountID, len(cfg.Accounts))
	copy(accounts, cfg.Accounts)

	r := Random{
		rnd:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
		accounts:  accounts,
		maxValue:  cfg.MaxValue,
		remaining: cfg.Count,
	}

	return &r, nil
}

// Next implements the Producer interface.
func (r *Random) Next() (database.Tx, bool) {
	if r.remaining <= 0 {
		return nil, false
	}
	r.remaining--

	// Pick two distinct accounts.
	i := r.rnd.IntN(len(r.accounts))
	j := r.rnd.IntN(len(r.accounts) - 1)
	if j >= i {
		j++
	}

	// A sign of -1 or 1 and an amount in the range [1, maxValue].
	sign := int64(r.rnd.IntN(2))*2 - 1
	amount := r.rnd.Int64N(r.maxValue) + 1

	tx := database.Tx{
		r.accounts[i]: sign * amount,
		r.accounts[j]: -sign * amount,
	}

	return tx, true
}
