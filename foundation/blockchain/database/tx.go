package database

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Tx is a balance transfer. It maps each account taking part in the
// transfer to the signed amount its balance changes by. A valid Tx moves
// value between accounts, so the amounts always sum to zero.
type Tx map[AccountID]int64

// NewTx constructs a new transaction from the specified deltas. Accounts
// with a zero delta are left out.
func NewTx(deltas map[AccountID]int64) (Tx, error) {
	tx := make(Tx, len(deltas))
	for accountID, delta := range deltas {
		if !accountID.IsAccountID() {
			return nil, fmt.Errorf("account %q is not properly formatted", accountID)
		}

		if delta == 0 {
			continue
		}
		tx[accountID] = delta
	}

	return tx, nil
}

// Transfer constructs a transaction moving value from one account to
// another.
func Transfer(from AccountID, to AccountID, value int64) (Tx, error) {
	if from == to {
		return nil, fmt.Errorf("transaction invalid, sending money to yourself, from %s, to %s", from, to)
	}

	return NewTx(map[AccountID]int64{from: -value, to: value})
}

// Sum returns the net change the transaction makes to the ledger. False is
// returned when the sum does not fit in an int64.
func (tx Tx) Sum() (int64, bool) {
	var sum int64
	for _, accountID := range tx.Accounts() {
		var ok bool
		if sum, ok = addInt64(sum, tx[accountID]); !ok {
			return 0, false
		}
	}

	return sum, true
}

// Validate checks the transaction against the specified state. Every
// account must be well formed, the deltas must sum to zero and no account
// may end up with a negative balance. Accounts unknown to the state have a
// balance of zero.
func (tx Tx) Validate(state State) error {
	accounts := tx.Accounts()

	for _, accountID := range accounts {
		if !accountID.IsAccountID() {
			return fmt.Errorf("%w: account %q is not properly formatted", ErrMalformedInput, accountID)
		}
	}

	sum, ok := tx.Sum()
	if !ok {
		return fmt.Errorf("%w, deltas overflow their sum", ErrOverflow)
	}
	if sum != 0 {
		return fmt.Errorf("%w, sum %d", ErrConservation, sum)
	}

	for _, accountID := range accounts {
		delta := tx[accountID]
		balance := state.Balance(accountID)

		newBalance, ok := addInt64(balance, delta)
		if !ok {
			return fmt.Errorf("%w, %s bal %d, delta %d", ErrOverflow, accountID, balance, delta)
		}
		if newBalance < 0 {
			return fmt.Errorf("%w, %s bal %d, delta %d", ErrOverdraft, accountID, balance, delta)
		}
	}

	return nil
}

// addInt64 adds the two values, reporting false when the result does not
// fit in an int64.
func addInt64(a int64, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}

	return a + b, true
}

// IsValid reports whether the transaction can be applied to the state.
func (tx Tx) IsValid(state State) bool {
	return tx.Validate(state) == nil
}

// Clone makes a copy of the transaction.
func (tx Tx) Clone() Tx {
	cpy := make(Tx, len(tx))
	for accountID, delta := range tx {
		cpy[accountID] = delta
	}

	return cpy
}

// Accounts returns the accounts referenced by the transaction in sorted order.
func (tx Tx) Accounts() []AccountID {
	ids := make([]AccountID, 0, len(tx))
	for accountID := range tx {
		ids = append(ids, accountID)
	}
	sort.Sort(byAccount(ids))

	return ids
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, accountID := range tx.Accounts() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%d", accountID, tx[accountID])
	}
	b.WriteString("}")

	return b.String()
}
