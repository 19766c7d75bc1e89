package database

import (
	"encoding/json"
	"sort"
)

// State represents the balance of every account known to the ledger. A
// State value is never modified once constructed. Applying a transaction
// produces a new State, so any holder of an older value keeps a stable
// snapshot. The zero value is an empty state.
type State struct {
	balances map[AccountID]int64
}

// NewState constructs a state from the specified balances. The map is
// copied.
func NewState(balances map[AccountID]int64) State {
	s := State{
		balances: make(map[AccountID]int64, len(balances)),
	}
	for accountID, balance := range balances {
		s.balances[accountID] = balance
	}

	return s
}

// Balance returns the balance for the account. Unknown accounts have a
// balance of zero.
func (s State) Balance(accountID AccountID) int64 {
	return s.balances[accountID]
}

// Exists reports whether the account is part of the state.
func (s State) Exists(accountID AccountID) bool {
	_, exists := s.balances[accountID]
	return exists
}

// Len returns the number of accounts in the state.
func (s State) Len() int {
	return len(s.balances)
}

// Total returns the sum of every balance.
func (s State) Total() int64 {
	var total int64
	for _, balance := range s.balances {
		total += balance
	}

	return total
}

// Apply returns a new state with the transaction's deltas added to the
// balances, creating accounts as they are found. Apply does not validate
// the transaction; call Tx.Validate first.
func (s State) Apply(tx Tx) State {
	ns := NewState(s.balances)
	for accountID, delta := range tx {
		ns.balances[accountID] += delta
	}

	return ns
}

// Copy makes a copy of the current balances but returns the raw data.
func (s State) Copy() map[AccountID]int64 {
	balances := make(map[AccountID]int64, len(s.balances))
	for accountID, balance := range s.balances {
		balances[accountID] = balance
	}

	return balances
}

// Accounts returns the accounts in the state in sorted order.
func (s State) Accounts() []AccountID {
	ids := make([]AccountID, 0, len(s.balances))
	for accountID := range s.balances {
		ids = append(ids, accountID)
	}
	sort.Sort(byAccount(ids))

	return ids
}

// Equal reports whether both states hold the same accounts and balances.
func (s State) Equal(other State) bool {
	if len(s.balances) != len(other.balances) {
		return false
	}

	for accountID, balance := range s.balances {
		ob, exists := other.balances[accountID]
		if !exists || ob != balance {
			return false
		}
	}

	return true
}

// MarshalJSON implements the json.Marshaler interface.
func (s State) MarshalJSON() ([]byte, error) {
	if s.balances == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(s.balances)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *State) UnmarshalJSON(data []byte) error {
	var balances map[AccountID]int64
	if err := json.Unmarshal(data, &balances); err != nil {
		return err
	}

	*s = NewState(balances)
	return nil
}
