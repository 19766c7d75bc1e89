package database

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// AccountID represents an account id that holds a balance on the ledger and
// is referenced by transactions.
type AccountID string

// ToAccountID converts a string to an account and validates the string is
// formatted correctly.
func ToAccountID(s string) (AccountID, error) {
	a := AccountID(s)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a usable
// account id. Empty, padded or non UTF-8 names are rejected. Names that are
// not valid UTF-8 can't be told apart once serialized.
func (a AccountID) IsAccountID() bool {
	return a != "" && utf8.ValidString(string(a)) && strings.TrimSpace(string(a)) == string(a)
}

// =============================================================================

// byAccount provides sorting support by the account id value.
type byAccount []AccountID

// Len returns the number of accounts in the list.
func (ba byAccount) Len() int {
	return len(ba)
}

// Less helps to sort the list by account id in ascending order so output
// that walks accounts is repeatable.
func (ba byAccount) Less(i, j int) bool {
	return ba[i] < ba[j]
}

// Swap moves accounts in the order of the account id value.
func (ba byAccount) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
