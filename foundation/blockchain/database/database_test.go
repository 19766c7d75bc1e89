package database_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func genesisBalances() map[database.AccountID]int64 {
	return map[database.AccountID]int64{"Alice": 50, "Bob": 50}
}

func zeroSum(tx database.Tx) bool {
	sum, ok := tx.Sum()
	return ok && sum == 0
}

// =============================================================================

func Test_TxValidation(t *testing.T) {
	type table struct {
		name  string
		state map[database.AccountID]int64
		tx    database.Tx
		err   error
	}

	tt := []table{
		{
			name:  "valid",
			state: genesisBalances(),
			tx:    database.Tx{"Alice": -10, "Bob": 10},
		},
		{
			name:  "overdraft",
			state: genesisBalances(),
			tx:    database.Tx{"Alice": -60, "Bob": 60},
			err:   database.ErrOverdraft,
		},
		{
			name:  "conservation",
			state: genesisBalances(),
			tx:    database.Tx{"Alice": -10, "Bob": 5},
			err:   database.ErrConservation,
		},
		{
			name:  "conservation-rich",
			state: map[database.AccountID]int64{"Alice": 1000, "Bob": 1000},
			tx:    database.Tx{"Alice": 10, "Bob": 5},
			err:   database.ErrConservation,
		},
		{
			name:  "unknown-account-receives",
			state: genesisBalances(),
			tx:    database.Tx{"Alice": -50, "Carol": 50},
		},
		{
			name:  "unknown-account-pays",
			state: genesisBalances(),
			tx:    database.Tx{"Carol": -1, "Alice": 1},
			err:   database.ErrOverdraft,
		},
		{
			name:  "empty",
			state: genesisBalances(),
			tx:    database.Tx{},
		},
		{
			name:  "sum-wraps-to-zero",
			state: genesisBalances(),
			tx:    database.Tx{"Xavier": math.MaxInt64, "Yara": math.MaxInt64, "Zed": 2},
			err:   database.ErrOverflow,
		},
		{
			name:  "sum-wraps-negative",
			state: genesisBalances(),
			tx:    database.Tx{"Alice": math.MinInt64, "Bob": -1, "Carol": math.MaxInt64, "Dave": 2},
			err:   database.ErrOverflow,
		},
		{
			name:  "balance-wraps",
			state: map[database.AccountID]int64{"Alice": math.MaxInt64, "Bob": 10},
			tx:    database.Tx{"Alice": 5, "Bob": -5},
			err:   database.ErrOverflow,
		},
		{
			name:  "non-utf8-account",
			state: genesisBalances(),
			tx:    database.Tx{"\xff": 1, "Alice": -1},
			err:   database.ErrMalformedInput,
		},
		{
			name:  "empty-account",
			state: genesisBalances(),
			tx:    database.Tx{"": 1, "Alice": -1},
			err:   database.ErrMalformedInput,
		},
	}

	t.Log("Given the need to validate transactions against a state.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %q transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					state := database.NewState(tst.state)

					err := tst.tx.Validate(state)
					if tst.err == nil {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to validate the transaction: %v", failed, testID, err)
						}
						if !tst.tx.IsValid(state) {
							t.Fatalf("\t%s\tTest %d:\tShould report the transaction as valid.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to validate the transaction.", success, testID)
						return
					}

					if !errors.Is(err, tst.err) {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
						t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.err)
						t.Fatalf("\t%s\tTest %d:\tShould get the right error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the right error.", success, testID)

					if kind := database.Kind(err); kind != database.Kind(tst.err) || kind == database.KindUnknown {
						t.Fatalf("\t%s\tTest %d:\tShould classify the error as %s, got %s.", failed, testID, database.Kind(tst.err), kind)
					}
					t.Logf("\t%s\tTest %d:\tShould classify the error as %s.", success, testID, database.Kind(tst.err))

					if tst.tx.IsValid(state) {
						t.Fatalf("\t%s\tTest %d:\tShould report the transaction as invalid.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould report the transaction as invalid.", success, testID)

					if !state.Equal(database.NewState(tst.state)) {
						t.Fatalf("\t%s\tTest %d:\tShould not change the state.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not change the state.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_NewTx(t *testing.T) {
	t.Log("Given the need to construct transactions.")
	{
		t.Logf("\tTest 0:\tWhen dropping zero deltas.")
		{
			tx, err := database.NewTx(map[database.AccountID]int64{"Alice": -3, "Bob": 3, "Carol": 0})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the transaction: %v", failed, err)
			}
			if _, exists := tx["Carol"]; exists || len(tx) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould leave out zero deltas, got %s.", failed, tx)
			}
			t.Logf("\t%s\tTest 0:\tShould leave out zero deltas.", success)

			if tx.String() != "{Alice:-3 Bob:3}" {
				t.Fatalf("\t%s\tTest 0:\tShould format the transaction in account order, got %s.", failed, tx)
			}
			t.Logf("\t%s\tTest 0:\tShould format the transaction in account order.", success)
		}

		t.Logf("\tTest 1:\tWhen using bad accounts.")
		{
			if _, err := database.NewTx(map[database.AccountID]int64{"": 1}); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject an empty account.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an empty account.", success)

			if _, err := database.Transfer("Alice", "Alice", 5); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a transfer to yourself.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a transfer to yourself.", success)
		}

		t.Logf("\tTest 2:\tWhen making a transfer.")
		{
			tx, err := database.Transfer("Alice", "Bob", 7)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to make a transfer: %v", failed, err)
			}
			if tx["Alice"] != -7 || tx["Bob"] != 7 || !zeroSum(tx) {
				t.Fatalf("\t%s\tTest 2:\tShould move the value between the accounts, got %s.", failed, tx)
			}
			t.Logf("\t%s\tTest 2:\tShould move the value between the accounts.", success)
		}
	}
}

func Test_StateApply(t *testing.T) {
	t.Log("Given the need to apply transactions without changing prior states.")
	{
		t.Logf("\tTest 0:\tWhen applying a valid transaction to the genesis state.")
		{
			before := database.NewState(genesisBalances())
			tx := database.Tx{"Alice": -10, "Bob": 10}

			if !tx.IsValid(before) {
				t.Fatalf("\t%s\tTest 0:\tShould be a valid transaction.", failed)
			}

			after := before.Apply(tx)

			exp := database.NewState(map[database.AccountID]int64{"Alice": 40, "Bob": 60})
			if !after.Equal(exp) {
				t.Logf("\t%s\tTest 0:\tgot: %v", failed, after.Copy())
				t.Logf("\t%s\tTest 0:\texp: %v", failed, exp.Copy())
				t.Fatalf("\t%s\tTest 0:\tShould get the right balances.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get the right balances.", success)

			if before.Balance("Alice") != 50 || before.Balance("Bob") != 50 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the prior state unchanged.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the prior state unchanged.", success)

			if before.Total() != after.Total() {
				t.Fatalf("\t%s\tTest 0:\tShould conserve the total value, got %d, exp %d.", failed, after.Total(), before.Total())
			}
			t.Logf("\t%s\tTest 0:\tShould conserve the total value.", success)
		}

		t.Logf("\tTest 1:\tWhen applying a transaction with a new account.")
		{
			var empty database.State
			st := empty.Apply(database.Tx{"Alice": 50, "Bob": 50})

			if !st.Exists("Alice") || st.Balance("Bob") != 50 || st.Len() != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould create the accounts, got %v.", failed, st.Copy())
			}
			t.Logf("\t%s\tTest 1:\tShould create the accounts.", success)

			if empty.Len() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the empty state empty.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the empty state empty.", success)
		}

		t.Logf("\tTest 2:\tWhen changing the map used to build a state.")
		{
			balances := genesisBalances()
			st := database.NewState(balances)
			balances["Alice"] = 0

			cpy := st.Copy()
			cpy["Bob"] = 0

			if st.Balance("Alice") != 50 || st.Balance("Bob") != 50 {
				t.Fatalf("\t%s\tTest 2:\tShould not share memory with callers.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not share memory with callers.", success)
		}

		t.Logf("\tTest 3:\tWhen applying a long run of valid transfers.")
		{
			st := database.NewState(genesisBalances())
			total := st.Total()

			amounts := []int64{3, -2, 1, -3, 2, 2, -1, 3, -3, 1}
			for _, amt := range amounts {
				tx := database.Tx{"Alice": -amt, "Bob": amt}
				if !tx.IsValid(st) {
					continue
				}
				st = st.Apply(tx)

				for _, accountID := range st.Accounts() {
					if st.Balance(accountID) < 0 {
						t.Fatalf("\t%s\tTest 3:\tShould never overdraw %s.", failed, accountID)
					}
				}
				if st.Total() != total {
					t.Fatalf("\t%s\tTest 3:\tShould conserve the total value.", failed)
				}
			}
			t.Logf("\t%s\tTest 3:\tShould never overdraw and always conserve the total value.", success)
		}
	}
}
