package producer_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/producer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func zeroSum(tx database.Tx) bool {
	sum, ok := tx.Sum()
	return ok && sum == 0
}

func drain(p producer.Producer) []database.Tx {
	var trans []database.Tx
	for {
		tx, ok := p.Next()
		if !ok {
			return trans
		}
		trans = append(trans, tx)
	}
}

func TestRandom(t *testing.T) {
	cfg := producer.RandomConfig{
		Seed:     0,
		Accounts: []database.AccountID{"Alice", "Bob"},
		MaxValue: 3,
		Count:    30,
	}

	t.Log("Given the need to produce random transfers.")
	{
		t.Logf("\tTest 0:\tWhen producing from a seeded producer.")
		{
			p, err := producer.NewRandom(cfg)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the producer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct the producer.", success)

			trans := drain(p)
			if len(trans) != cfg.Count {
				t.Fatalf("\t%s\tTest 0:\tShould produce %d transactions, got %d.", failed, cfg.Count, len(trans))
			}
			t.Logf("\t%s\tTest 0:\tShould produce %d transactions.", success, cfg.Count)

			for _, tx := range trans {
				if !zeroSum(tx) || len(tx) != 2 {
					t.Fatalf("\t%s\tTest 0:\tShould conserve value between two accounts, got %s.", failed, tx)
				}
				if a := tx["Alice"]; a == 0 || a > cfg.MaxValue || a < -cfg.MaxValue {
					t.Fatalf("\t%s\tTest 0:\tShould keep the amount in range, got %s.", failed, tx)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould conserve value and keep amounts in range.", success)

			p2, _ := producer.NewRandom(cfg)
			again := drain(p2)
			for i := range trans {
				if trans[i].String() != again[i].String() {
					t.Fatalf("\t%s\tTest 0:\tShould repeat the sequence for the same seed.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould repeat the sequence for the same seed.", success)
		}

		t.Logf("\tTest 1:\tWhen the configuration is invalid.")
		{
			bad := []producer.RandomConfig{
				{Accounts: []database.AccountID{"Alice"}, MaxValue: 3, Count: 1},
				{Accounts: []database.AccountID{"Alice", "Alice"}, MaxValue: 3, Count: 1},
				{Accounts: []database.AccountID{"Alice", "Bob"}, MaxValue: 0, Count: 1},
				{Accounts: []database.AccountID{"Alice", "Bob"}, MaxValue: 3, Count: 0},
			}

			for i, c := range bad {
				if _, err := producer.NewRandom(c); err == nil {
					t.Fatalf("\t%s\tTest 1:\tShould reject config %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould reject every invalid config.", success)
		}
	}
}

func TestSlice(t *testing.T) {
	t.Log("Given the need to produce a fixed list of transactions.")
	{
		trans := []database.Tx{{"Alice": -1, "Bob": 1}, {"Alice": 1, "Bob": -1}}

		got := drain(producer.NewSlice(trans))
		if len(got) != 2 || got[0]["Bob"] != 1 || got[1]["Bob"] != -1 {
			t.Fatalf("\t%s\tShould produce the transactions in order.", failed)
		}
		t.Logf("\t%s\tShould produce the transactions in order.", success)
	}
}
