package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/app/services/ledger/handlers"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/node"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type ledgerTests struct {
	app   http.Handler
	nodeA *node.Node
	nodeB *node.Node
}

func newLedgerTests(t *testing.T) ledgerTests {
	strgA, _ := memory.New()
	nodeA, err := node.New(node.Config{Genesis: genesis.Default(), Storage: strgA})
	if err != nil {
		t.Fatalf("Should be able to construct node A: %v", err)
	}

	strgB, _ := memory.New()
	nodeB, err := nodeA.Fork(strgB)
	if err != nil {
		t.Fatalf("Should be able to fork node B: %v", err)
	}

	app := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		Node:     nodeA,
		Evts:     events.New(),
	})

	return ledgerTests{app: app, nodeA: nodeA, nodeB: nodeB}
}

func (lt ledgerTests) do(method string, path string, body []byte) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	lt.app.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_Ledger(t *testing.T) {
	lt := newLedgerTests(t)

	t.Run("balances", lt.balances)
	t.Run("proposeAccepted", lt.proposeAccepted)
	t.Run("proposeRejected", lt.proposeRejected)
	t.Run("checkChain", lt.checkChain)
	t.Run("submitAndMine", lt.submitAndMine)
	t.Run("verify", lt.verify)
}

func (lt ledgerTests) balances(t *testing.T) {
	t.Log("Given the need to read balances.")
	{
		t.Logf("\tTest 0:\tWhen asking for a known account.")
		{
			w := lt.do(http.MethodGet, "/v1/balances/Alice", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)

			var got struct {
				Balances []struct {
					Account string `json:"account"`
					Balance int64  `json:"balance"`
				} `json:"balances"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the response : %v", failed, err)
			}
			if len(got.Balances) != 1 || got.Balances[0].Balance != 50 {
				t.Fatalf("\t%s\tTest 0:\tShould get the genesis balance, got %+v.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get the genesis balance.", success)
		}

		t.Logf("\tTest 1:\tWhen asking for an unknown account.")
		{
			w := lt.do(http.MethodGet, "/v1/balances/Zed", nil)
			if w.Code != http.StatusNotFound {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 404 for the response : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a status code of 404 for the response.", success)
		}
	}
}

func (lt ledgerTests) proposeAccepted(t *testing.T) {
	t.Log("Given the need to accept a block proposed by another node.")
	{
		t.Logf("\tTest 0:\tWhen node B proposes a valid block.")
		{
			blk := lt.nodeB.ProposeBlock([]database.Tx{{"Alice": -10, "Bob": 10}})
			body, _ := json.Marshal(struct {
				Block database.Block `json:"block"`
			}{blk})

			w := lt.do(http.MethodPost, "/v1/blocks/propose", body)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v : %s", failed, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)

			if lt.nodeA.RetrieveLatestBlock().Hash != blk.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould move the chain tip to the proposed block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould move the chain tip to the proposed block.", success)
		}
	}
}

func (lt ledgerTests) proposeRejected(t *testing.T) {
	type table struct {
		name   string
		body   func() []byte
		status int
		kind   string
	}

	wrap := func(blk database.Block) []byte {
		body, _ := json.Marshal(struct {
			Block database.Block `json:"block"`
		}{blk})
		return body
	}

	tt := []table{
		{
			name:   "stale",
			body:   func() []byte { return wrap(lt.nodeB.ProposeBlock([]database.Tx{{"Alice": -1, "Bob": 1}})) },
			status: http.StatusUnprocessableEntity,
			kind:   database.KindLinkage,
		},
		{
			name: "overdraft",
			body: func() []byte {
				return wrap(database.NewBlock([]database.Tx{{"Alice": -100, "Bob": 100}}, lt.nodeA.RetrieveLatestBlock()))
			},
			status: http.StatusUnprocessableEntity,
			kind:   database.KindInvalidTransaction,
		},
		{
			name: "tampered",
			body: func() []byte {
				blk := database.NewBlock([]database.Tx{{"Alice": -1, "Bob": 1}}, lt.nodeA.RetrieveLatestBlock())
				blk.Contents.Trans[0] = database.Tx{"Alice": -2, "Bob": 2}
				return wrap(blk)
			},
			status: http.StatusUnprocessableEntity,
			kind:   database.KindHashMismatch,
		},
		{
			name:   "malformed",
			body:   func() []byte { return []byte(`{"block":[1,2]}`) },
			status: http.StatusBadRequest,
			kind:   database.KindMalformedInput,
		},
	}

	t.Log("Given the need to reject bad blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen the %s block is proposed.", testID, tst.name)
			{
				before := lt.nodeA.RetrieveLatestBlock()

				w := lt.do(http.MethodPost, "/v1/blocks/propose", tst.body())
				if w.Code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould receive a status code of %d for the response : %v", failed, testID, tst.status, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a status code of %d for the response.", success, testID, tst.status)

				var got errs.Response
				if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
				}
				if got.Kind != tst.kind {
					t.Fatalf("\t%s\tTest %d:\tShould report the %s kind, got %q.", failed, testID, tst.kind, got.Kind)
				}
				t.Logf("\t%s\tTest %d:\tShould report the %s kind.", success, testID, tst.kind)

				if lt.nodeA.RetrieveLatestBlock().Hash != before.Hash {
					t.Fatalf("\t%s\tTest %d:\tShould leave the chain unchanged.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould leave the chain unchanged.", success, testID)
			}
		}
	}
}

func (lt ledgerTests) checkChain(t *testing.T) {
	t.Log("Given the need to check a chain in its text form.")
	{
		t.Logf("\tTest 0:\tWhen sending the node's own chain.")
		{
			blocks, err := lt.nodeA.RetrieveChain()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to retrieve the chain : %v", failed, err)
			}
			data, _ := database.MarshalChain(blocks)

			w := lt.do(http.MethodPost, "/v1/chain/check", data)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v : %s", failed, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)
		}

		t.Logf("\tTest 1:\tWhen sending text that is not a chain.")
		{
			w := lt.do(http.MethodPost, "/v1/chain/check", []byte(`{"not":"a chain"}`))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 400 for the response : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a status code of 400 for the response.", success)
		}
	}
}

func (lt ledgerTests) submitAndMine(t *testing.T) {
	t.Log("Given the need to submit transactions and mine them.")
	{
		t.Logf("\tTest 0:\tWhen submitting a transfer.")
		{
			w := lt.do(http.MethodPost, "/v1/tx/submit", []byte(`{"tx":{"Alice":-5,"Bob":5}}`))
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v : %s", failed, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)

			w = lt.do(http.MethodPost, "/v1/blocks/mine", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block : %v : %s", failed, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the block.", success)

			w = lt.do(http.MethodPost, "/v1/blocks/mine", nil)
			if w.Code != http.StatusConflict {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 409 with an empty mempool : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 409 with an empty mempool.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting an empty transaction.")
		{
			w := lt.do(http.MethodPost, "/v1/tx/submit", []byte(`{"tx":{}}`))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 400 for the response : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a status code of 400 for the response.", success)
		}
	}
}

func (lt ledgerTests) verify(t *testing.T) {
	t.Log("Given the need to verify the node's chain.")
	{
		t.Logf("\tTest 0:\tWhen the chain was grown through the API.")
		{
			w := lt.do(http.MethodGet, "/v1/chain/verify", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v : %s", failed, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)

			var got struct {
				Valid  bool             `json:"valid"`
				Blocks int              `json:"blocks"`
				State  map[string]int64 `json:"state"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the response : %v", failed, err)
			}
			if !got.Valid || got.Blocks != 3 || got.State["Alice"] != 35 || got.State["Bob"] != 65 {
				t.Fatalf("\t%s\tTest 0:\tShould report the replayed state, got %+v.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould report the replayed state.", success)
		}
	}
}
