// Package digest provides the content hashing used to identify and link
// blocks on the ledger.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is returned when a value
// can't be serialized.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value. Strings are hashed as is,
// everything else is hashed over its canonical form.
func Hash(value any) string {
	var data []byte

	switch v := value.(type) {
	case string:
		data = []byte(v)

	default:
		var err error
		if data, err = Canonical(value); err != nil {
			return ZeroHash
		}
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Canonical serializes the value into JSON where every object, at every
// level of nesting, has its keys in sorted order. Two values that are
// structurally equal produce the same bytes regardless of how they were
// constructed.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Struct fields marshal in declaration order. Decoding into generic
	// values turns every object into a map, and maps marshal sorted.
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var generic any
	if err := d.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
