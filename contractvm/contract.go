// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"sort"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

// Contract is an address-keyed record of wasm code, persistent key-value
// storage and a balance. Contracts are created by Deploy and never removed.
type Contract struct {
	Address string
	// CodeID is the SHA-256 of Code. Compiled modules are cached under it.
	CodeID  ids.ID
	Code    []byte
	Storage map[string]string
	Balance uint64
}

// newContract keeps its own copy of [code], so the caller may reuse the slice.
func newContract(address string, code []byte) *Contract {
	owned := make([]byte, len(code))
	copy(owned, code)
	return &Contract{
		Address: address,
		CodeID:  ids.ID(hashing.ComputeHash256Array(owned)),
		Code:    owned,
		Storage: make(map[string]string),
	}
}

// Copy returns a deep copy of [c].
func (c *Contract) Copy() *Contract {
	code := make([]byte, len(c.Code))
	copy(code, c.Code)
	return &Contract{
		Address: c.Address,
		CodeID:  c.CodeID,
		Code:    code,
		Storage: copyStorage(c.Storage),
		Balance: c.Balance,
	}
}

// update returns a copy of [c] that can be modified and handed to
// PutContract without touching the cached record. Code is shared since it is
// never written after Deploy.
func (c *Contract) update() *Contract {
	return &Contract{
		Address: c.Address,
		CodeID:  c.CodeID,
		Code:    c.Code,
		Storage: copyStorage(c.Storage),
		Balance: c.Balance,
	}
}

func copyStorage(storage map[string]string) map[string]string {
	cp := make(map[string]string, len(storage))
	for k, v := range storage {
		cp[k] = v
	}
	return cp
}

// storedContract is the codec form of a Contract. Storage is flattened into
// entries sorted by key so the encoding is deterministic. Keys and values are
// byte slices because the codec caps strings at 64 KiB.
type storedContract struct {
	Address string         `serialize:"true"`
	CodeID  ids.ID         `serialize:"true"`
	Code    []byte         `serialize:"true"`
	Storage []storageEntry `serialize:"true"`
	Balance uint64         `serialize:"true"`
}

type storageEntry struct {
	Key   []byte `serialize:"true"`
	Value []byte `serialize:"true"`
}

func (c *Contract) stored() *storedContract {
	keys := make([]string, 0, len(c.Storage))
	for k := range c.Storage {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]storageEntry, len(keys))
	for i, k := range keys {
		entries[i] = storageEntry{Key: []byte(k), Value: []byte(c.Storage[k])}
	}
	return &storedContract{
		Address: c.Address,
		CodeID:  c.CodeID,
		Code:    c.Code,
		Storage: entries,
		Balance: c.Balance,
	}
}

func (s *storedContract) contract() *Contract {
	storage := make(map[string]string, len(s.Storage))
	for _, entry := range s.Storage {
		storage[string(entry.Key)] = string(entry.Value)
	}
	return &Contract{
		Address: s.Address,
		CodeID:  s.CodeID,
		Code:    s.Code,
		Storage: storage,
		Balance: s.Balance,
	}
}
