// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	contractStatePrefix = []byte("contract")

	_ State = &state{}
)

// State is a wrapper around ContractState that batches writes in a versiondb.
// Nothing reaches the underlying database until Commit; Abort drops every
// pending write.
type State interface {
	ContractState

	Commit() error
	Abort()
	Close() error
}

type state struct {
	ContractState

	baseDB *versiondb.Database
}

// NewState returns a state over [db]. Decoded contracts are kept in [cacher].
func NewState(db database.Database, cacher cache.Cacher) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	// create a prefixed "contractDB" from baseDB
	contractDB := prefixdb.New(contractStatePrefix, baseDB)

	return &state{
		ContractState: NewContractState(contractDB, cacher),
		baseDB:        baseDB,
	}
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards pending operations. The contract cache may hold records that
// were never committed, so it is flushed as well.
func (s *state) Abort() {
	s.baseDB.Abort()
	s.ClearCache()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}
