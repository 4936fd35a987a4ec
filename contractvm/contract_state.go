// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
)

var (
	errContractWrongVersion = errors.New("wrong version")

	_ ContractState = &contractState{}
)

// ContractState is the address-keyed contract registry.
//
// The *Contract returned by GetContract is the cached record and must not be
// modified. Changes are made on a copy and handed to PutContract, which only
// caches the copy once it has been encoded and written.
type ContractState interface {
	HasContract(address string) (bool, error)
	GetContract(address string) (*Contract, error)
	PutContract(contract *Contract) error

	ClearCache()
}

type contractState struct {
	contractCache cache.Cacher
	contractDB    database.Database
}

func NewContractState(db database.Database, cacher cache.Cacher) ContractState {
	return &contractState{
		contractCache: cacher,
		contractDB:    db,
	}
}

func (s *contractState) HasContract(address string) (bool, error) {
	if _, ok := s.contractCache.Get(address); ok {
		return true, nil
	}
	return s.contractDB.Has([]byte(address))
}

func (s *contractState) GetContract(address string) (*Contract, error) {
	if contractIntf, ok := s.contractCache.Get(address); ok {
		return contractIntf.(*Contract), nil
	}

	contractBytes, err := s.contractDB.Get([]byte(address))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, address)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract %s: %w", address, err)
	}

	stored := storedContract{}
	parsedVersion, err := Codec.Unmarshal(contractBytes, &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract %s: %w", address, err)
	}
	if parsedVersion != CodecVersion {
		return nil, errContractWrongVersion
	}

	contract := stored.contract()
	s.contractCache.Put(address, contract)
	return contract, nil
}

func (s *contractState) PutContract(contract *Contract) error {
	bytes, err := Codec.Marshal(CodecVersion, contract.stored())
	if err != nil {
		return fmt.Errorf("failed to marshal contract %s: %w", contract.Address, err)
	}

	if err := s.contractDB.Put([]byte(contract.Address), bytes); err != nil {
		return fmt.Errorf("failed to put contract %s: %w", contract.Address, err)
	}
	s.contractCache.Put(contract.Address, contract)
	return nil
}

func (s *contractState) ClearCache() {
	s.contractCache.Flush()
}
