// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAddress    = errors.New("contract already exists at address")
	ErrInvalidFormat       = errors.New("invalid wasm magic number")
	ErrCodeTooLarge        = errors.New("wasm module too large")
	ErrContractNotFound    = errors.New("contract not found")
	ErrOutOfGas            = errors.New("out of gas")
	ErrMissingArgument     = errors.New("missing argument")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// OutOfGasError reports the meter state at the moment the limit was crossed.
// It matches ErrOutOfGas with errors.Is.
type OutOfGasError struct {
	Used  uint64
	Limit uint64
}

func (e *OutOfGasError) Error() string {
	return fmt.Sprintf("%s: used %d / %d", ErrOutOfGas, e.Used, e.Limit)
}

func (e *OutOfGasError) Is(target error) bool { return target == ErrOutOfGas }
