// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"fmt"
	"strconv"
)

// builtin is a method the VM handles itself instead of entering the sandbox.
type builtin uint8

const (
	getBalance builtin = iota + 1
	getStorage
	setStorage
	transfer
)

var builtins = map[string]builtin{
	"get_balance": getBalance,
	"get_storage": getStorage,
	"set_storage": setStorage,
	"transfer":    transfer,
}

func lookupBuiltin(method string) (builtin, bool) {
	b, ok := builtins[method]
	return b, ok
}

func (b builtin) String() string {
	for name, candidate := range builtins {
		if candidate == b {
			return name
		}
	}
	return fmt.Sprintf("builtin(%d)", uint8(b))
}

// callBuiltin runs [b] against [contract]. The base call cost has already been
// charged. Mutations are written before their extra charge, so running out of
// gas on that charge leaves them in place.
func (vm *VM) callBuiltin(contract *Contract, b builtin, args []string) (Result, error) {
	switch b {
	case getBalance:
		return newOutput("%d", contract.Balance), nil

	case getStorage:
		if len(args) < 1 {
			return Result{}, fmt.Errorf("%w: storage key", ErrMissingArgument)
		}
		return newOutput("%s", contract.Storage[args[0]]), nil

	case setStorage:
		if len(args) < 2 {
			return Result{}, fmt.Errorf("%w: storage key or value", ErrMissingArgument)
		}
		key, value := args[0], args[1]
		contract.Storage[key] = value
		if err := vm.state.PutContract(contract); err != nil {
			return Result{}, err
		}
		if err := vm.consume(vm.config.Gas.StorageSet); err != nil {
			return Result{}, err
		}
		return newOutput("Storage set: %s = %s", key, value), nil

	case transfer:
		if len(args) < 1 {
			return Result{}, fmt.Errorf("%w: amount", ErrMissingArgument)
		}
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			// Malformed amounts have always been treated as zero.
			vm.log.Warn("treating malformed transfer amount as zero", "address", contract.Address, "amount", args[0])
			amount = 0
		}
		if contract.Balance < amount {
			return Result{}, fmt.Errorf("%w: balance %d < %d", ErrInsufficientBalance, contract.Balance, amount)
		}
		contract.Balance -= amount
		if err := vm.state.PutContract(contract); err != nil {
			return Result{}, err
		}
		if err := vm.consume(vm.config.Gas.Transfer); err != nil {
			return Result{}, err
		}
		return newOutput("Transferred: %d", amount), nil

	default:
		return Result{}, fmt.Errorf("unhandled builtin %s", b)
	}
}
