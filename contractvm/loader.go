// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"bytes"
	"fmt"
)

// wasmMagic is the preamble of every WebAssembly binary.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// verifyModule only checks the magic number. A module with a valid preamble
// and a broken body is still accepted; calls into it fall back to a
// diagnostic result.
func verifyModule(code []byte) error {
	if !bytes.HasPrefix(code, wasmMagic) {
		return ErrInvalidFormat
	}
	return nil
}

// Deploy registers a copy of [code] under [address] with an empty storage and
// a zero balance. The contract is only registered if the deployment charge fits in
// the gas budget.
func (vm *VM) Deploy(address string, code []byte) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	exists, err := vm.state.HasContract(address)
	if err != nil {
		return fmt.Errorf("failed to look up contract %s: %w", address, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAddress, address)
	}
	if err := verifyModule(code); err != nil {
		return err
	}
	if len(code) > vm.config.MaxCodeSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrCodeTooLarge, len(code), vm.config.MaxCodeSize)
	}

	contract := newContract(address, code)
	if err := vm.state.PutContract(contract); err != nil {
		vm.state.Abort()
		return err
	}
	if err := vm.consume(vm.config.Gas.Deploy); err != nil {
		vm.state.Abort()
		return err
	}
	if err := vm.state.Commit(); err != nil {
		return fmt.Errorf("failed to commit contract %s: %w", address, err)
	}

	vm.metrics.deploys.Inc()
	vm.log.Info("deployed contract", "address", address, "codeID", contract.CodeID, "size", len(code))
	return nil
}
