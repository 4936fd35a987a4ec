// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// callSandbox runs [method] as a wasm export of [contract].
//
// Compile, instantiate and invoke failures don't fail the call: they come
// back as results with a diagnostic Outcome and leave storage untouched.
// Gas errors and database errors are returned as errors.
func (vm *VM) callSandbox(ctx context.Context, contract *Contract, method string, args []string) (Result, error) {
	if err := vm.consume(vm.config.Gas.ExecBase); err != nil {
		return Result{}, err
	}

	compiled, err := vm.hosted.compile(ctx, contract.CodeID, contract.Code)
	if err != nil {
		vm.log.Debug("failed to compile contract", "address", contract.Address, "err", err)
		return vm.diagnostic(OutcomeCompileFallback, "wasm execution fallback for method '%s' with %d args", method, len(args)), nil
	}

	sess := newSession(contract.Storage, vm.gas.Remaining(), vm.config.Gas.StorageWrite)
	sessCtx := withSession(ctx, sess)

	mod, err := vm.hosted.instantiate(sessCtx, compiled)
	if err != nil {
		return vm.diagnostic(OutcomeInstantiateFailed, "wasm instantiation failed: %s", err), nil
	}
	defer vm.closeModule(ctx, contract.Address, mod)

	if err := vm.consume(vm.config.Gas.Instantiate); err != nil {
		return Result{}, err
	}

	fn := mod.ExportedFunction(method)
	if fn == nil {
		return vm.diagnostic(OutcomeMethodNotFound, "method '%s' not found in wasm exports", method), nil
	}

	results, err := fn.Call(sessCtx)
	if err != nil {
		return vm.diagnostic(OutcomeInvocationFailed, "wasm execution error: %s", err), nil
	}

	// The snapshot replaces the contract's storage as a whole.
	contract.Storage = sess.storage
	if err := vm.state.PutContract(contract); err != nil {
		return Result{}, err
	}
	vm.log.Debug("sandbox call returned",
		"address", contract.Address,
		"method", method,
		"sessionGas", sess.gasUsed,
		"remaining", sess.remaining,
	)
	if err := vm.consume(sess.gasUsed); err != nil {
		return Result{}, err
	}

	resultTypes := fn.Definition().ResultTypes()
	if len(results) > 0 && len(resultTypes) > 0 && resultTypes[0] == api.ValueTypeI32 {
		return newOutput("wasm execution result: %d", api.DecodeI32(results[0])), nil
	}
	return newOutput("wasm execution completed"), nil
}

// executeRaw compiles and instantiates [contract] with no host imports and
// reports the size of [input]. Nothing is invoked and no state is written.
func (vm *VM) executeRaw(ctx context.Context, contract *Contract, input []byte) (Result, error) {
	if err := vm.consume(vm.config.Gas.ExecBase); err != nil {
		return Result{}, err
	}

	compiled, err := vm.bare.compile(ctx, contract.CodeID, contract.Code)
	if err != nil {
		return vm.diagnostic(OutcomeCompileFallback, "wasm compilation error: %s, using fallback", err), nil
	}

	mod, err := vm.bare.instantiate(ctx, compiled)
	if err != nil {
		return vm.diagnostic(OutcomeInstantiateFailed, "wasm instantiation error: %s", err), nil
	}
	vm.closeModule(ctx, contract.Address, mod)

	if err := vm.consume(vm.config.Gas.Instantiate); err != nil {
		return Result{}, err
	}
	return newOutput("wasm executed for %d bytes input", len(input)), nil
}

func (vm *VM) diagnostic(outcome Outcome, format string, args ...interface{}) Result {
	msg := fmt.Sprintf(format, args...)
	vm.metrics.diagnostics.WithLabelValues(outcome.String()).Inc()
	vm.log.Debug("returning sandbox diagnostic", "outcome", outcome, "msg", msg)
	return Result{Outcome: outcome, Output: []byte(msg)}
}

func (vm *VM) closeModule(ctx context.Context, address string, mod api.Module) {
	if err := mod.Close(ctx); err != nil {
		vm.log.Debug("failed to close module instance", "address", address, "err", err)
	}
}
