// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	hostModuleName = "env"

	storageGetName = "storage_get"
	storageSetName = "storage_set"
)

var errNoSession = errors.New("host function called outside of an execution session")

// instantiateHostModule registers the only two functions a contract can import.
// Both operate on the session carried by the call's context.
//
// Keys and values cross the boundary as i32 and are stored in decimal form.
// Passing (ptr, len) pairs into linear memory would allow arbitrary byte
// keys; contracts compiled against this ABI can't express that.
func instantiateHostModule(ctx context.Context, r wazero.Runtime) error {
	_, err := r.NewHostModuleBuilder(hostModuleName).
		NewFunctionBuilder().
		WithGoFunction(api.GoFunc(storageGet), []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		WithParameterNames("key").
		Export(storageGetName).
		NewFunctionBuilder().
		WithGoFunction(api.GoFunc(storageSet), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{}).
		WithParameterNames("key", "value").
		Export(storageSetName).
		Instantiate(ctx)
	return err
}

func storageGet(ctx context.Context, stack []uint64) {
	s := mustSession(ctx)
	stack[0] = api.EncodeI32(s.get(api.DecodeI32(stack[0])))
}

func storageSet(ctx context.Context, stack []uint64) {
	s := mustSession(ctx)
	s.set(api.DecodeI32(stack[0]), api.DecodeI32(stack[1]))
}

// mustSession panics without a session; wazero turns the panic into an error
// returned from the guest call.
func mustSession(ctx context.Context) *session {
	s, ok := sessionFromContext(ctx)
	if !ok {
		panic(errNoSession)
	}
	return s
}
