// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/avalanchego/database/memdb"
)

func TestFactoryDefaultsToMemDB(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	factory := &Factory{Config: DefaultConfig()}
	vm, err := factory.New(ctx)
	require.NoError(err)
	require.NoError(vm.Deploy("c1", emptyModule()))
	require.NoError(vm.Shutdown(ctx))

	// each VM gets its own database and registry
	vm, err = factory.New(ctx)
	require.NoError(err)
	_, err = vm.GetContract("c1")
	require.ErrorIs(err, ErrContractNotFound)
	require.NoError(vm.Shutdown(ctx))
}

func TestFactorySharedDatabase(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := memdb.New()

	factory := &Factory{Config: DefaultConfig(), DB: db, Registerer: prometheus.NewRegistry()}
	vm, err := factory.New(ctx)
	require.NoError(err)
	require.NoError(vm.Deploy("c1", emptyModule()))
	require.NoError(vm.Shutdown(ctx))

	factory.Registerer = prometheus.NewRegistry()
	vm, err = factory.New(ctx)
	require.NoError(err)
	contract, err := vm.GetContract("c1")
	require.NoError(err)
	require.Equal(emptyModule(), contract.Code)
	require.Zero(vm.GasUsed())
	require.NoError(vm.Shutdown(ctx))
}
