// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

func TestEngineModuleCacheEviction(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	compiles := prometheus.NewCounter(prometheus.CounterOpts{Name: "compiles"})
	e, err := newEngine(ctx, false, 1, compiles)
	require.NoError(err)
	defer func() {
		require.NoError(e.close(ctx))
	}()

	pure, empty := pureModule(), emptyModule()
	pureID, emptyID := ids.ID(hashing.ComputeHash256Array(pure)), ids.ID(hashing.ComputeHash256Array(empty))

	first, err := e.compile(ctx, pureID, pure)
	require.NoError(err)
	cached, err := e.compile(ctx, pureID, pure)
	require.NoError(err)
	require.Equal(first, cached)
	require.Equal(float64(1), testutil.ToFloat64(compiles))

	// The cache holds one module, so this closes the first one.
	_, err = e.compile(ctx, emptyID, empty)
	require.NoError(err)
	require.Equal(float64(2), testutil.ToFloat64(compiles))

	recompiled, err := e.compile(ctx, pureID, pure)
	require.NoError(err)
	require.Equal(float64(3), testutil.ToFloat64(compiles))

	mod, err := e.instantiate(ctx, recompiled)
	require.NoError(err)
	results, err := mod.ExportedFunction("answer").Call(ctx)
	require.NoError(err)
	require.Equal([]uint64{42}, results)
	require.NoError(mod.Close(ctx))
}

func TestCompiledModuleEvict(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	compiles := prometheus.NewCounter(prometheus.CounterOpts{Name: "compiles"})
	e, err := newEngine(ctx, false, 2, compiles)
	require.NoError(err)
	defer func() {
		require.NoError(e.close(ctx))
	}()

	code := pureModule()
	codeID := ids.ID(hashing.ComputeHash256Array(code))
	compiled, err := e.compile(ctx, codeID, code)
	require.NoError(err)

	entry := &compiledModule{codeID: codeID, module: compiled}
	entry.Evict()
	require.Nil(entry.module)
	// evicting twice is a no-op
	entry.Evict()
}

func TestEngineFailedCompileIsRetried(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	compiles := prometheus.NewCounter(prometheus.CounterOpts{Name: "compiles"})
	e, err := newEngine(ctx, false, 4, compiles)
	require.NoError(err)
	defer func() {
		require.NoError(e.close(ctx))
	}()

	code := corruptModule()
	codeID := ids.ID(hashing.ComputeHash256Array(code))
	_, err = e.compile(ctx, codeID, code)
	require.Error(err)
	_, err = e.compile(ctx, codeID, code)
	require.Error(err)
	require.Equal(float64(2), testutil.ToFloat64(compiles))
}
