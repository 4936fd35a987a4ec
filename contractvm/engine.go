// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/ids"
)

var _ cache.Evictable = &compiledModule{}

// compiledModule is a cache entry for the module compiled from the code with
// hash [codeID]. [module] is nil until compilation succeeds.
type compiledModule struct {
	codeID ids.ID
	module wazero.CompiledModule
}

func (m *compiledModule) Key() interface{} { return m.codeID }

// Evict releases the compiled code held by the runtime.
func (m *compiledModule) Evict() {
	if m.module != nil {
		_ = m.module.Close(context.Background())
		m.module = nil
	}
}

// engine is a wazero runtime plus a cache of the modules compiled on it.
// Compiled modules belong to the runtime that produced them, so every engine
// keeps its own cache.
type engine struct {
	runtime  wazero.Runtime
	modules  *cache.EvictableLRU
	compiles prometheus.Counter
}

// newEngine builds a runtime holding at most [cacheSize] compiled modules.
// When [withHost] is set the "env" host module is instantiated so contracts
// can import the storage functions; otherwise modules with imports fail to
// instantiate.
//
// The runtime is not closed on context cancellation: a guest that never
// returns blocks its caller.
func newEngine(ctx context.Context, withHost bool, cacheSize int, compiles prometheus.Counter) (*engine, error) {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	if withHost {
		if err := instantiateHostModule(ctx, r); err != nil {
			_ = r.Close(ctx)
			return nil, fmt.Errorf("failed to instantiate host module: %w", err)
		}
	}
	return &engine{
		runtime:  r,
		modules:  &cache.EvictableLRU{Size: cacheSize},
		compiles: compiles,
	}, nil
}

// compile returns the cached module for [codeID], compiling [code] on a miss.
// Pushing a new entry out of the cache closes the least recently used one.
func (e *engine) compile(ctx context.Context, codeID ids.ID, code []byte) (wazero.CompiledModule, error) {
	entry := e.modules.Deduplicate(&compiledModule{codeID: codeID}).(*compiledModule)
	if entry.module != nil {
		return entry.module, nil
	}

	e.compiles.Inc()
	compiled, err := e.runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, err
	}
	entry.module = compiled
	return compiled, nil
}

// instantiate creates an anonymous instance, so the same compiled module can
// be instantiated once per call without name clashes. Start functions are
// not run; only the invoked export executes.
func (e *engine) instantiate(ctx context.Context, compiled wazero.CompiledModule) (api.Module, error) {
	return e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("").WithStartFunctions())
}

func (e *engine) close(ctx context.Context) error {
	e.modules.Flush()
	return e.runtime.Close(ctx)
}
