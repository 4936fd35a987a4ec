// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/cache/metercacher"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/avalanchego/version"
)

const Name = "contractvm"

var Version = &version.Semantic{Major: 1, Minor: 0, Patch: 0}

// VM deploys wasm contracts and runs calls against them under a single gas
// budget. Calls are processed one at a time; the gas meter only ever grows and
// is reset by building a new VM.
type VM struct {
	lock sync.Mutex

	config  Config
	log     log.Logger
	metrics *metrics

	state State
	gas   *GasMeter

	// hosted runs contract methods with the storage host module linked in.
	hosted *engine
	// bare runs raw executions, which get no host imports.
	bare *engine
}

// New returns a VM over a fresh in-memory database with its own metrics
// registry.
func New(ctx context.Context, config Config) (*VM, error) {
	return NewWithDatabase(ctx, config, memdb.New(), prometheus.NewRegistry())
}

// NewWithDatabase returns a VM whose contracts are stored in [db] and whose
// metrics are registered with [registerer].
func NewWithDatabase(
	ctx context.Context,
	config Config,
	db database.Database,
	registerer prometheus.Registerer,
) (*VM, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}

	m, err := newMetrics(config.MetricsNamespace, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	contractCache, err := metercacher.New(
		metricNamespace(config.MetricsNamespace, "contract_cache"),
		registerer,
		&cache.LRU{Size: config.ContractCacheSize},
	)
	if err != nil {
		return nil, err
	}
	hosted, err := newEngine(ctx, true, config.ModuleCacheSize, m.compiles.WithLabelValues("hosted"))
	if err != nil {
		return nil, err
	}
	bare, err := newEngine(ctx, false, config.ModuleCacheSize, m.compiles.WithLabelValues("bare"))
	if err != nil {
		_ = hosted.close(ctx)
		return nil, err
	}

	vm := &VM{
		config:  config,
		log:     log.New("module", Name),
		metrics: m,
		state:   NewState(db, contractCache),
		gas:     NewGasMeter(config.GasLimit),
		hosted:  hosted,
		bare:    bare,
	}
	vm.log.Info("Initializing contract VM", "Version", Version, "gasLimit", config.GasLimit)
	return vm, nil
}

// Call runs [method] on the contract at [address]. Built-in methods are
// handled by the VM; anything else is looked up among the contract's wasm
// exports.
func (vm *VM) Call(ctx context.Context, address string, method string, args []string) (Result, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	contract, err := vm.state.GetContract(address)
	if err != nil {
		return Result{}, err
	}
	if err := vm.consume(vm.config.Gas.CallBase); err != nil {
		return Result{}, err
	}
	contract = contract.update()

	var result Result
	if b, ok := lookupBuiltin(method); ok {
		vm.metrics.calls.WithLabelValues("builtin").Inc()
		result, err = vm.callBuiltin(contract, b, args)
	} else {
		vm.metrics.calls.WithLabelValues("sandbox").Inc()
		result, err = vm.callSandbox(ctx, contract, method, args)
	}
	return result, vm.commit(err)
}

// Execute instantiates the contract's module without host imports and
// acknowledges [input]. No export is invoked.
func (vm *VM) Execute(ctx context.Context, address string, input []byte) (Result, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	contract, err := vm.state.GetContract(address)
	if err != nil {
		return Result{}, err
	}
	vm.metrics.calls.WithLabelValues("raw").Inc()
	return vm.executeRaw(ctx, contract, input)
}

// Deposit credits [amount] to the contract at [address]. Deposits are not
// metered.
func (vm *VM) Deposit(address string, amount uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	contract, err := vm.state.GetContract(address)
	if err != nil {
		return err
	}
	balance, err := math.Add64(contract.Balance, amount)
	if err != nil {
		return fmt.Errorf("%w: %d + %d", ErrBalanceOverflow, contract.Balance, amount)
	}
	contract = contract.update()
	contract.Balance = balance
	if err := vm.state.PutContract(contract); err != nil {
		vm.state.Abort()
		return err
	}
	return vm.commit(nil)
}

// GetContract returns a copy of the contract at [address].
func (vm *VM) GetContract(address string) (*Contract, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	contract, err := vm.state.GetContract(address)
	if err != nil {
		return nil, err
	}
	return contract.Copy(), nil
}

func (vm *VM) GasUsed() uint64 {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.gas.Used()
}

func (vm *VM) GasLimit() uint64 { return vm.gas.Limit() }

// Returns this VM's version
func (vm *VM) Version() string { return Version.String() }

// Shutdown releases both wasm runtimes and closes the database.
func (vm *VM) Shutdown(ctx context.Context) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	errs := wrappers.Errs{}
	errs.Add(
		vm.hosted.close(ctx),
		vm.bare.close(ctx),
		vm.state.Close(),
	)
	return errs.Err
}

// consume charges the gas meter and keeps the metrics in step with it.
func (vm *VM) consume(amount uint64) error {
	err := vm.gas.Consume(amount)
	vm.metrics.gasUsed.Set(float64(vm.gas.Used()))
	if err != nil {
		vm.metrics.outOfGas.Inc()
		vm.log.Debug("out of gas", "amount", amount, "used", vm.gas.Used(), "limit", vm.gas.Limit())
	}
	return err
}

// commit flushes whatever the call wrote, including writes made before a
// failed gas charge, and then returns [err].
func (vm *VM) commit(err error) error {
	if commitErr := vm.state.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit state: %w", commitErr)
	}
	return err
}
