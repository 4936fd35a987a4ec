// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	defaultGasLimit          = 10_000_000
	defaultContractCacheSize = 1024
	defaultModuleCacheSize   = 64
	defaultMaxCodeSize       = 512 * units.MiB
)

var (
	errZeroCacheSize   = errors.New("cache sizes must be positive")
	errInvalidCodeSize = errors.New("max code size out of range")
)

// GasSchedule is the fixed cost charged for each metered step.
type GasSchedule struct {
	Deploy      uint64 `json:"deploy"`
	CallBase    uint64 `json:"callBase"`
	StorageSet  uint64 `json:"storageSet"`
	Transfer    uint64 `json:"transfer"`
	ExecBase    uint64 `json:"execBase"`
	Instantiate uint64 `json:"instantiate"`
	// StorageWrite is charged to the session counter for every storage_set
	// issued from inside the sandbox.
	StorageWrite uint64 `json:"storageWrite"`
}

// DefaultGasSchedule returns the costs the VM has always charged.
func DefaultGasSchedule() GasSchedule {
	return GasSchedule{
		Deploy:       21000,
		CallBase:     3000,
		StorageSet:   5000,
		Transfer:     10000,
		ExecBase:     1000,
		Instantiate:  10000,
		StorageWrite: 5000,
	}
}

// Config is the VM configuration. It is usually parsed from the config bytes
// handed to the binary.
type Config struct {
	GasLimit          uint64      `json:"gasLimit"`
	Gas               GasSchedule `json:"gas"`
	ContractCacheSize int         `json:"contractCacheSize"`
	ModuleCacheSize   int         `json:"moduleCacheSize"`
	// MaxCodeSize is the largest module Deploy accepts, in bytes.
	MaxCodeSize int `json:"maxCodeSize"`
	// MetricsNamespace prefixes every metric this VM registers.
	MetricsNamespace string `json:"metricsNamespace"`
}

func DefaultConfig() Config {
	return Config{
		GasLimit:          defaultGasLimit,
		Gas:               DefaultGasSchedule(),
		ContractCacheSize: defaultContractCacheSize,
		ModuleCacheSize:   defaultModuleCacheSize,
		MaxCodeSize:       defaultMaxCodeSize,
		MetricsNamespace:  Name,
	}
}

// ParseConfig overlays [configBytes] on top of DefaultConfig. Empty input
// yields the defaults.
func ParseConfig(configBytes []byte) (Config, error) {
	config := DefaultConfig()
	if len(configBytes) == 0 {
		return config, nil
	}
	if err := json.Unmarshal(configBytes, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, config.Verify()
}

func (c Config) Verify() error {
	if c.ContractCacheSize <= 0 || c.ModuleCacheSize <= 0 {
		return fmt.Errorf("%w: contract=%d module=%d", errZeroCacheSize, c.ContractCacheSize, c.ModuleCacheSize)
	}
	if c.MaxCodeSize <= 0 || c.MaxCodeSize > maxRecordSize/2 {
		return fmt.Errorf("%w: %d", errInvalidCodeSize, c.MaxCodeSize)
	}
	return nil
}
