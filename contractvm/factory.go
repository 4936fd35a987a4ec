// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/database"
)

// Factory builds VMs that share a config, a database and a metrics registry.
// Only one VM built by a Factory may be alive at a time since each registers
// the same metric names.
type Factory struct {
	Config     Config
	DB         database.Database
	Registerer prometheus.Registerer
}

// New builds a VM from the factory's fields. Unless both DB and Registerer
// are set, the VM gets a fresh in-memory database and a private registry.
func (f *Factory) New(ctx context.Context) (*VM, error) {
	if f.DB == nil || f.Registerer == nil {
		return New(ctx, f.Config)
	}
	return NewWithDatabase(ctx, f.Config, f.DB, f.Registerer)
}
