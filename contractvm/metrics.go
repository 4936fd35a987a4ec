// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

type metrics struct {
	deploys     prometheus.Counter
	calls       *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	outOfGas    prometheus.Counter
	gasUsed     prometheus.Gauge
	compiles    *prometheus.CounterVec
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		deploys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deploys",
			Help:      "Number of contracts deployed",
		}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls",
			Help:      "Number of contract calls by dispatch kind",
		}, []string{"kind"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics",
			Help:      "Number of sandbox failures reported as diagnostic results",
		}, []string{"outcome"}),
		outOfGas: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "out_of_gas",
			Help:      "Number of charges that crossed the gas limit",
		}),
		gasUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gas_used",
			Help:      "Gas consumed since the VM was created",
		}),
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_compiles",
			Help:      "Number of wasm compilations by engine, excluding module cache hits",
		}, []string{"engine"}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.deploys),
		registerer.Register(m.calls),
		registerer.Register(m.diagnostics),
		registerer.Register(m.outOfGas),
		registerer.Register(m.gasUsed),
		registerer.Register(m.compiles),
	)
	return m, errs.Err
}

// metricNamespace joins the non-empty parts with "_".
func metricNamespace(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, "_")
}
