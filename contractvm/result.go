// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import "fmt"

// Outcome tells genuine output apart from the diagnostics the execution bridge
// returns instead of failing when a module can't be compiled, instantiated or
// invoked.
type Outcome uint8

const (
	OutcomeOutput Outcome = iota
	OutcomeCompileFallback
	OutcomeInstantiateFailed
	OutcomeMethodNotFound
	OutcomeInvocationFailed
)

func (o Outcome) IsDiagnostic() bool { return o != OutcomeOutput }

func (o Outcome) String() string {
	switch o {
	case OutcomeOutput:
		return "output"
	case OutcomeCompileFallback:
		return "compileFallback"
	case OutcomeInstantiateFailed:
		return "instantiateFailed"
	case OutcomeMethodNotFound:
		return "methodNotFound"
	case OutcomeInvocationFailed:
		return "invocationFailed"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Result is what a call produces. Diagnostics are results too: callers that
// only look at Output see the same text either way.
type Result struct {
	Outcome Outcome
	Output  []byte
}

func (r Result) String() string { return string(r.Output) }

func newOutput(format string, args ...interface{}) Result {
	return Result{Outcome: OutcomeOutput, Output: []byte(fmt.Sprintf(format, args...))}
}
