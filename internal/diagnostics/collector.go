package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// COMPILER_ERROR_FOUND is the sentinel returned by compiler stages
// when one or more diagnostics were collected. The details live in
// the collector, not in the error value.
var COMPILER_ERROR_FOUND error = errors.New("compiler error found")

// Collector accumulates rendered diagnostics. Independent files
// parse in parallel and share one collector, so reporting locks.
type Collector struct {
	Diags []Diag

	mu  sync.Mutex
	out io.Writer
}

func New() *Collector {
	return &Collector{out: os.Stderr}
}

// NewWithOutput directs rendered diagnostics to w. Tests pass
// io.Discard to keep output quiet while still recording Diags.
func NewWithOutput(w io.Writer) *Collector {
	return &Collector{out: w}
}

func (collector *Collector) ReportAndSave(diag Diag) {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	fmt.Fprintln(collector.out, Render(diag))
	collector.Diags = append(collector.Diags, diag)
}

func (collector *Collector) HasErrors() bool {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	return len(collector.Diags) > 0
}
