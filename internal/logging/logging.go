// Package logging provides a categorized, zap-backed logger shared by every
// core package: one zap.Logger per process with a "category" structured
// field, rather than a log file per category, since nothing in this domain
// re-reads logs back programmatically.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category identifies the subsystem emitting a log line.
type Category string

const (
	CategoryConstraint  Category = "constraint"
	CategoryParser      Category = "parser"
	CategoryFeature     Category = "feature"
	CategoryConsistency Category = "consistency"
	CategoryTransaction Category = "transaction"
	CategorySolver      Category = "solver"
	CategoryEnumerator  Category = "enumerator"
	CategoryCLI         Category = "cli"
)

var (
	mu   sync.RWMutex
	base *zap.Logger = zap.NewNop()
)

// Init installs the process-wide base logger. Call once from main(); safe
// to call again in tests to swap in an observer core.
func Init(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// Sync flushes the base logger's buffers.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// For returns a logger scoped to the given category via a structured field.
func For(cat Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(zap.String("category", string(cat)))
}
