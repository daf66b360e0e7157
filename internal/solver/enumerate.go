package solver

import (
	"github.com/se-sic/vara-feature-go/internal/configuration"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

// Enumerator wraps a primed Solver and yields its satisfying assignments
// one at a time via successive blocking clauses.
type Enumerator struct {
	solver    Solver
	exhausted bool
}

// NewEnumerator wraps s. s is assumed already primed (Translate has run).
func NewEnumerator(s Solver) *Enumerator {
	return &Enumerator{solver: s}
}

// Next returns the next configuration, or an Unsat-kind error once the
// solver's assertion set has no more models.
func (e *Enumerator) Next() (*configuration.Configuration, error) {
	if e.exhausted {
		return nil, fmerr.New(fmerr.Unsat, "enumerator exhausted")
	}
	ok, err := e.solver.Satisfiable()
	if err != nil {
		return nil, err
	}
	if !ok {
		e.exhausted = true
		return nil, fmerr.New(fmerr.Unsat, "no further satisfying configuration")
	}
	cfg, err := e.solver.CurrentModel()
	if err != nil {
		return nil, err
	}
	if err := e.solver.Exclude(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// All drains the enumerator, collecting every configuration in the order
// the solver produced them.
func (e *Enumerator) All() ([]*configuration.Configuration, error) {
	var out []*configuration.Configuration
	for {
		cfg, err := e.Next()
		if err != nil {
			if kind, ok := fmerr.KindOf(err); ok && kind == fmerr.Unsat {
				return out, nil
			}
			return out, err
		}
		out = append(out, cfg)
	}
}

// Count drains the enumerator without materialising configurations.
func (e *Enumerator) Count() (int, error) {
	n := 0
	for {
		_, err := e.Next()
		if err != nil {
			if kind, ok := fmerr.KindOf(err); ok && kind == fmerr.Unsat {
				return n, nil
			}
			return n, err
		}
		n++
	}
}
