// Package solver implements the SMT-style encoding and enumeration layer:
// a Solver abstraction the rest of the package programs against, a
// translator that primes a Solver from a FeatureModel following the
// model's encoding rules, and a blocking-clause enumerator built on top.
//
// No SMT/SAT binding is wired in; NaiveSolver is a from-scratch
// backtracking search over boolean and bounded-integer domains. Solver is
// kept abstract so a real binding could replace NaiveSolver without
// touching Translate or Enumerator.
package solver

import (
	"github.com/se-sic/vara-feature-go/internal/configuration"
	"github.com/se-sic/vara-feature-go/internal/constraint"
)

// Solver is the abstraction Translate and Enumerator program against: a
// name-indexed variable store, constraint assertion, and a SAT-style
// check/model/block cycle.
type Solver interface {
	// DeclareBool introduces a fresh boolean variable.
	DeclareBool(name string) error
	// DeclareInt introduces a fresh integer variable ranging over domain,
	// an explicit finite set of legal values.
	DeclareInt(name string, domain []int64) error
	// Assert adds e as a hard constraint. e's Primary leaves must name
	// already-declared variables.
	Assert(e constraint.Expr) error
	// Satisfiable runs the search and reports whether the current
	// assertion set has a model, caching it for CurrentModel.
	Satisfiable() (bool, error)
	// CurrentModel snapshots the model found by the last successful
	// Satisfiable call as a Configuration.
	CurrentModel() (*configuration.Configuration, error)
	// Exclude asserts the blocking clause that rules model out of every
	// subsequent Satisfiable call.
	Exclude(model *configuration.Configuration) error
}
