package solver

import (
	"sort"

	"github.com/se-sic/vara-feature-go/internal/configuration"
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

// NaiveSolver is a from-scratch backtracking search over boolean and
// bounded-integer domains: no incremental propagation, just generate
// candidate assignments in declaration order and test every asserted
// constraint once the assignment is complete, with constraints whose
// referenced variables are all bound checked as soon as possible to prune
// the search early.
type NaiveSolver struct {
	order     []string
	isBool    map[string]bool
	domains   map[string][]int64
	asserted  []constraint.Expr
	assertRef [][]string // referencedNames(asserted[i]), parallel slice

	lastModel map[string]int64
	hasModel  bool
}

// NewNaiveSolver returns an empty solver with no declared variables.
func NewNaiveSolver() *NaiveSolver {
	return &NaiveSolver{
		isBool:  make(map[string]bool),
		domains: make(map[string][]int64),
	}
}

func (s *NaiveSolver) declare(name string, domain []int64, isBool bool) error {
	if _, exists := s.domains[name]; exists {
		return fmerr.Newf(fmerr.AlreadyPresent, "variable %q already declared", name)
	}
	if len(domain) == 0 {
		return fmerr.Newf(fmerr.Generic, "variable %q has an empty domain", name)
	}
	s.order = append(s.order, name)
	s.domains[name] = domain
	s.isBool[name] = isBool
	s.hasModel = false
	return nil
}

func (s *NaiveSolver) DeclareBool(name string) error {
	return s.declare(name, []int64{0, 1}, true)
}

func (s *NaiveSolver) DeclareInt(name string, domain []int64) error {
	uniq := dedupSorted(domain)
	return s.declare(name, uniq, false)
}

func (s *NaiveSolver) Assert(e constraint.Expr) error {
	refs := referencedNames(e)
	for _, name := range refs {
		if _, ok := s.domains[name]; !ok {
			return fmerr.Newf(fmerr.NotAllConstraintsProcessed, "constraint references undeclared variable %q", name)
		}
	}
	s.asserted = append(s.asserted, e)
	s.assertRef = append(s.assertRef, refs)
	s.hasModel = false
	return nil
}

// Satisfiable runs the backtracking search over s.order in declaration
// order, checking each asserted constraint as soon as every variable it
// references has been assigned.
func (s *NaiveSolver) Satisfiable() (bool, error) {
	assign := make(map[string]int64, len(s.order))
	model, ok, err := s.search(0, assign)
	if err != nil {
		return false, err
	}
	if !ok {
		s.hasModel = false
		return false, nil
	}
	s.lastModel = model
	s.hasModel = true
	return true, nil
}

func (s *NaiveSolver) search(i int, assign map[string]int64) (map[string]int64, bool, error) {
	if i == len(s.order) {
		ok, err := s.checkAll(assign)
		if err != nil || !ok {
			return nil, false, err
		}
		out := make(map[string]int64, len(assign))
		for k, v := range assign {
			out[k] = v
		}
		return out, true, nil
	}
	name := s.order[i]
	for _, v := range s.domains[name] {
		assign[name] = v
		if ok, err := s.checkReady(i, assign); err != nil {
			delete(assign, name)
			return nil, false, err
		} else if ok {
			if model, found, err := s.search(i+1, assign); err != nil {
				delete(assign, name)
				return nil, false, err
			} else if found {
				return model, true, nil
			}
		}
		delete(assign, name)
	}
	return nil, false, nil
}

// checkReady evaluates every asserted constraint whose variables are all
// among s.order[:i+1], pruning branches that already violate a constraint
// instead of waiting for a complete assignment.
func (s *NaiveSolver) checkReady(i int, assign map[string]int64) (bool, error) {
	boundSoFar := make(map[string]bool, i+1)
	for _, name := range s.order[:i+1] {
		boundSoFar[name] = true
	}
	for idx, refs := range s.assertRef {
		if !allBound(refs, boundSoFar) {
			continue
		}
		v, err := eval(s.asserted[idx], assign)
		if err != nil {
			return false, err
		}
		if v == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (s *NaiveSolver) checkAll(assign map[string]int64) (bool, error) {
	for _, e := range s.asserted {
		v, err := eval(e, assign)
		if err != nil {
			return false, err
		}
		if v == 0 {
			return false, nil
		}
	}
	return true, nil
}

func allBound(names []string, bound map[string]bool) bool {
	for _, n := range names {
		if !bound[n] {
			return false
		}
	}
	return true
}

func (s *NaiveSolver) CurrentModel() (*configuration.Configuration, error) {
	if !s.hasModel {
		return nil, fmerr.New(fmerr.Unsat, "no current model: last Satisfiable call did not return sat")
	}
	cfg := configuration.New()
	for _, name := range s.order {
		v := s.lastModel[name]
		if s.isBool[name] {
			cfg.SetBool(name, v != 0)
		} else {
			cfg.SetInt(name, v)
		}
	}
	return cfg, nil
}

// Exclude asserts the negated-literal disjunction that blocks model: for
// each boolean variable, its polarity-flipped literal; for each integer
// variable, the inequality v != value.
func (s *NaiveSolver) Exclude(model *configuration.Configuration) error {
	var clause constraint.Expr
	for _, name := range model.Names() {
		v, ok := model.Get(name)
		if !ok {
			continue
		}
		var lit constraint.Expr
		if s.isBool[name] {
			if v.Bool {
				lit = constraint.NewUnary(constraint.Not, constraint.NewPrimaryFeature(name))
			} else {
				lit = constraint.NewPrimaryFeature(name)
			}
		} else {
			lit = constraint.NewBinary(constraint.NotEqual, constraint.NewPrimaryFeature(name), constraint.NewPrimaryNumber(v.Int))
		}
		if clause == nil {
			clause = lit
		} else {
			clause = constraint.NewBinary(constraint.Or, clause, lit)
		}
	}
	if clause == nil {
		return fmerr.New(fmerr.Generic, "cannot exclude an empty configuration")
	}
	return s.Assert(clause)
}

func dedupSorted(in []int64) []int64 {
	cp := append([]int64(nil), in...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:0]
	for i, v := range cp {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
