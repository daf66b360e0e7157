package solver

import (
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
)

// Translate primes s with m's encoding: one pass declares a variable per
// feature, a second pass asserts tree-edge implications, a third walks
// relationship groups, and a fourth asserts the three constraint lists.
// Order matters only in that variables must be declared before any Assert
// mentioning them runs.
func Translate(m *feature.FeatureModel, s Solver) error {
	if m.Root() == handle.Invalid {
		return fmerr.New(fmerr.MissingModel, "cannot translate a rootless model")
	}

	for _, h := range m.Features() {
		if err := declareFeature(m, s, h); err != nil {
			return err
		}
	}
	for _, h := range m.Features() {
		if err := assertFeatureEdges(m, s, h); err != nil {
			return err
		}
	}
	for _, h := range m.Features() {
		if err := assertRelationships(m, s, h); err != nil {
			return err
		}
	}
	for _, e := range m.BooleanConstraints() {
		if err := s.Assert(e); err != nil {
			return err
		}
	}
	for _, e := range m.NonBooleanConstraints() {
		if err := s.Assert(e); err != nil {
			return err
		}
	}
	for _, mc := range m.MixedConstraints() {
		if err := assertMixedConstraint(m, s, mc); err != nil {
			return err
		}
	}
	return nil
}

func declareFeature(m *feature.FeatureModel, s Solver, h handle.Handle) error {
	n, ok := m.Get(h)
	if !ok {
		return fmerr.Newf(fmerr.MissingFeature, "dangling feature handle %v", h)
	}
	switch n.Kind {
	case feature.KindRoot, feature.KindBinary:
		return s.DeclareBool(n.Name)
	case feature.KindNumeric:
		domain, err := numericDomain(n)
		if err != nil {
			return err
		}
		return s.DeclareInt(n.Name, domain)
	default:
		return fmerr.Newf(fmerr.NotSupported, "feature %q has no encodable kind", n.Name)
	}
}

// numericDomain enumerates a Numeric feature's legal values per the list
// or range-with-step rule.
func numericDomain(n *feature.Node) ([]int64, error) {
	if n.Numeric.IsList {
		if len(n.Numeric.List) == 0 {
			return nil, fmerr.Newf(fmerr.NotImplemented, "numeric feature %q has an empty value list", n.Name)
		}
		return n.Numeric.List, nil
	}
	step := n.Numeric.Step
	if step == nil {
		step = constraint.NewAddStep(1, constraint.VarFirst)
	}
	lo, hi := n.Numeric.Min, n.Numeric.Max
	var out []int64
	for v := lo; v <= hi; {
		out = append(out, v)
		next, err := step.NextInt(v)
		if err != nil {
			return nil, fmerr.Wrap(fmerr.NotImplemented, err, "enumerating numeric range for "+n.Name)
		}
		if next <= v {
			return nil, fmerr.Newf(fmerr.NotImplemented, "step function for %q does not advance", n.Name)
		}
		v = next
	}
	if len(out) == 0 {
		return nil, fmerr.Newf(fmerr.NotImplemented, "numeric feature %q has an empty range", n.Name)
	}
	return out, nil
}

// resolveFeatureParent walks up from h past any Relationship node to the
// nearest enclosing Feature, and reports whether that walk crossed an
// Alternative relationship (h is a member of an alternative group).
func resolveFeatureParent(m *feature.FeatureModel, h handle.Handle) (parent handle.Handle, viaAlternative bool, err error) {
	n, ok := m.Get(h)
	if !ok {
		return handle.Invalid, false, fmerr.Newf(fmerr.MissingFeature, "dangling feature handle %v", h)
	}
	if n.Parent == handle.Invalid {
		return handle.Invalid, false, nil
	}
	pn, ok := m.Get(n.Parent)
	if !ok {
		return handle.Invalid, false, fmerr.Newf(fmerr.MissingParent, "dangling parent handle for %q", n.Name)
	}
	if pn.Kind != feature.KindRelationship {
		return n.Parent, false, nil
	}
	if pn.Parent == handle.Invalid {
		return handle.Invalid, false, fmerr.Newf(fmerr.MissingParent, "relationship group under %q has no parent", n.Name)
	}
	return pn.Parent, pn.RelKind == feature.Alternative, nil
}

// assertFeatureEdges applies the tree-edge implication rule: Root is
// asserted true directly, Binary features get F ⇒ P (plus the mandatory
// P ⇒ F converse when eligible). Numeric features have no tree-edge rule
// of their own — their legal values are fixed by the finite domain
// declareFeature passes to DeclareInt.
func assertFeatureEdges(m *feature.FeatureModel, s Solver, h handle.Handle) error {
	n, ok := m.Get(h)
	if !ok {
		return fmerr.Newf(fmerr.MissingFeature, "dangling feature handle %v", h)
	}
	switch n.Kind {
	case feature.KindRoot:
		return s.Assert(constraint.NewPrimaryFeature(n.Name))
	case feature.KindNumeric:
		return nil
	}

	parent, viaAlternative, err := resolveFeatureParent(m, h)
	if err != nil {
		return err
	}
	if parent == handle.Invalid {
		return fmerr.Newf(fmerr.MissingParent, "feature %q has no parent", n.Name)
	}
	pn, ok := m.Get(parent)
	if !ok {
		return fmerr.Newf(fmerr.MissingParent, "dangling parent handle for %q", n.Name)
	}
	fExpr := constraint.NewPrimaryFeature(n.Name)
	pExpr := constraint.NewPrimaryFeature(pn.Name)
	if err := s.Assert(constraint.NewBinary(constraint.Implies, fExpr, pExpr)); err != nil {
		return err
	}
	if !n.Optional && !viaAlternative {
		if err := s.Assert(constraint.NewBinary(constraint.Implies, pExpr, fExpr)); err != nil {
			return err
		}
	}
	return nil
}

// assertRelationships processes every Relationship child of h (h's
// direct children only; relationships are never nested).
func assertRelationships(m *feature.FeatureModel, s Solver, h handle.Handle) error {
	n, ok := m.Get(h)
	if !ok {
		return fmerr.Newf(fmerr.MissingFeature, "dangling feature handle %v", h)
	}
	parentExpr := constraint.NewPrimaryFeature(n.Name)
	for _, ch := range n.Children {
		rn, ok := m.Get(ch)
		if !ok || rn.Kind != feature.KindRelationship {
			continue
		}
		members := make([]constraint.Expr, 0, len(rn.Children))
		for _, mh := range rn.Children {
			mn, ok := m.Get(mh)
			if !ok {
				return fmerr.Newf(fmerr.MissingFeature, "dangling relationship member handle %v", mh)
			}
			members = append(members, constraint.NewPrimaryFeature(mn.Name))
		}
		if len(members) == 0 {
			continue
		}
		atLeastOne := orAll(members)
		var body constraint.Expr
		if rn.RelKind == feature.Alternative {
			body = constraint.NewBinary(constraint.And, atMostOne(members), atLeastOne)
		} else {
			body = atLeastOne
		}
		if err := s.Assert(constraint.NewBinary(constraint.Implies, parentExpr, body)); err != nil {
			return err
		}
	}
	return nil
}

func orAll(exprs []constraint.Expr) constraint.Expr {
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = constraint.NewBinary(constraint.Or, out, e)
	}
	return out
}

// atMostOne asserts the pairwise-exclusion form: for every pair (i, j),
// i < j, ¬(i ∧ j), conjoined. Quadratic in member count, acceptable for
// the small groups this domain produces.
func atMostOne(exprs []constraint.Expr) constraint.Expr {
	var clauses []constraint.Expr
	for i := 0; i < len(exprs); i++ {
		for j := i + 1; j < len(exprs); j++ {
			pair := constraint.NewBinary(constraint.And, exprs[i], exprs[j])
			clauses = append(clauses, constraint.NewUnary(constraint.Not, pair))
		}
	}
	if len(clauses) == 0 {
		return constraint.NewPrimaryNumber(1)
	}
	out := clauses[0]
	for _, c := range clauses[1:] {
		out = constraint.NewBinary(constraint.And, out, c)
	}
	return out
}

// assertMixedConstraint builds the variable-constraint disjunction over
// mc's referenced binary features and combines it with mc's expression
// per req and expr_kind. With req=All and no binary feature referenced,
// the disjunction is empty and the expression is asserted directly.
func assertMixedConstraint(m *feature.FeatureModel, s Solver, mc feature.MixedConstraint) error {
	expr := mc.Expr
	if mc.ExprKind == feature.Neg {
		expr = constraint.NewUnary(constraint.Not, expr)
	}
	if mc.Req == feature.ReqNone {
		return s.Assert(expr)
	}
	names := referencedNames(mc.Expr)
	if len(names) == 0 {
		return fmerr.New(fmerr.NotSupported, "mixed constraint with req=All references no features")
	}
	var variableConstraint constraint.Expr
	for _, name := range names {
		if h, ok := m.Lookup(name); ok {
			if n, ok := m.Get(h); ok && n.Kind == feature.KindNumeric {
				continue
			}
		}
		lit := constraint.NewUnary(constraint.Not, constraint.NewPrimaryFeature(name))
		if variableConstraint == nil {
			variableConstraint = lit
		} else {
			variableConstraint = constraint.NewBinary(constraint.Or, variableConstraint, lit)
		}
	}
	if variableConstraint == nil {
		return s.Assert(expr)
	}
	return s.Assert(constraint.NewBinary(constraint.Or, variableConstraint, expr))
}
