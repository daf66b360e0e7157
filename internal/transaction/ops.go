// Package transaction implements the two transaction modes that are the
// only sanctioned way to mutate a FeatureModel after it leaves the
// builder: copy mode (clone up front, mutate the clone) and modify mode
// (borrow the live model, queue modifications, replay them at commit).
//
// Each modification is a typed record shaped after a file-edit/content
// pair generalized to a feature-model operation; Op.Apply is the replay
// step that stands in for writing the edit back out.
package transaction

import (
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
)

// Op is one typed modification record. Apply replays it against m.
type Op interface {
	Apply(m *feature.FeatureModel) error
	String() string
}

// AddFeatureOp installs Node under Parent (or the model's root, if Parent
// is handle.Invalid).
type AddFeatureOp struct {
	Node   *feature.Node
	Parent handle.Handle
}

func (op *AddFeatureOp) Apply(m *feature.FeatureModel) error {
	_, err := m.AddFeatureNode(op.Node, op.Parent)
	return err
}
func (op *AddFeatureOp) String() string { return "AddFeature(" + op.Node.Name + ")" }

// RemoveFeatureOp removes a feature by handle or, if Target is
// handle.Invalid, by name.
type RemoveFeatureOp struct {
	Target     handle.Handle
	TargetName string
	Recursive  bool
}

func (op *RemoveFeatureOp) Apply(m *feature.FeatureModel) error {
	h := op.Target
	if h == handle.Invalid {
		found, ok := m.Lookup(op.TargetName)
		if !ok {
			return fmerr.Newf(fmerr.MissingFeature, "feature %q not present", op.TargetName)
		}
		h = found
	}
	return m.RemoveFeatureNode(h, op.Recursive)
}
func (op *RemoveFeatureOp) String() string { return "RemoveFeature(" + op.TargetName + ")" }

// AddRelationshipOp inserts a relationship group under Parent.
type AddRelationshipOp struct {
	Kind   feature.RelationshipKind
	Parent handle.Handle
}

func (op *AddRelationshipOp) Apply(m *feature.FeatureModel) error {
	_, err := m.AddRelationship(op.Kind, op.Parent)
	return err
}
func (op *AddRelationshipOp) String() string { return "AddRelationship(" + op.Kind.String() + ")" }

// RemoveRelationshipOp removes Parent's relationship group.
type RemoveRelationshipOp struct {
	Parent handle.Handle
}

func (op *RemoveRelationshipOp) Apply(m *feature.FeatureModel) error {
	return m.RemoveRelationship(op.Parent)
}
func (op *RemoveRelationshipOp) String() string { return "RemoveRelationship" }

// AddLocationOp / RemoveLocationOp edit a feature's location set.
type AddLocationOp struct {
	Feature handle.Handle
	Range   feature.FeatureSourceRange
}

func (op *AddLocationOp) Apply(m *feature.FeatureModel) error {
	return m.AddLocation(op.Feature, op.Range)
}
func (op *AddLocationOp) String() string { return "AddLocation" }

type RemoveLocationOp struct {
	Feature handle.Handle
	Range   feature.FeatureSourceRange
}

func (op *RemoveLocationOp) Apply(m *feature.FeatureModel) error {
	return m.RemoveLocation(op.Feature, op.Range)
}
func (op *RemoveLocationOp) String() string { return "RemoveLocation" }

// ConstraintClass picks which of the model's three constraint lists an
// AddConstraintOp installs into.
type ConstraintClass int

const (
	Boolean ConstraintClass = iota
	NonBoolean
	Mixed
)

// AddConstraintOp installs a top-level constraint: the binding visitor
// rebinds every primary feature leaf and registers the constraint on that
// feature's constraint list.
type AddConstraintOp struct {
	Expr     constraint.Expr
	Class    ConstraintClass
	ExprKind feature.ExprKind
	Req      feature.ReqKind
}

func (op *AddConstraintOp) Apply(m *feature.FeatureModel) error {
	switch op.Class {
	case Boolean:
		return m.AddBooleanConstraint(op.Expr)
	case NonBoolean:
		return m.AddNonBooleanConstraint(op.Expr)
	default:
		return m.AddMixedConstraint(op.Expr, op.ExprKind, op.Req)
	}
}
func (op *AddConstraintOp) String() string { return "AddConstraint(" + op.Expr.String() + ")" }

// SetNameOp / SetCommitOp / SetPathOp are the scalar setters.
type SetNameOp struct{ Value string }

func (op *SetNameOp) Apply(m *feature.FeatureModel) error { m.SetName(op.Value); return nil }
func (op *SetNameOp) String() string                      { return "SetName(" + op.Value + ")" }

type SetCommitOp struct{ Value string }

func (op *SetCommitOp) Apply(m *feature.FeatureModel) error { m.SetCommit(op.Value); return nil }
func (op *SetCommitOp) String() string                      { return "SetCommit(" + op.Value + ")" }

type SetPathOp struct{ Value string }

func (op *SetPathOp) Apply(m *feature.FeatureModel) error { m.SetPath(op.Value); return nil }
func (op *SetPathOp) String() string                      { return "SetPath(" + op.Value + ")" }

// SetRootOp installs NewRoot as the model's root, moving the old root's
// children under it.
type SetRootOp struct {
	NewRoot handle.Handle
}

func (op *SetRootOp) Apply(m *feature.FeatureModel) error { return m.SetRoot(op.NewRoot) }
func (op *SetRootOp) String() string                      { return "SetRoot" }

// AddChildOp re-parents Child under Parent.
type AddChildOp struct {
	Parent, Child handle.Handle
}

func (op *AddChildOp) Apply(m *feature.FeatureModel) error { return m.AddChild(op.Parent, op.Child) }
func (op *AddChildOp) String() string                      { return "AddChild" }
