// Package modelbuilder is the only sanctioned construction path for a
// feature.FeatureModel from an external description: a staged builder
// that accumulates feature/edge/relationship/constraint declarations and
// commits them in four passes, so that forward references (an edge naming
// a child declared later, a constraint naming a feature added after it)
// never need a second parsing pass over the input format.
package modelbuilder

import (
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
	"github.com/se-sic/vara-feature-go/internal/transaction"
)

type edgeSpec struct{ parent, child string }

type relSpec struct {
	kind   feature.RelationshipKind
	parent string
}

type constraintSpec struct {
	expr     constraint.Expr
	class    transaction.ConstraintClass
	exprKind feature.ExprKind
	req      feature.ReqKind
}

type locationSpec struct {
	feature string
	r       feature.FeatureSourceRange
}

// FeatureModelBuilder accumulates a model description and commits it in
// four staged transactions: features, tree edges, post-edges (relationships
// and constraints), and specialisation (scalar metadata and any late
// re-rooting).
type FeatureModelBuilder struct {
	name string

	pending      map[string]*feature.Node
	pendingOrder []string

	edges         []edgeSpec
	relationships []relSpec
	constraints   []constraintSpec
	locations     []locationSpec

	commit, path string
	rootOverride string
	hasOverride  bool

	err error
}

// New starts a builder for a model that will be named name once built.
func New(name string) *FeatureModelBuilder {
	return &FeatureModelBuilder{name: name, pending: make(map[string]*feature.Node)}
}

func (b *FeatureModelBuilder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

func (b *FeatureModelBuilder) addPending(n *feature.Node) error {
	if _, exists := b.pending[n.Name]; exists {
		return b.fail(fmerr.Newf(fmerr.AlreadyPresent, "feature %q already declared", n.Name))
	}
	b.pending[n.Name] = n
	b.pendingOrder = append(b.pendingOrder, n.Name)
	return nil
}

// MakeFeatureRoot declares a Root-kind feature.
func (b *FeatureModelBuilder) MakeFeatureRoot(name string) error {
	return b.addPending(feature.NewRoot(name))
}

// MakeFeatureBinary declares a Binary-kind feature.
func (b *FeatureModelBuilder) MakeFeatureBinary(name string, optional bool) error {
	return b.addPending(feature.NewBinary(name, optional))
}

// MakeFeatureNumericList declares a Numeric feature with a finite list domain.
func (b *FeatureModelBuilder) MakeFeatureNumericList(name string, optional bool, values []int64) error {
	return b.addPending(feature.NewNumericList(name, optional, values))
}

// MakeFeatureNumericRange declares a Numeric feature with a closed range
// domain [min, max] and optional step function.
func (b *FeatureModelBuilder) MakeFeatureNumericRange(name string, optional bool, min, max int64, step *constraint.StepFunction) error {
	return b.addPending(feature.NewNumericRange(name, optional, min, max, step))
}

// AddEdge records a parent/child edge, resolved against the declared
// feature set at build time rather than immediately, so child may be
// declared before or after parent.
func (b *FeatureModelBuilder) AddEdge(parent, child string) {
	b.edges = append(b.edges, edgeSpec{parent: parent, child: child})
}

// EmplaceRelationship inserts a relationship group under parent.
func (b *FeatureModelBuilder) EmplaceRelationship(kind feature.RelationshipKind, parent string) {
	b.relationships = append(b.relationships, relSpec{kind: kind, parent: parent})
}

// AddConstraint appends a top-level constraint of the given class.
func (b *FeatureModelBuilder) AddConstraint(e constraint.Expr, class transaction.ConstraintClass, exprKind feature.ExprKind, req feature.ReqKind) {
	b.constraints = append(b.constraints, constraintSpec{expr: e, class: class, exprKind: exprKind, req: req})
}

// AddLocation records a source location against a declared feature.
func (b *FeatureModelBuilder) AddLocation(featureName string, r feature.FeatureSourceRange) {
	b.locations = append(b.locations, locationSpec{feature: featureName, r: r})
}

func (b *FeatureModelBuilder) SetName(v string)   { b.name = v }
func (b *FeatureModelBuilder) SetCommit(v string) { b.commit = v }
func (b *FeatureModelBuilder) SetPath(v string)   { b.path = v }

// MakeRoot re-designates an already-attached, already-declared feature as
// the model's new root, applied during the specialisation stage once the
// tree is fully built. A root must still be declared via MakeFeatureRoot
// up front for the tree-edges stage to have somewhere to attach features;
// MakeRoot promotes a different node over that initial root afterward.
func (b *FeatureModelBuilder) MakeRoot(name string) {
	b.rootOverride = name
	b.hasOverride = true
}

// BuildFeatureModel runs the four staged commits and returns the built
// model, or no model if any stage's transaction fails validation.
func (b *FeatureModelBuilder) BuildFeatureModel() (*feature.FeatureModel, error) {
	if b.err != nil {
		return nil, b.err
	}

	m, err := b.commitFeatures()
	if err != nil {
		return nil, err
	}
	if err := b.commitTreeEdges(m); err != nil {
		return nil, err
	}
	if err := b.commitPostEdges(m); err != nil {
		return nil, err
	}
	if err := b.commitSpecialisation(m); err != nil {
		return nil, err
	}
	return m, nil
}

// commitFeatures installs every declared feature node, attaching the root
// first and every other feature directly under it as a placeholder parent
// that commitTreeEdges corrects. It fails with MissingModel if no root was
// declared.
func (b *FeatureModelBuilder) commitFeatures() (*feature.FeatureModel, error) {
	m := feature.New(b.name)

	var rootName string
	for _, name := range b.pendingOrder {
		if b.pending[name].Kind == feature.KindRoot {
			rootName = name
			break
		}
	}
	if rootName == "" {
		return nil, fmerr.New(fmerr.MissingModel, "build_feature_model: no root feature declared")
	}

	txn := transaction.Begin(m, transaction.ModifyMode)
	if rootName != "" {
		if err := txn.AddOp(&transaction.AddFeatureOp{Node: b.pending[rootName], Parent: handle.Invalid}); err != nil {
			return nil, err
		}
	}
	for _, name := range b.pendingOrder {
		if name == rootName {
			continue
		}
		if err := txn.AddOp(&transaction.AddFeatureOp{Node: b.pending[name], Parent: handle.Invalid}); err != nil {
			return nil, err
		}
	}
	if _, err := txn.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *FeatureModelBuilder) commitTreeEdges(m *feature.FeatureModel) error {
	if len(b.edges) == 0 {
		return nil
	}
	txn := transaction.Begin(m, transaction.ModifyMode)
	for _, e := range b.edges {
		parent, ok := m.Lookup(e.parent)
		if !ok {
			return fmerr.Newf(fmerr.MissingParent, "add_edge: parent %q not declared", e.parent)
		}
		child, ok := m.Lookup(e.child)
		if !ok {
			return fmerr.Newf(fmerr.MissingFeature, "add_edge: child %q not declared", e.child)
		}
		if err := txn.AddOp(&transaction.AddChildOp{Parent: parent, Child: child}); err != nil {
			return err
		}
	}
	_, err := txn.Commit()
	return err
}

func (b *FeatureModelBuilder) commitPostEdges(m *feature.FeatureModel) error {
	if len(b.relationships) == 0 && len(b.constraints) == 0 && len(b.locations) == 0 {
		return nil
	}
	txn := transaction.Begin(m, transaction.ModifyMode)
	for _, r := range b.relationships {
		parent, ok := m.Lookup(r.parent)
		if !ok {
			return fmerr.Newf(fmerr.MissingParent, "emplace_relationship: parent %q not declared", r.parent)
		}
		if err := txn.AddOp(&transaction.AddRelationshipOp{Kind: r.kind, Parent: parent}); err != nil {
			return err
		}
	}
	for _, c := range b.constraints {
		if err := txn.AddOp(&transaction.AddConstraintOp{Expr: c.expr, Class: c.class, ExprKind: c.exprKind, Req: c.req}); err != nil {
			return err
		}
	}
	for _, l := range b.locations {
		h, ok := m.Lookup(l.feature)
		if !ok {
			return fmerr.Newf(fmerr.MissingFeature, "add_location: feature %q not declared", l.feature)
		}
		if err := txn.AddOp(&transaction.AddLocationOp{Feature: h, Range: l.r}); err != nil {
			return err
		}
	}
	_, err := txn.Commit()
	return err
}

func (b *FeatureModelBuilder) commitSpecialisation(m *feature.FeatureModel) error {
	txn := transaction.Begin(m, transaction.ModifyMode)
	if b.commit != "" {
		if err := txn.AddOp(&transaction.SetCommitOp{Value: b.commit}); err != nil {
			return err
		}
	}
	if b.path != "" {
		if err := txn.AddOp(&transaction.SetPathOp{Value: b.path}); err != nil {
			return err
		}
	}
	if b.hasOverride {
		h, ok := m.Lookup(b.rootOverride)
		if !ok {
			return fmerr.Newf(fmerr.MissingFeature, "make_root: feature %q not declared", b.rootOverride)
		}
		if err := txn.AddOp(&transaction.SetRootOp{NewRoot: h}); err != nil {
			return err
		}
	}
	_, err := txn.Commit()
	return err
}
