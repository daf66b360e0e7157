// Package feature implements the feature-model graph: an arena of nodes
// keyed by stable handles, the three ownership-preserving constraint
// lists, and depth-first iteration with a case-insensitive tiebreak.
package feature

import (
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/handle"
)

// Kind discriminates the two FeatureTreeNode variants (and the three
// sub-variants of Feature).
type Kind int

const (
	KindRoot Kind = iota
	KindBinary
	KindNumeric
	KindRelationship
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindBinary:
		return "Binary"
	case KindNumeric:
		return "Numeric"
	case KindRelationship:
		return "Relationship"
	default:
		return "?"
	}
}

// IsFeature reports whether k is one of the Feature sub-variants (as
// opposed to Relationship).
func (k Kind) IsFeature() bool { return k == KindRoot || k == KindBinary || k == KindNumeric }

// RelationshipKind is the group discipline of a Relationship node.
type RelationshipKind int

const (
	Alternative RelationshipKind = iota
	Or
)

func (k RelationshipKind) String() string {
	if k == Alternative {
		return "Alternative"
	}
	return "Or"
}

// NumericDomain is a Numeric feature's value domain: either a finite
// sorted list, or a closed range [Min, Max] with an optional step function.
type NumericDomain struct {
	IsList bool
	List   []int64

	Min, Max int64
	Step     *constraint.StepFunction
}

// Category classifies a FeatureSourceRange as load-bearing or advisory.
type Category int

const (
	Necessary Category = iota
	Inessential
)

// Location is a (line, column) source position.
type Location struct {
	Line   int
	Column int
}

// RevisionRange records the VCS commits across which a location was
// valid: Introducing is always present, Removing is optional (the
// location is still current if HasRemoving is false).
type RevisionRange struct {
	Introducing string
	Removing    string
	HasRemoving bool
}

// FeatureSourceRange ties a feature to the source text it was discovered
// in: a path, an optional (start, end) span, a necessity category, and an
// optional revision range.
type FeatureSourceRange struct {
	Path     string
	Start    *Location
	End      *Location
	Category Category
	Revision *RevisionRange
}

// ExprKind is the polarity a Mixed constraint's stored expression is
// asserted with at encoding time.
type ExprKind int

const (
	Pos ExprKind = iota
	Neg
)

// ReqKind controls whether a Mixed constraint is gated on every
// referenced binary feature being selected.
type ReqKind int

const (
	ReqAll ReqKind = iota
	ReqNone
)

// Node is one arena-resident vertex: a Feature (Root/Binary/Numeric) or a
// Relationship group. Kind discriminates which fields are meaningful.
type Node struct {
	Handle handle.Handle
	Kind   Kind

	// Feature fields (Kind.IsFeature()).
	Name      string
	Optional  bool
	Locations []FeatureSourceRange
	// Constraints back-references every top-level constraint expression
	// that mentions this feature, in registration order.
	Constraints []constraint.Expr
	Numeric     NumericDomain

	// Relationship fields (Kind == KindRelationship).
	RelKind RelationshipKind

	// Shared tree-structure fields.
	Parent   handle.Handle
	Children []handle.Handle
}

func newFeatureNode(kind Kind, name string) *Node {
	return &Node{Kind: kind, Name: name}
}

// NewRoot builds an un-arena-allocated Root feature node.
func NewRoot(name string) *Node { return newFeatureNode(KindRoot, name) }

// NewBinary builds an un-arena-allocated Binary feature node.
func NewBinary(name string, optional bool) *Node {
	n := newFeatureNode(KindBinary, name)
	n.Optional = optional
	return n
}

// NewNumericList builds an un-arena-allocated Numeric feature node with a
// finite list domain.
func NewNumericList(name string, optional bool, values []int64) *Node {
	n := newFeatureNode(KindNumeric, name)
	n.Optional = optional
	n.Numeric = NumericDomain{IsList: true, List: append([]int64(nil), values...)}
	return n
}

// NewNumericRange builds an un-arena-allocated Numeric feature node with a
// closed range domain [min, max] and an optional step function (nil means the
// default step of +1, per the design's resolution of the source's
// ambiguity on step-less ranges).
func NewNumericRange(name string, optional bool, min, max int64, step *constraint.StepFunction) *Node {
	n := newFeatureNode(KindNumeric, name)
	n.Optional = optional
	n.Numeric = NumericDomain{Min: min, Max: max, Step: step}
	return n
}

// NewRelationship builds an un-arena-allocated Relationship group node.
func NewRelationship(kind RelationshipKind) *Node {
	return &Node{Kind: KindRelationship, RelKind: kind}
}

// clone deep-copies a node for arena cloning (copy-mode transactions,
// FeatureModel.Clone). Handle and Parent/Children are copied verbatim;
// they stay valid because Arena.Clone keeps every handle unchanged.
//
// Constraints is deliberately left nil: the back-references it would copy
// point at the source model's constraint trees, not the clone's. A
// FeatureModel.Clone rebuilds it by re-running bindAndRegister over its
// own freshly cloned constraint lists.
func (n *Node) clone() *Node {
	c := *n
	c.Locations = append([]FeatureSourceRange(nil), n.Locations...)
	c.Constraints = nil
	c.Children = append([]handle.Handle(nil), n.Children...)
	if n.Numeric.IsList {
		c.Numeric.List = append([]int64(nil), n.Numeric.List...)
	}
	return &c
}
