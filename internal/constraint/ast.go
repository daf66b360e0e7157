// Package constraint implements the cross-tree constraint sub-language:
// the expression AST, its lexer and precedence-climbing parser, a fluent
// builder, and numeric step functions.
//
// Every node is a tagged sum with its own String() method, built up into a
// recursive expression tree rather than a flat predicate-argument tuple;
// traversal is explicit match-on-variant rather than a C++-style
// virtual-visitor class hierarchy.
package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/se-sic/vara-feature-go/internal/handle"
)

// UnaryOp is the set of prefix operators.
type UnaryOp int

const (
	Not UnaryOp = iota // boolean negation: !
	Neg                // arithmetic negation: ~
)

func (op UnaryOp) String() string {
	switch op {
	case Not:
		return "!"
	case Neg:
		return "~"
	default:
		return "?unary?"
	}
}

// BinaryOp is the set of infix operators, boolean, comparison, and
// arithmetic alike.
type BinaryOp int

const (
	And BinaryOp = iota
	Or
	Xor
	Implies
	Excludes
	Equivalence
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Add
	Sub
	Mul
	Div
)

var binaryOpStrings = map[BinaryOp]string{
	And: "&", Or: "|", Xor: "^", Implies: "->", Excludes: "excludes",
	Equivalence: "<->", Equal: "==", NotEqual: "!=", Less: "<",
	LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Add: "+", Sub: "-", Mul: "*", Div: "/",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpStrings[op]; ok {
		return s
	}
	return "?binary?"
}

// precedence returns the binding strength of op; larger binds tighter.
// Mul/Div binds tightest, Equivalence loosest.
func (op BinaryOp) precedence() int {
	switch op {
	case Mul, Div:
		return 7
	case Add, Sub:
		return 6
	case Less, LessEqual, Greater, GreaterEqual:
		return 5
	case Equal, NotEqual:
		return 4
	case And:
		return 3
	case Or, Xor:
		return 2
	case Implies, Excludes:
		return 1
	case Equivalence:
		return 0
	default:
		return -1
	}
}

// rightAssociative reports whether op binds right-to-left.
// Implies/Excludes/Equivalence are right-associative; everything else is
// left-associative.
func (op BinaryOp) rightAssociative() bool {
	switch op {
	case Implies, Excludes, Equivalence:
		return true
	default:
		return false
	}
}

// Expr is a node in a constraint tree. All three concrete node kinds
// (Primary, Unary, Binary) implement it.
type Expr interface {
	// Clone deep-copies the tree. Primary feature leaves copy by name only;
	// they are rebound to a concrete feature the next time the clone is
	// inserted into a model via AddConstraint.
	Clone() Expr
	// Accept dispatches to a Visitor (see visitor.go).
	Accept(v Visitor)
	// String renders fully parenthesised infix notation.
	String() string
	setParent(p Expr)
	parent() Expr
}

// node carries the parent back-reference shared by all three Expr kinds.
type node struct {
	p Expr
}

func (n *node) setParent(p Expr) { n.p = p }
func (n *node) parent() Expr     { return n.p }

// Primary is a leaf: either a reference to a feature (by name before it is
// bound into a model, by handle afterward) or an integer literal.
type Primary struct {
	node

	IsNumber bool
	Number   int64

	// Name is the unbound feature reference, as produced by the parser or
	// builder. Bound is false until AddConstraint's binding visitor runs.
	Name  string
	Bound bool
	// Feature is the bound reference, valid only when Bound is true.
	Feature handle.Handle
}

// NewPrimaryFeature builds an unbound feature-name leaf.
func NewPrimaryFeature(name string) *Primary {
	return &Primary{Name: name}
}

// NewPrimaryNumber builds an integer-literal leaf.
func NewPrimaryNumber(v int64) *Primary {
	return &Primary{IsNumber: true, Number: v}
}

// Bind rebinds an unbound feature-name leaf to a concrete feature handle.
// It is the operation AddConstraint's binding visitor performs.
func (p *Primary) Bind(h handle.Handle) {
	p.Bound = true
	p.Feature = h
}

func (p *Primary) Clone() Expr {
	return &Primary{IsNumber: p.IsNumber, Number: p.Number, Name: p.Name}
}

func (p *Primary) Accept(v Visitor) { v.VisitPrimary(p) }

func (p *Primary) String() string {
	if p.IsNumber {
		return strconv.FormatInt(p.Number, 10)
	}
	return p.Name
}

// Unary is a prefix-operator node: !child or ~child.
type Unary struct {
	node
	Op    UnaryOp
	Child Expr
}

// NewUnary builds a unary node and reparents child under it.
func NewUnary(op UnaryOp, child Expr) *Unary {
	u := &Unary{Op: op, Child: child}
	if child != nil {
		child.setParent(u)
	}
	return u
}

func (u *Unary) Clone() Expr {
	return NewUnary(u.Op, u.Child.Clone())
}

func (u *Unary) Accept(v Visitor) { v.VisitUnary(u) }

func (u *Unary) String() string {
	return fmt.Sprintf("%s(%s)", u.Op, u.Child.String())
}

// Binary is an infix-operator node.
type Binary struct {
	node
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// NewBinary builds a binary node and reparents both operands under it.
func NewBinary(op BinaryOp, left, right Expr) *Binary {
	b := &Binary{Op: op, Left: left, Right: right}
	if left != nil {
		left.setParent(b)
	}
	if right != nil {
		right.setParent(b)
	}
	return b
}

func (b *Binary) Clone() Expr {
	return NewBinary(b.Op, b.Left.Clone(), b.Right.Clone())
}

func (b *Binary) Accept(v Visitor) { v.VisitBinary(b) }

// String renders every binary fully parenthesised.
func (b *Binary) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(b.Left.String())
	sb.WriteByte(' ')
	sb.WriteString(b.Op.String())
	sb.WriteByte(' ')
	sb.WriteString(b.Right.String())
	sb.WriteByte(')')
	return sb.String()
}

// Parent returns the enclosing expression, or nil at the root of a tree
// that has not yet been installed into a model (a top-level constraint's
// Parent is nil; see FeatureModel.AddBooleanConstraint and its siblings).
func Parent(e Expr) Expr {
	return e.parent()
}
