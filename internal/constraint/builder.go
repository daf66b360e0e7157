package constraint

import "github.com/se-sic/vara-feature-go/internal/fmerr"

const parenMarker = -1

// Builder constructs a constraint Expr fluently and programmatically, as an
// alternative to Parse for callers assembling a constraint from already
// structured pieces (the model builder's generated constraints, tooling
// that edits a constraint without round-tripping through text).
//
// Internally it runs precedence climbing over two stacks instead of a
// token stream: operands holds completed sub-expressions (the "root slot"
// is operands[0] once building is done; the "hole" is always the top of
// this stack), and operators holds pending binary operators not yet
// reduced (the "frame stack"). OpenPar/ClosePar push/pop a parenMarker
// sentinel that blocks reduction across the parenthesis boundary,
// standing in for a frame of maximal precedence.
type Builder struct {
	operands     []Expr
	operators    []int
	pendingUnary []UnaryOp
	err          error
}

// NewBuilder starts an empty constraint build.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) fail(kind fmerr.Kind, msg string) {
	if b.err == nil {
		b.err = fmerr.New(kind, msg)
	}
}

// Feature fills the current hole with a feature-name leaf.
func (b *Builder) Feature(name string) *Builder {
	return b.pushOperand(NewPrimaryFeature(name))
}

// Number fills the current hole with an integer-literal leaf.
func (b *Builder) Number(v int64) *Builder {
	return b.pushOperand(NewPrimaryNumber(v))
}

func (b *Builder) pushOperand(e Expr) *Builder {
	if b.err != nil {
		return b
	}
	for i := len(b.pendingUnary) - 1; i >= 0; i-- {
		e = NewUnary(b.pendingUnary[i], e)
	}
	b.pendingUnary = nil
	b.operands = append(b.operands, e)
	return b
}

// Not queues a prefix "!" to apply to whatever fills the next hole.
func (b *Builder) Not() *Builder { b.pendingUnary = append(b.pendingUnary, Not); return b }

// Neg queues a prefix "~" to apply to whatever fills the next hole.
func (b *Builder) Neg() *Builder { b.pendingUnary = append(b.pendingUnary, Neg); return b }

// OpenPar pushes a frame of maximal precedence, deferring all pending
// reductions until the matching ClosePar.
func (b *Builder) OpenPar() *Builder {
	if b.err != nil {
		return b
	}
	b.operators = append(b.operators, parenMarker)
	return b
}

// ClosePar reduces every frame opened since the matching OpenPar and pops
// the marker, collapsing the parenthesised sub-expression into a single
// operand.
func (b *Builder) ClosePar() *Builder {
	if b.err != nil {
		return b
	}
	for len(b.operators) > 0 && b.operators[len(b.operators)-1] != parenMarker {
		if !b.reduce() {
			return b
		}
	}
	if len(b.operators) == 0 {
		b.fail(fmerr.Generic, "builder: unbalanced closePar")
		return b
	}
	b.operators = b.operators[:len(b.operators)-1]
	return b
}

func (b *Builder) binary(op BinaryOp) *Builder {
	if b.err != nil {
		return b
	}
	prec := op.precedence()
	rightAssoc := op.rightAssociative()
	for len(b.operators) > 0 {
		top := b.operators[len(b.operators)-1]
		if top == parenMarker {
			break
		}
		topPrec := BinaryOp(top).precedence()
		if rightAssoc {
			if topPrec <= prec {
				break
			}
		} else if topPrec < prec {
			break
		}
		if !b.reduce() {
			return b
		}
	}
	b.operators = append(b.operators, int(op))
	return b
}

// reduce pops the top operator and its two operands and pushes the
// resulting Binary node. It reports false (after recording an error) if
// the stacks are too short, which only happens on malformed call
// sequences (e.g. two operators in a row with no operand between them).
func (b *Builder) reduce() bool {
	if len(b.operators) == 0 || len(b.operands) < 2 {
		b.fail(fmerr.Generic, "builder: missing operand for pending operator")
		return false
	}
	op := BinaryOp(b.operators[len(b.operators)-1])
	b.operators = b.operators[:len(b.operators)-1]
	right := b.operands[len(b.operands)-1]
	left := b.operands[len(b.operands)-2]
	b.operands = b.operands[:len(b.operands)-2]
	b.operands = append(b.operands, NewBinary(op, left, right))
	return true
}

func (b *Builder) And() *Builder         { return b.binary(And) }
func (b *Builder) Or() *Builder          { return b.binary(Or) }
func (b *Builder) Xor() *Builder         { return b.binary(Xor) }
func (b *Builder) Implies() *Builder     { return b.binary(Implies) }
func (b *Builder) Excludes() *Builder    { return b.binary(Excludes) }
func (b *Builder) Equivalence() *Builder { return b.binary(Equivalence) }
func (b *Builder) Eq() *Builder          { return b.binary(Equal) }
func (b *Builder) Neq() *Builder         { return b.binary(NotEqual) }
func (b *Builder) Lt() *Builder          { return b.binary(Less) }
func (b *Builder) Le() *Builder          { return b.binary(LessEqual) }
func (b *Builder) Gt() *Builder          { return b.binary(Greater) }
func (b *Builder) Ge() *Builder          { return b.binary(GreaterEqual) }
func (b *Builder) Add() *Builder         { return b.binary(Add) }
func (b *Builder) Sub() *Builder         { return b.binary(Sub) }
func (b *Builder) Mul() *Builder         { return b.binary(Mul) }
func (b *Builder) Div() *Builder         { return b.binary(Div) }

// Build finishes the construction. It fails if a paren is left open, the
// root slot is empty, or the hole is unfilled (a pending unary with
// nothing pushed after it, or an operator with no following operand).
func (b *Builder) Build() (Expr, error) {
	if b.err != nil {
		return nil, b.err
	}
	for len(b.operators) > 0 {
		if b.operators[len(b.operators)-1] == parenMarker {
			return nil, fmerr.New(fmerr.Generic, "builder: unbalanced openPar")
		}
		if !b.reduce() {
			return nil, b.err
		}
	}
	if len(b.pendingUnary) > 0 {
		return nil, fmerr.New(fmerr.Generic, "builder: dangling unary operator with no operand")
	}
	switch len(b.operands) {
	case 0:
		return nil, fmerr.New(fmerr.Generic, "builder: empty root slot")
	case 1:
		return b.operands[0], nil
	default:
		return nil, fmerr.New(fmerr.Generic, "builder: unfilled hole between operands")
	}
}
