package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinary_StringIsFullyParenthesised(t *testing.T) {
	e := NewBinary(And, NewPrimaryFeature("a"), NewBinary(Or, NewPrimaryFeature("b"), NewPrimaryFeature("c")))
	require.Equal(t, "(a & (b | c))", e.String())
}

func TestUnary_StringWrapsChild(t *testing.T) {
	e := NewUnary(Not, NewPrimaryFeature("a"))
	require.Equal(t, "!(a)", e.String())
}

func TestPrimary_StringDistinguishesNumberFromFeature(t *testing.T) {
	require.Equal(t, "42", NewPrimaryNumber(42).String())
	require.Equal(t, "a", NewPrimaryFeature("a").String())
}

func TestClone_DeepCopiesAndDropsBinding(t *testing.T) {
	p := NewPrimaryFeature("a")
	p.Bind(7)
	e := NewBinary(And, p, NewPrimaryNumber(1))

	clone := e.Clone().(*Binary)
	clonedPrimary := clone.Left.(*Primary)

	require.False(t, clonedPrimary.Bound, "clone should not carry over a handle binding")
	require.Equal(t, "a", clonedPrimary.Name)

	// mutating the clone must not affect the original.
	clonedPrimary.Name = "b"
	require.Equal(t, "a", p.Name)
}

func TestSetParent_TracksEnclosingExpr(t *testing.T) {
	left := NewPrimaryFeature("a")
	right := NewPrimaryFeature("b")
	bin := NewBinary(And, left, right)

	require.Equal(t, Expr(bin), Parent(left))
	require.Equal(t, Expr(bin), Parent(right))
	require.Nil(t, Parent(bin))
}

func TestWalk_CollectsEveryPrimaryLeaf(t *testing.T) {
	expr := NewBinary(And,
		NewUnary(Not, NewPrimaryFeature("a")),
		NewBinary(Or, NewPrimaryFeature("b"), NewPrimaryNumber(3)),
	)

	var names []string
	Walk(expr, func(p *Primary) {
		if !p.IsNumber {
			names = append(names, p.Name)
		}
	})
	require.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestBinaryOp_StringRoundTripsKnownOperators(t *testing.T) {
	cases := map[BinaryOp]string{
		And: "&", Or: "|", Xor: "^", Implies: "->", Excludes: "excludes",
		Equivalence: "<->", Equal: "==", NotEqual: "!=",
		Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
		Add: "+", Sub: "-", Mul: "*", Div: "/",
	}
	for op, want := range cases {
		require.Equal(t, want, op.String())
	}
}
