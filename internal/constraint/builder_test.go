package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleBinary(t *testing.T) {
	e, err := NewBuilder().Feature("a").Implies().Not().Feature("b").Build()
	require.NoError(t, err)
	require.Equal(t, "(a -> !(b))", e.String())
}

func TestBuilder_PrecedenceMatchesParser(t *testing.T) {
	fromBuilder, err := NewBuilder().Feature("a").Or().Feature("b").And().Feature("c").Build()
	require.NoError(t, err)

	fromParser, err := Parse("a | b & c")
	require.NoError(t, err)

	require.Equal(t, fromParser.String(), fromBuilder.String())
}

func TestBuilder_ExplicitParentheses(t *testing.T) {
	e, err := NewBuilder().
		OpenPar().Feature("a").Or().Feature("b").ClosePar().
		And().Feature("c").
		Build()
	require.NoError(t, err)
	require.Equal(t, "((a | b) & c)", e.String())
}

func TestBuilder_NumberAndArithmetic(t *testing.T) {
	e, err := NewBuilder().Feature("Num1").Add().Number(1).Ge().Number(3).Build()
	require.NoError(t, err)
	require.Equal(t, "((Num1 + 1) >= 3)", e.String())
}

func TestBuilder_UnbalancedOpenParFails(t *testing.T) {
	_, err := NewBuilder().OpenPar().Feature("a").Build()
	require.Error(t, err)
}

func TestBuilder_UnbalancedCloseParFails(t *testing.T) {
	_, err := NewBuilder().Feature("a").ClosePar().Build()
	require.Error(t, err)
}

func TestBuilder_EmptyBuildFails(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
}

func TestBuilder_DanglingUnaryFails(t *testing.T) {
	b := NewBuilder().Feature("a").And()
	b.Not()
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilder_FirstErrorSticks(t *testing.T) {
	b := NewBuilder().ClosePar()
	require.Error(t, b.err)
	// Further calls after the first failure are no-ops; the original error
	// is what Build reports.
	_, err := b.Feature("a").Build()
	require.Equal(t, b.err, err)
}
