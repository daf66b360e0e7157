package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

func TestStepFunction_AddIsCommutative(t *testing.T) {
	s := NewAddStep(2, VarFirst)
	v, err := s.NextInt(4)
	require.NoError(t, err)
	require.Equal(t, int64(6), v)
	v2, err := NewAddStep(2, VarSecond).NextInt(4)
	require.NoError(t, err)
	require.Equal(t, v, v2)
}

func TestStepFunction_MulVarFirstAndVarSecondAgreeWhenCommutative(t *testing.T) {
	first := NewMulStep(3, VarFirst)
	second := NewMulStep(3, VarSecond)
	a, err := first.NextInt(5)
	require.NoError(t, err)
	b, err := second.NextInt(5)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestStepFunction_PowOrderMatters(t *testing.T) {
	varFirst := NewPowStep(2, VarFirst) // x^2
	varSecond := NewPowStep(2, VarSecond) // 2^x

	vf, err := varFirst.NextInt(3)
	require.NoError(t, err)
	require.Equal(t, int64(9), vf)

	vs, err := varSecond.NextInt(3)
	require.NoError(t, err)
	require.Equal(t, int64(8), vs)
}

func TestStepFunction_PowNegativeExponentFails(t *testing.T) {
	s := NewPowStep(2, VarSecond) // k^x with x = -1 -> negative exponent when VarSecond means exp=x
	_, err := s.NextInt(-1)
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.NotSupported, kind)
}

func TestStepFunction_AddOverflowFails(t *testing.T) {
	s := NewAddStep(1, VarFirst)
	_, err := s.NextInt(9223372036854775807)
	require.Error(t, err)
}

func TestStepFunction_MulByZeroIsZero(t *testing.T) {
	s := NewMulStep(0, VarFirst)
	v, err := s.NextInt(100)
	require.NoError(t, err)
	require.Equal(t, int64(0), v)
}

func TestStepFunction_NextFloatSaturatesOnOverflow(t *testing.T) {
	s := NewMulStep(2, VarFirst)
	v := s.NextFloat(1e308)
	require.True(t, v > 1e308)
}

func TestStepFunction_EvalIsAliasForNext(t *testing.T) {
	s := NewAddStep(5, VarFirst)
	nextV, err := s.NextInt(10)
	require.NoError(t, err)
	evalV, err := s.EvalInt(10)
	require.NoError(t, err)
	require.Equal(t, nextV, evalV)
}
