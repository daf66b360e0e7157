package constraint

import (
	"math"

	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

// StepKind is one of the three enumeration rules a numeric feature's range
// domain can step by.
type StepKind int

const (
	StepAdd StepKind = iota
	StepMul
	StepPow
)

// Order distinguishes "var op k" from "k op var". It matters only for
// non-commutative operations: Pow(2, x) and Pow(x, 2) enumerate different
// sequences.
type Order int

const (
	VarFirst  Order = iota // var op k, e.g. x+k, x*k, x^k
	VarSecond              // k op var, e.g. k+x, k*x, k^x
)

// StepFunction enumerates a numeric feature's range domain. next(x) and
// eval(x) are the same operation (the design distinguishes them only by
// call site, not behaviour); both are exposed here as NextInt/NextFloat.
type StepFunction struct {
	Kind  StepKind
	K     int64
	Order Order
}

// NewAddStep builds add(k) in the given operand order.
func NewAddStep(k int64, order Order) *StepFunction {
	return &StepFunction{Kind: StepAdd, K: k, Order: order}
}

// NewMulStep builds mul(k) in the given operand order.
func NewMulStep(k int64, order Order) *StepFunction {
	return &StepFunction{Kind: StepMul, K: k, Order: order}
}

// NewPowStep builds pow(base, exp) in the given operand order: VarFirst
// means x^k, VarSecond means k^x.
func NewPowStep(k int64, order Order) *StepFunction {
	return &StepFunction{Kind: StepPow, K: k, Order: order}
}

// NextInt returns the next value in the enumeration given current value x,
// using wrap-free overflow checks: an overflowing step returns a
// fmerr.NotSupported error rather than silently wrapping.
func (s *StepFunction) NextInt(x int64) (int64, error) {
	switch s.Kind {
	case StepAdd:
		// commutative: order doesn't matter.
		sum := x + s.K
		if (s.K > 0 && sum < x) || (s.K < 0 && sum > x) {
			return 0, fmerr.New(fmerr.NotSupported, "step function: integer overflow in add")
		}
		return sum, nil
	case StepMul:
		if x == 0 || s.K == 0 {
			return 0, nil
		}
		prod := x * s.K
		if prod/s.K != x {
			return 0, fmerr.New(fmerr.NotSupported, "step function: integer overflow in mul")
		}
		return prod, nil
	case StepPow:
		var base, exp int64
		if s.Order == VarFirst {
			base, exp = x, s.K
		} else {
			base, exp = s.K, x
		}
		return intPow(base, exp)
	default:
		return 0, fmerr.Newf(fmerr.NotSupported, "step function: unknown kind %d", s.Kind)
	}
}

// NextFloat returns the next value with IEEE-754 semantics; unlike NextInt
// it never errors (overflow saturates to +/-Inf per IEEE-754).
func (s *StepFunction) NextFloat(x float64) float64 {
	k := float64(s.K)
	switch s.Kind {
	case StepAdd:
		return x + k
	case StepMul:
		return x * k
	case StepPow:
		if s.Order == VarFirst {
			return math.Pow(x, k)
		}
		return math.Pow(k, x)
	default:
		return math.NaN()
	}
}

// Eval is an alias for Next{Int,Float}: eval and next are the same
// operation.
func (s *StepFunction) EvalInt(x int64) (int64, error) { return s.NextInt(x) }
func (s *StepFunction) EvalFloat(x float64) float64    { return s.NextFloat(x) }

func intPow(base, exp int64) (int64, error) {
	if exp < 0 {
		return 0, fmerr.New(fmerr.NotSupported, "step function: negative exponent in integer pow")
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		next := result * base
		if base != 0 && next/base != result {
			return 0, fmerr.New(fmerr.NotSupported, "step function: integer overflow in pow")
		}
		result = next
	}
	return result, nil
}
