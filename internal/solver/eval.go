package solver

import (
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

// eval evaluates e against a full variable assignment. Boolean-valued nodes
// return 0 or 1, the same representation a boolean variable's assignment
// uses, so arithmetic nodes can read a boolean feature's value directly
// (the mixed-constraint ite(var, 1, 0) lift the translator's rules
// describe falls out of this representation for free).
func eval(e constraint.Expr, assign map[string]int64) (int64, error) {
	switch n := e.(type) {
	case *constraint.Primary:
		if n.IsNumber {
			return n.Number, nil
		}
		v, ok := assign[n.Name]
		if !ok {
			return 0, fmerr.Newf(fmerr.MissingFeature, "unassigned variable %q", n.Name)
		}
		return v, nil

	case *constraint.Unary:
		v, err := eval(n.Child, assign)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case constraint.Not:
			return boolInt(v == 0), nil
		case constraint.Neg:
			return -v, nil
		default:
			return 0, fmerr.Newf(fmerr.Generic, "eval: unknown unary op %v", n.Op)
		}

	case *constraint.Binary:
		l, err := eval(n.Left, assign)
		if err != nil {
			return 0, err
		}
		r, err := eval(n.Right, assign)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case constraint.And:
			return boolInt(l != 0 && r != 0), nil
		case constraint.Or:
			return boolInt(l != 0 || r != 0), nil
		case constraint.Xor:
			return boolInt(l == 0 || r == 0), nil
		case constraint.Implies:
			return boolInt(l == 0 || r != 0), nil
		case constraint.Excludes:
			return boolInt(l == 0 || r == 0), nil
		case constraint.Equivalence:
			return boolInt((l != 0) == (r != 0)), nil
		case constraint.Equal:
			return boolInt(l == r), nil
		case constraint.NotEqual:
			return boolInt(l != r), nil
		case constraint.Less:
			return boolInt(l < r), nil
		case constraint.LessEqual:
			return boolInt(l <= r), nil
		case constraint.Greater:
			return boolInt(l > r), nil
		case constraint.GreaterEqual:
			return boolInt(l >= r), nil
		case constraint.Add:
			return l + r, nil
		case constraint.Sub:
			return l - r, nil
		case constraint.Mul:
			return l * r, nil
		case constraint.Div:
			if r == 0 {
				return 0, fmerr.New(fmerr.Generic, "eval: division by zero")
			}
			return l / r, nil
		default:
			return 0, fmerr.Newf(fmerr.Generic, "eval: unknown binary op %v", n.Op)
		}
	}
	return 0, fmerr.New(fmerr.Generic, "eval: unrecognized expression node")
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// referencedNames collects the distinct feature/variable names e's Primary
// leaves mention, in first-seen order.
func referencedNames(e constraint.Expr) []string {
	var out []string
	seen := make(map[string]bool)
	constraint.Walk(e, func(p *constraint.Primary) {
		if p.IsNumber || seen[p.Name] {
			return
		}
		seen[p.Name] = true
		out = append(out, p.Name)
	})
	return out
}
