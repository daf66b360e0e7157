// Package consistency runs the feature-model invariant checks: exactly
// one root, every non-root node has a live parent, and every parent/child
// edge is mutually consistent. Each rule is independent and reports its
// own violations rather than short-circuiting on the first failure, so a
// caller sees every problem in one pass instead of fixing them one at a
// time.
package consistency

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
	"github.com/se-sic/vara-feature-go/internal/logging"
)

// ExactlyOneRootNode checks that the model has exactly one Root-kind
// feature and that it matches the model's designated root.
func ExactlyOneRootNode(m *feature.FeatureModel) error {
	root := m.Root()
	if root == handle.Invalid {
		return fmerr.New(fmerr.Inconsistent, "model has no root feature")
	}
	n, ok := m.Get(root)
	if !ok {
		return fmerr.New(fmerr.Inconsistent, "model's root handle does not resolve to a node")
	}
	if n.Kind != feature.KindRoot {
		return fmerr.Newf(fmerr.Inconsistent, "model's designated root %q is not Root-kind", n.Name)
	}

	var extraRoots int
	for _, h := range m.Features() {
		fn, ok := m.Get(h)
		if ok && fn.Kind == feature.KindRoot && h != root {
			extraRoots++
		}
	}
	if extraRoots > 0 {
		return fmerr.Newf(fmerr.Inconsistent, "model has %d extra root-kind features besides the designated root", extraRoots)
	}
	return nil
}

// EveryFeatureRequiresParent checks that every non-root feature has a
// parent pointer that still resolves to a node present in the model.
func EveryFeatureRequiresParent(m *feature.FeatureModel) error {
	var result error
	for _, h := range m.Features() {
		n, ok := m.Get(h)
		if !ok {
			continue
		}
		if n.Kind == feature.KindRoot {
			continue
		}
		if n.Parent == handle.Invalid {
			result = multierror.Append(result, fmerr.Newf(fmerr.MissingParent, "feature %q has no parent", n.Name))
			continue
		}
		if _, ok := m.Get(n.Parent); !ok {
			result = multierror.Append(result, fmerr.Newf(fmerr.MissingParent, "feature %q's parent is not present in the model", n.Name))
		}
	}
	return result
}

// CheckFeatureParentChildRelationShip checks that for every node P and
// every child C in P's child list, C's own parent pointer is P.
func CheckFeatureParentChildRelationShip(m *feature.FeatureModel) error {
	var result error
	for _, parentHandle := range allHandles(m) {
		p, ok := m.Get(parentHandle)
		if !ok {
			continue
		}
		for _, childHandle := range p.Children {
			c, ok := m.Get(childHandle)
			if !ok {
				result = multierror.Append(result, fmerr.Newf(fmerr.Inconsistent,
					"node %s lists a child handle that does not resolve", describeNode(p)))
				continue
			}
			if c.Parent != parentHandle {
				result = multierror.Append(result, fmerr.Newf(fmerr.Inconsistent,
					"child %s's parent pointer does not point back to %s", describeNode(c), describeNode(p)))
			}
		}
	}
	return result
}

// allHandles returns every node handle in the model, features and
// relationship groups alike (Features() only yields Feature-kind nodes,
// but parent/child symmetry must hold for Relationship nodes too).
func allHandles(m *feature.FeatureModel) []handle.Handle {
	var out []handle.Handle
	var walk func(h handle.Handle)
	seen := make(map[handle.Handle]bool)
	walk = func(h handle.Handle) {
		if h == handle.Invalid || seen[h] {
			return
		}
		seen[h] = true
		n, ok := m.Get(h)
		if !ok {
			return
		}
		out = append(out, h)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(m.Root())
	return out
}

func describeNode(n *feature.Node) string {
	if n.Kind == feature.KindRelationship {
		return fmt.Sprintf("relationship(%s)", n.RelKind)
	}
	return fmt.Sprintf("feature %q", n.Name)
}

// IsFeatureModelValid is the conjunction of the three rules, invoked on
// every transaction commit.
func IsFeatureModelValid(m *feature.FeatureModel) error {
	var result error
	if err := ExactlyOneRootNode(m); err != nil {
		result = multierror.Append(result, err)
	}
	if err := EveryFeatureRequiresParent(m); err != nil {
		result = multierror.Append(result, err)
	}
	if err := CheckFeatureParentChildRelationShip(m); err != nil {
		result = multierror.Append(result, err)
	}
	if result != nil {
		logging.For(logging.CategoryConsistency).Warn("model validation failed", zap.String("model", m.Name()))
	}
	return result
}
