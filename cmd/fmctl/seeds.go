package main

import (
	"fmt"

	fm "github.com/se-sic/vara-feature-go/pkg/featuremodel"
)

// buildSeed constructs one of the demonstration scenarios by name through
// the public builder facade, the same path any external collaborator would
// use.
func buildSeed(name string) (*fm.Model, error) {
	switch name {
	case "single-binary":
		return buildSingleBinary()
	case "optional-binary":
		return buildOptionalBinary()
	case "alternative-group":
		return buildAlternativeGroup()
	case "or-group":
		return buildOrGroup()
	case "cross-tree":
		return buildCrossTree()
	case "numeric-list":
		return buildNumericList()
	default:
		return nil, fmt.Errorf("unknown seed %q (available: single-binary, optional-binary, alternative-group, or-group, cross-tree, numeric-list)", name)
	}
}

func buildSingleBinary() (*fm.Model, error) {
	b := fm.NewBuilder("single-binary")
	if err := b.MakeFeatureRoot("r"); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("a", false); err != nil {
		return nil, err
	}
	b.AddEdge("r", "a")
	return b.BuildFeatureModel()
}

func buildOptionalBinary() (*fm.Model, error) {
	b := fm.NewBuilder("optional-binary")
	if err := b.MakeFeatureRoot("r"); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("a", true); err != nil {
		return nil, err
	}
	b.AddEdge("r", "a")
	return b.BuildFeatureModel()
}

func buildAlternativeGroup() (*fm.Model, error) {
	b := fm.NewBuilder("alternative-group")
	if err := b.MakeFeatureRoot("r"); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("A", false); err != nil {
		return nil, err
	}
	for _, child := range []string{"A1", "A2", "A3"} {
		if err := b.MakeFeatureBinary(child, true); err != nil {
			return nil, err
		}
	}
	b.AddEdge("r", "A")
	b.EmplaceRelationship(fm.Alternative, "A")
	b.AddEdge("A", "A1")
	b.AddEdge("A", "A2")
	b.AddEdge("A", "A3")
	return b.BuildFeatureModel()
}

func buildOrGroup() (*fm.Model, error) {
	b := fm.NewBuilder("or-group")
	if err := b.MakeFeatureRoot("r"); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("C", false); err != nil {
		return nil, err
	}
	for _, child := range []string{"C1", "C2", "C3"} {
		if err := b.MakeFeatureBinary(child, true); err != nil {
			return nil, err
		}
	}
	b.AddEdge("r", "C")
	b.EmplaceRelationship(fm.Or, "C")
	b.AddEdge("C", "C1")
	b.AddEdge("C", "C2")
	b.AddEdge("C", "C3")
	return b.BuildFeatureModel()
}

func buildCrossTree() (*fm.Model, error) {
	implication, err := fm.ParseConstraint("a -> !b")
	if err != nil {
		return nil, err
	}
	return buildCrossTreeWithConstraint(implication)
}

// buildCrossTreeWithConstraint builds the cross-tree seed's "a", "b"
// features under a caller-supplied constraint instead of the hardcoded
// "a -> !b", so fmctl watch can re-enumerate against whatever expression a
// watched file currently parses to.
func buildCrossTreeWithConstraint(expr fm.Constraint) (*fm.Model, error) {
	b := fm.NewBuilder("cross-tree")
	if err := b.MakeFeatureRoot("r"); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("a", true); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("b", true); err != nil {
		return nil, err
	}
	b.AddEdge("r", "a")
	b.AddEdge("r", "b")
	b.AddConstraint(expr, fm.BooleanConstraint, fm.Pos, fm.ReqNone)
	return b.BuildFeatureModel()
}

func buildNumericList() (*fm.Model, error) {
	b := fm.NewBuilder("numeric-list")
	if err := b.MakeFeatureRoot("r"); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureNumericList("Num1", true, []int64{0, 1}); err != nil {
		return nil, err
	}
	if err := b.MakeFeatureBinary("Foo", true); err != nil {
		return nil, err
	}
	b.AddEdge("r", "Num1")
	b.AddEdge("r", "Foo")
	return b.BuildFeatureModel()
}
