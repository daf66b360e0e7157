package modelbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/transaction"
)

func TestBuildFeatureModel_EdgeBeforeChildDeclared(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureRoot("Car"))
	// Declare the edge before the child feature exists, to exercise the
	// staged commit's forward-reference tolerance.
	b.AddEdge("Car", "Engine")
	require.NoError(t, b.MakeFeatureBinary("Engine", false))

	m, err := b.BuildFeatureModel()
	require.NoError(t, err)
	require.NotNil(t, m)

	h, ok := m.Lookup("Engine")
	require.True(t, ok)
	n, ok := m.Get(h)
	require.True(t, ok)

	root, ok := m.Lookup("Car")
	require.True(t, ok)
	require.Equal(t, root, n.Parent)
}

func TestBuildFeatureModel_RelationshipAndConstraint(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureRoot("Car"))
	require.NoError(t, b.MakeFeatureBinary("Petrol", false))
	require.NoError(t, b.MakeFeatureBinary("Diesel", false))
	b.AddEdge("Car", "Petrol")
	b.AddEdge("Car", "Diesel")
	b.EmplaceRelationship(feature.Alternative, "Car")

	expr, err := constraint.NewBuilder().Feature("Petrol").Implies().Not().Feature("Diesel").Build()
	require.NoError(t, err)
	b.AddConstraint(expr, transaction.Boolean, feature.Pos, feature.ReqAll)

	m, err := b.BuildFeatureModel()
	require.NoError(t, err)

	car, ok := m.Get(m.Root())
	require.True(t, ok)
	require.Len(t, car.Children, 1)
	rel, ok := m.Get(car.Children[0])
	require.True(t, ok)
	require.Equal(t, feature.KindRelationship, rel.Kind)
	require.Equal(t, feature.Alternative, rel.RelKind)
	require.Len(t, m.BooleanConstraints(), 1)
}

func TestBuildFeatureModel_MissingRootFails(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureBinary("Petrol", false))

	m, err := b.BuildFeatureModel()
	require.Error(t, err)
	require.Nil(t, m)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.MissingModel, kind)
}

func TestBuildFeatureModel_DuplicateFeatureNameFails(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureRoot("Car"))
	err := b.MakeFeatureBinary("Car", false)
	require.Error(t, err)

	_, err = b.BuildFeatureModel()
	require.Error(t, err)
}

func TestBuildFeatureModel_EdgeToUndeclaredChildFails(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureRoot("Car"))
	b.AddEdge("Car", "Ghost")

	m, err := b.BuildFeatureModel()
	require.Error(t, err)
	require.Nil(t, m)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.MissingFeature, kind)
}

func TestBuildFeatureModel_MakeRootPromotesDeeperFeature(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureRoot("Car"))
	require.NoError(t, b.MakeFeatureBinary("Engine", false))
	b.AddEdge("Car", "Engine")
	b.MakeRoot("Engine")

	m, err := b.BuildFeatureModel()
	require.NoError(t, err)

	root, ok := m.Get(m.Root())
	require.True(t, ok)
	require.Equal(t, "Engine", root.Name)
	require.Equal(t, feature.KindRoot, root.Kind)
}

func TestBuildFeatureModel_ScalarMetadata(t *testing.T) {
	b := New("car")
	require.NoError(t, b.MakeFeatureRoot("Car"))
	b.SetCommit("abc123")
	b.SetPath("models/car.xml")

	m, err := b.BuildFeatureModel()
	require.NoError(t, err)
	require.Equal(t, "abc123", m.Commit())
	require.Equal(t, "models/car.xml", m.Path())
}
