package feature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
)

func mustAdd(t *testing.T, m *FeatureModel, n *Node, parent handle.Handle) handle.Handle {
	t.Helper()
	h, err := m.AddFeatureNode(n, parent)
	require.NoError(t, err)
	return h
}

func TestAddFeatureNode_RootThenChildren(t *testing.T) {
	m := New("car")
	root := mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	engine := mustAdd(t, m, NewBinary("Engine", false), handle.Invalid)

	n, ok := m.Get(engine)
	require.True(t, ok)
	require.Equal(t, root, n.Parent)
	require.Equal(t, 2, m.Size())
}

func TestAddFeatureNode_SecondRootFails(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	_, err := m.AddFeatureNode(NewRoot("Other"), handle.Invalid)
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.Inconsistent, kind)
}

func TestAddFeatureNode_DuplicateNameFails(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	_, err := m.AddFeatureNode(NewBinary("Car", false), handle.Invalid)
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.AlreadyPresent, kind)
}

func TestAddFeatureNode_NoRootNoParentFails(t *testing.T) {
	m := New("car")
	_, err := m.AddFeatureNode(NewBinary("Engine", false), handle.Invalid)
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.MissingParent, kind)
}

func TestFeatures_DepthFirstCaseInsensitiveOrder(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	mustAdd(t, m, NewBinary("zebra", false), root)
	mustAdd(t, m, NewBinary("Apple", false), root)
	mustAdd(t, m, NewBinary("banana", false), root)

	var names []string
	for _, h := range m.Features() {
		n, _ := m.Get(h)
		names = append(names, n.Name)
	}
	require.Equal(t, []string{"Car", "Apple", "banana", "zebra"}, names)
}

func TestFeatures_RelationshipGroupIsTransparentToOrdering(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	mustAdd(t, m, NewBinary("Petrol", false), root)
	mustAdd(t, m, NewBinary("Diesel", false), root)
	relHandle, err := m.AddRelationship(Alternative, root)
	require.NoError(t, err)
	rel, ok := m.Get(relHandle)
	require.True(t, ok)
	require.Equal(t, Alternative, rel.RelKind)

	var names []string
	for _, h := range m.Features() {
		n, _ := m.Get(h)
		names = append(names, n.Name)
	}
	require.Equal(t, []string{"Car", "Diesel", "Petrol"}, names)
}

func TestRemoveFeatureNode_LeafSucceeds(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	engine := mustAdd(t, m, NewBinary("Engine", false), handle.Invalid)

	require.NoError(t, m.RemoveFeatureNode(engine, false))
	require.Equal(t, 1, m.Size())
	_, ok := m.Lookup("Engine")
	require.False(t, ok)
}

func TestRemoveFeatureNode_NonLeafRequiresRecursive(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	engine := mustAdd(t, m, NewBinary("Engine", false), root)
	mustAdd(t, m, NewBinary("Turbo", false), engine)

	err := m.RemoveFeatureNode(engine, false)
	require.Error(t, err)

	require.NoError(t, m.RemoveFeatureNode(engine, true))
	require.Equal(t, 1, m.Size())
	_, ok := m.Lookup("Turbo")
	require.False(t, ok)
}

func TestAddBooleanConstraint_BindsFeatureLeaves(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	a := mustAdd(t, m, NewBinary("a", true), root)
	mustAdd(t, m, NewBinary("b", true), root)

	expr, err := constraint.Parse("a -> !b")
	require.NoError(t, err)
	require.NoError(t, m.AddBooleanConstraint(expr))

	n, ok := m.Get(a)
	require.True(t, ok)
	require.Len(t, n.Constraints, 1)
	require.Len(t, m.BooleanConstraints(), 1)
}

func TestAddBooleanConstraint_UnknownFeatureFails(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)

	expr, err := constraint.Parse("Ghost")
	require.NoError(t, err)
	err = m.AddBooleanConstraint(expr)
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.MissingFeature, kind)
}

func TestClone_IsIndependentOfSource(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	mustAdd(t, m, NewBinary("Engine", false), root)

	clone := m.Clone()
	_, err := clone.AddFeatureNode(NewBinary("Turbo", false), clone.Root())
	require.NoError(t, err)

	require.Equal(t, 2, m.Size())
	require.Equal(t, 3, clone.Size())
	_, ok := m.Lookup("Turbo")
	require.False(t, ok)
}

func TestClone_PreservesConstraintBindings(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	mustAdd(t, m, NewBinary("a", true), root)
	mustAdd(t, m, NewBinary("b", true), root)
	expr, err := constraint.Parse("a -> !b")
	require.NoError(t, err)
	require.NoError(t, m.AddBooleanConstraint(expr))

	clone := m.Clone()
	require.Len(t, clone.BooleanConstraints(), 1)

	aHandle, ok := clone.Lookup("a")
	require.True(t, ok)
	n, ok := clone.Get(aHandle)
	require.True(t, ok)
	require.Len(t, n.Constraints, 1)
}

func TestRestoreFrom_OverwritesInPlaceKeepingIdentity(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	snap := m.Clone()

	root := m.Root()
	mustAdd(t, m, NewBinary("Engine", false), root)
	require.Equal(t, 2, m.Size())

	m.RestoreFrom(snap)
	require.Equal(t, 1, m.Size())
	_, ok := m.Lookup("Engine")
	require.False(t, ok)
}

func TestSetRoot_MigratesOldRootsChildren(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	engine := mustAdd(t, m, NewBinary("Engine", false), root)

	require.NoError(t, m.SetRoot(engine))

	newRoot, ok := m.Get(m.Root())
	require.True(t, ok)
	require.Equal(t, "Engine", newRoot.Name)
	require.Equal(t, KindRoot, newRoot.Kind)
	_, stillThere := m.Lookup("Car")
	require.False(t, stillThere)
}

func TestClone_NodeDataIsStructurallyEqualButIndependent(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	engineHandle := mustAdd(t, m, NewBinary("Engine", true), root)
	require.NoError(t, m.AddLocation(engineHandle, FeatureSourceRange{
		Path:     "car.feature",
		Start:    &Location{Line: 3, Column: 1},
		End:      &Location{Line: 3, Column: 10},
		Category: Necessary,
	}))

	clone := m.Clone()
	cloneEngineHandle, ok := clone.Lookup("Engine")
	require.True(t, ok)

	original, ok := m.Get(engineHandle)
	require.True(t, ok)
	cloned, ok := clone.Get(cloneEngineHandle)
	require.True(t, ok)

	// Every field but Constraints (deliberately nil on a raw node.clone())
	// must match byte-for-byte; Constraints is populated separately by
	// FeatureModel.Clone's rebind pass and compared on its own below.
	diff := cmp.Diff(original, cloned, cmpopts.IgnoreFields(Node{}, "Constraints"))
	require.Empty(t, diff, "cloned node data diverged from the source")

	require.Len(t, cloned.Locations, 1)
	cloned.Locations[0].Path = "mutated.feature"
	require.Equal(t, "car.feature", original.Locations[0].Path, "clone's location slice must be independent of the source")
}

func TestAddChild_RepointsOldParent(t *testing.T) {
	m := New("car")
	mustAdd(t, m, NewRoot("Car"), handle.Invalid)
	root := m.Root()
	a := mustAdd(t, m, NewBinary("A", false), root)
	b := mustAdd(t, m, NewBinary("B", false), root)

	require.NoError(t, m.AddChild(a, b))

	bn, ok := m.Get(b)
	require.True(t, ok)
	require.Equal(t, a, bn.Parent)

	rootNode, ok := m.Get(root)
	require.True(t, ok)
	require.NotContains(t, rootNode.Children, b)
}
