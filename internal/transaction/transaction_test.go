package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
)

func newRootedModel(t *testing.T) *feature.FeatureModel {
	t.Helper()
	m := feature.New("test")
	_, err := m.AddFeatureNode(feature.NewRoot("Root"), handle.Invalid)
	require.NoError(t, err)
	return m
}

func TestModifyMode_CommitReplaysQueuedOps(t *testing.T) {
	m := newRootedModel(t)
	txn := Begin(m, ModifyMode)

	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Child", true)}))

	// Queued ops are not yet visible on the borrowed model.
	_, ok := m.Lookup("Child")
	require.False(t, ok)

	committed, err := txn.Commit()
	require.NoError(t, err)
	require.Same(t, m, committed)

	h, ok := m.Lookup("Child")
	require.True(t, ok)
	n, ok := m.Get(h)
	require.True(t, ok)
	require.Equal(t, "Child", n.Name)
	require.Equal(t, StatusCommitted, txn.Status())
}

func TestModifyMode_FailedOpRollsBackInPlace(t *testing.T) {
	m := newRootedModel(t)
	_, err := m.AddFeatureNode(feature.NewBinary("Existing", true), handle.Invalid)
	require.NoError(t, err)

	txn := Begin(m, ModifyMode)
	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("NewOne", true)}))
	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Existing", true)})) // name collision

	_, err = txn.Commit()
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.Aborted, kind)
	require.Equal(t, StatusAborted, txn.Status())

	// m must be exactly as it was before Commit was attempted: NewOne never
	// took effect despite being applied earlier in the same replay.
	_, ok = m.Lookup("NewOne")
	require.False(t, ok)
	_, ok = m.Lookup("Existing")
	require.True(t, ok)
	require.Equal(t, 2, m.Size())
}

func TestModifyMode_FailedValidationRollsBack(t *testing.T) {
	m := newRootedModel(t)
	require.NoError(t, m.AddLocation(m.Root(), feature.FeatureSourceRange{Path: "root.c"}))

	txn := Begin(m, ModifyMode)
	// Recursively removing the root succeeds as an op (RemoveFeatureNode
	// doesn't special-case Kind), but leaves the model with no root at all,
	// which ExactlyOneRootNode rejects at Commit's validation step.
	require.NoError(t, txn.AddOp(&RemoveFeatureOp{TargetName: "Root", Recursive: true}))

	_, err := txn.Commit()
	require.Error(t, err)
	kind, ok := fmerr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fmerr.Inconsistent, kind)
	require.Equal(t, StatusAborted, txn.Status())

	// m is restored exactly: the root is back, with its location intact.
	root, ok := m.Lookup("Root")
	require.True(t, ok)
	n, ok := m.Get(root)
	require.True(t, ok)
	require.Len(t, n.Locations, 1)
}

func TestCopyMode_OpsVisibleImmediatelyOnClone(t *testing.T) {
	m := newRootedModel(t)
	txn := Begin(m, CopyMode)

	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Child", true)}))

	// Visible on the transaction's own clone...
	_, ok := txn.Model().Lookup("Child")
	require.True(t, ok)
	// ...but not on the original model.
	_, ok = m.Lookup("Child")
	require.False(t, ok)

	clone, err := txn.Commit()
	require.NoError(t, err)
	require.NotSame(t, m, clone)
	_, ok = clone.Lookup("Child")
	require.True(t, ok)
}

func TestCopyMode_FailedValidationDiscardsClone(t *testing.T) {
	m := newRootedModel(t)
	txn := Begin(m, CopyMode)

	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Child", true)}))
	require.NoError(t, txn.AddOp(&RemoveFeatureOp{TargetName: "Root", Recursive: true}))

	clone, err := txn.Commit()
	require.Error(t, err)
	require.Nil(t, clone)
	require.Equal(t, StatusAborted, txn.Status())

	// Original untouched throughout.
	_, ok := m.Lookup("Child")
	require.False(t, ok)
	_, ok = m.Lookup("Root")
	require.True(t, ok)
}

func TestAbort_LeavesBorrowedModelUntouched(t *testing.T) {
	m := newRootedModel(t)
	txn := Begin(m, ModifyMode)
	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Child", true)}))

	txn.Abort("no longer needed")

	require.Equal(t, StatusAborted, txn.Status())
	_, ok := m.Lookup("Child")
	require.False(t, ok)

	err := txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("TooLate", true)})
	require.Error(t, err)
}

func TestFinalize_ModifyModeBestEffortCommit(t *testing.T) {
	m := newRootedModel(t)
	txn := Begin(m, ModifyMode)
	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Child", true)}))

	txn.Finalize()

	require.Equal(t, StatusCommitted, txn.Status())
	_, ok := m.Lookup("Child")
	require.True(t, ok)
}

func TestFinalize_CopyModeLogsProgrammingError(t *testing.T) {
	m := newRootedModel(t)
	txn := Begin(m, CopyMode)
	require.NoError(t, txn.AddOp(&AddFeatureOp{Node: feature.NewBinary("Child", true)}))

	txn.Finalize()

	require.Equal(t, StatusAborted, txn.Status())
	// The model the caller holds was never touched; only the transaction's
	// private clone reflected the queued op.
	_, ok := m.Lookup("Child")
	require.False(t, ok)
}
