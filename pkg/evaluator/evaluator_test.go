package evaluator

import (
	"testing"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T, sigPlate int, sigFields string) (*sigmodel.Tree, *sigmodel.Node) {
	t.Helper()
	set, err := rangeset.Parse(sigFields)
	require.NoError(t, err)
	cfg := &sigconfig.Config{Plate: 10, SigPlate: sigPlate, SigFields: set}
	tree := sigmodel.NewTree()
	n := tree.InsertOrGet(1, 1, cfg)
	n.Status.Signature = sigmodel.SigComplete
	n.Signer = "alice"
	return tree, n
}

func TestEvaluateBubblesDeclinedChangeUpToNode(t *testing.T) {
	tree, n := newNode(t, 11, "20")
	cp := n.Plates.InsertOrGet(10)
	cp.Status.Rec = sigmodel.RecNormal
	fc, _ := cp.Changes.InsertOrGet(&sigmodel.FieldChange{Field: 30, Who: "bob"})
	fc.Status.Change = sigmodel.ChangeDeclined

	Evaluate(tree, false, false)

	assert.Equal(t, sigmodel.ChangeDeclined, cp.Status.Change)
	assert.Equal(t, sigmodel.ChangeDeclined, n.Status.Change)
	assert.Equal(t, sigmodel.SigComplete, fc.Status.Signature)
}

func TestEvaluateAllowSignerChangesExemptsSignersOwnEdit(t *testing.T) {
	tree, n := newNode(t, 11, "20")
	cp := n.Plates.InsertOrGet(10)
	fc, _ := cp.Changes.InsertOrGet(&sigmodel.FieldChange{Field: 30, Who: "alice"})
	fc.Status.Change = sigmodel.ChangeDeclined

	Evaluate(tree, true, false)

	assert.Equal(t, sigmodel.ChangeAccepted, fc.Status.Change)
	assert.Equal(t, "Changed by Signer", fc.Comment)
	assert.Equal(t, sigmodel.ChangeAccepted, n.Status.Change)
}

func TestEvaluateResignAtFinalDefersUntilPlateIsFinal(t *testing.T) {
	tree, n := newNode(t, 11, "20")
	cp := n.Plates.InsertOrGet(10)
	cp.IsFinal = false
	fc, _ := cp.Changes.InsertOrGet(&sigmodel.FieldChange{Field: 30})
	fc.Status.Change = sigmodel.ChangeDeclined

	Evaluate(tree, false, true)

	assert.Equal(t, sigmodel.ChangeDeclinedAtFinal, fc.Status.Change)
	assert.Equal(t, sigmodel.ChangeDeclinedAtFinal, n.Status.Change)

	cp.IsFinal = true
	fc.Status.Change = sigmodel.ChangeDeclined
	Evaluate(tree, false, true)
	assert.Equal(t, sigmodel.ChangeDeclined, fc.Status.Change)
}

func TestEvaluateRecStatusOnlyPushedFromSigPlate(t *testing.T) {
	tree, n := newNode(t, 11, "20")
	sigCP := n.Plates.InsertOrGet(11)
	sigCP.Status.Rec = sigmodel.RecError
	otherCP := n.Plates.InsertOrGet(10)
	otherCP.Status.Rec = sigmodel.RecLost

	Evaluate(tree, false, false)

	assert.Equal(t, sigmodel.RecError, n.Status.Rec)
}

func TestEvaluateResetsNodeChangeStatusEachPass(t *testing.T) {
	tree, n := newNode(t, 11, "20")
	n.Status.Change = sigmodel.ChangeDeclined

	Evaluate(tree, false, false)

	assert.Equal(t, sigmodel.ChangeNone, n.Status.Change)
}
