package sigmodel

import (
	"testing"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, sigPlate int, sigFields string) *sigconfig.Config {
	t.Helper()
	set, err := rangeset.Parse(sigFields)
	require.NoError(t, err)
	return &sigconfig.Config{Plate: 10, SigPlate: sigPlate, SigFields: set}
}

func TestTreeInsertOrGetReusesNode(t *testing.T) {
	tree := NewTree()
	cfg := newTestConfig(t, 11, "20-21")

	n1 := tree.InsertOrGet(1, 1, cfg)
	n2 := tree.InsertOrGet(1, 1, cfg)
	assert.Same(t, n1, n2)
	assert.Len(t, n1.Fields, 2)
	assert.Equal(t, 1, tree.Len())
}

func TestTreeOrdersByPatientThenVisit(t *testing.T) {
	tree := NewTree()
	cfg := newTestConfig(t, 11, "20")

	tree.InsertOrGet(2, 1, cfg)
	tree.InsertOrGet(1, 5, cfg)
	tree.InsertOrGet(1, 1, cfg)

	var order [][2]int
	tree.Ascend(func(n *Node) bool {
		order = append(order, [2]int{n.Patient, n.Visit})
		return true
	})
	assert.Equal(t, [][2]int{{1, 1}, {1, 5}, {2, 1}}, order)
}

func TestCoveredPlateTreeInsertOrGet(t *testing.T) {
	cpt := newCoveredPlateTree()
	cp1 := cpt.InsertOrGet(5)
	cp2 := cpt.InsertOrGet(5)
	assert.Same(t, cp1, cp2)
	assert.Equal(t, 1, cpt.Len())
}

func TestFieldChangeTreeInsertOrGetKeepsFirst(t *testing.T) {
	fct := newFieldChangeTree()
	fc1 := &FieldChange{Field: 7, OldValue: "first"}
	got1, inserted1 := fct.InsertOrGet(fc1)
	assert.True(t, inserted1)
	assert.Same(t, fc1, got1)

	fc2 := &FieldChange{Field: 7, OldValue: "second"}
	got2, inserted2 := fct.InsertOrGet(fc2)
	assert.False(t, inserted2)
	assert.Same(t, fc1, got2)
}
