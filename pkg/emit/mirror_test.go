package emit

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorWriteSignatureAndDataValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")
	m, err := OpenMirror(path, nil)
	require.NoError(t, err)

	set, err := rangeset.Parse("20")
	require.NoError(t, err)
	cfg := &sigconfig.Config{Handle: 1, Plate: 10, SigPlate: 11, Name: "AE", SigFields: set}
	tree := sigmodel.NewTree()
	n := tree.InsertOrGet(100, 1, cfg)
	n.Fields[0].Completed = true
	n.Fields[0].Desc = "Signed"
	n.Fields[0].Value = "yes"
	n.Signer = "alice"
	n.Date = "20240101"
	n.Time = "120000"
	n.TxnID = 7

	cp := n.Plates.InsertOrGet(10)
	fc, _ := cp.Changes.InsertOrGet(&sigmodel.FieldChange{Field: 30, Desc: "Some field", NewValue: "B"})
	_ = fc

	m.WriteSignature(n, 7)
	require.NoError(t, m.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var signer string
	require.NoError(t, db.QueryRow(`select signer from signings where txnid=? and sigid=?`, 7, 1).Scan(&signer))
	assert.Equal(t, "alice", signer)

	var value string
	require.NoError(t, db.QueryRow(`select fvalue from signature_values where txnid=? and sigid=? and field=?`, 7, 1, 20).Scan(&value))
	assert.Equal(t, "yes", value)

	require.NoError(t, db.QueryRow(`select fvalue from data_values where txnid=? and sigid=? and field=?`, 7, 1, 30).Scan(&value))
	assert.Equal(t, "B", value)
}

func TestMirrorUpdateSignatureValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")
	m, err := OpenMirror(path, nil)
	require.NoError(t, err)

	cfg := &sigconfig.Config{Handle: 2, Plate: 10, SigPlate: 11}
	tree := sigmodel.NewTree()
	cfg.SigFields, _ = rangeset.Parse("20")
	n := tree.InsertOrGet(101, 1, cfg)
	n.TxnID = 9

	m.UpdateSignatureValue(n, 10, 30, "Some field", "C")
	require.NoError(t, m.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var value string
	require.NoError(t, db.QueryRow(`select fvalue from data_values where txnid=? and sigid=? and field=?`, 9, 2, 30).Scan(&value))
	assert.Equal(t, "C", value)
}
