package emit

import (
	"database/sql"
	"fmt"

	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
drop table if exists signings;
drop table if exists signature_values;
drop table if exists data_values;
create table signings (
  txnid  int not null,
  sigid  int not null,
  pid    int not null,
  visit  int not null,
  plate  int not null,
  sdesc  text,
  signer text,
  sdate  text,
  stime  text,
  primary key (txnid, sigid));
create table signature_values (
  txnid  int not null,
  sigid  int not null,
  plate  int not null,
  field  int not null,
  fdesc  text,
  fvalue text,
  primary key(txnid, sigid, plate, field));
create table data_values (
  txnid  int not null,
  sigid  int not null,
  plate  int not null,
  field  int not null,
  fdesc  text,
  fvalue text,
  primary key(txnid, sigid, plate, field));
create index signings_idx on signings(pid, visit, plate);
`

// Mirror writes signing events and their field values into a relational
// SQLite database, structurally implementing ingest.Mirror. One run opens
// a single transaction spanning the whole ingestion pass, matching
// db_open/db_close in db.c.
type Mirror struct {
	db  *sql.DB
	tx  *sql.Tx
	log func(format string, args ...any)
}

// OpenMirror creates (or replaces) the schema at path and begins the
// run's single transaction, matching db_open.
func OpenMirror(path string, logf func(format string, args ...any)) (*Mirror, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("emit: opening mirror database %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("emit: initializing mirror schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("emit: beginning mirror transaction: %w", err)
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Mirror{db: db, tx: tx, log: logf}, nil
}

// Close commits the run's transaction and closes the database, matching
// db_close.
func (m *Mirror) Close() error {
	if m == nil {
		return nil
	}
	if err := m.tx.Commit(); err != nil {
		m.db.Close()
		return fmt.Errorf("emit: committing mirror transaction: %w", err)
	}
	return m.db.Close()
}

// WriteSignature records a completed signing event and every field value
// it covers — the signature fields themselves, and every data field
// change accumulated on the node's covered plates — matching
// db_write_signature. A storage failure is logged and the write
// abandoned without aborting ingestion, matching the original's "log and
// continue" behavior on bind/step errors.
func (m *Mirror) WriteSignature(n *sigmodel.Node, txnID uint64) {
	if m == nil || n.TxnID != txnID {
		return
	}

	if _, err := m.tx.Exec(
		`insert or replace into signings values (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txnID, n.Config.Handle, n.Patient, n.Visit, n.Config.SigPlate,
		n.Config.Name, n.Signer, n.Date, n.Time,
	); err != nil {
		m.log("emit: writing signing record: %v", err)
		return
	}

	for _, f := range n.Fields {
		if err := m.writeValue("signature_values", txnID, n.Config.Handle, n.Config.SigPlate, f.Field, f.Desc, f.Value); err != nil {
			m.log("emit: writing signature value: %v", err)
			return
		}
	}

	n.Plates.Ascend(func(cp *sigmodel.CoveredPlate) bool {
		cp.Changes.Ascend(func(fc *sigmodel.FieldChange) bool {
			if err := m.writeValue("data_values", txnID, n.Config.Handle, cp.Plate, fc.Field, fc.Desc, fc.NewValue); err != nil {
				m.log("emit: writing data value: %v", err)
				return false
			}
			return true
		})
		return true
	})
}

// UpdateSignatureValue records one field value that changed during the
// active signing transaction, matching db_update_signature_value.
func (m *Mirror) UpdateSignatureValue(n *sigmodel.Node, plate, field int, desc, value string) {
	if m == nil {
		return
	}
	if err := m.writeValue("data_values", n.TxnID, n.Config.Handle, plate, field, desc, value); err != nil {
		m.log("emit: updating signature value: %v", err)
	}
}

func (m *Mirror) writeValue(table string, txnID uint64, serial, plate, field int, desc, value string) error {
	_, err := m.tx.Exec(
		fmt.Sprintf(`insert or replace into %s values (?, ?, ?, ?, ?, ?)`, table),
		txnID, serial, plate, field, desc, value,
	)
	return err
}
