package ingest

import (
	"fmt"
	"io"

	"github.com/dfaudit/sigtrack/pkg/exclusions"
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/dfaudit/sigtrack/pkg/tokenrec"
)

// Mirror receives signing and post-sign data-change events as they
// happen, for relational audit mirroring. A nil Mirror is a valid no-op,
// matching the "if (!db) return;" guards in db_write_signature and
// db_update_signature_value.
type Mirror interface {
	WriteSignature(n *sigmodel.Node, txnID uint64)
	UpdateSignatureValue(n *sigmodel.Node, plate, field int, desc, value string)
}

// Engine reconstructs signature-node state from a stream of audit
// records, matching process_input's per-record dispatch loop.
type Engine struct {
	Registry   *sigconfig.Registry
	Exclusions *exclusions.Registry
	Mirror     Mirror

	tree    *sigmodel.Tree
	lastTxn string
	txnID   uint64
}

// NewEngine returns an Engine ready to ingest records against the given
// configuration registry. Exclusions and Mirror may be left zero-valued
// (nil registry, nil Mirror); both behave as no-ops.
func NewEngine(registry *sigconfig.Registry, excl *exclusions.Registry, mirror Mirror) *Engine {
	return &Engine{
		Registry:   registry,
		Exclusions: excl,
		Mirror:     mirror,
		tree:       sigmodel.NewTree(),
	}
}

// Tree returns the signature-node tree built up so far.
func (e *Engine) Tree() *sigmodel.Tree {
	return e.tree
}

// Run consumes every record from r until EOF, feeding each one through
// Process. It stops and returns the first non-EOF read error.
func (e *Engine) Run(r *tokenrec.Reader) error {
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ingest: reading audit record: %w", err)
		}
		e.Process(rec)
	}
}

// Process applies one audit-trail record to the signature-node tree,
// matching the body of process_input's while loop.
func (e *Engine) Process(rec tokenrec.Record) {
	// Skip QCs and Reasons if we find them.
	if atoi(rec.Value(FieldFieldRef)) != 0 {
		return
	}

	field := atoi(rec.Value(FieldFieldPos))

	// Skip raster, study and keys.
	if field > 2 && field <= 7 {
		return
	}

	recStatus := atoi(rec.Value(FieldStatus))
	patient := atoi(rec.Value(FieldPID))
	visit := atoi(rec.Value(FieldVisit))
	plate := atoi(rec.Value(FieldPlate))

	txnKey := fmt.Sprintf("%s|%s|%s|%d|%d|%d",
		rec.Value(FieldDate), rec.Value(FieldTime), rec.Value(FieldUser),
		patient, visit, plate)
	if txnKey != e.lastTxn {
		e.txnID++
		e.lastTxn = txnKey
	}

	for _, cfg := range e.Registry.Matching(plate, visit, field) {
		node := e.tree.InsertOrGet(patient, visit, cfg)

		if plate == cfg.SigPlate && recStatus != 0 {
			node.SigRecSeen()
		}

		if plate == cfg.SigPlate && cfg.SigFields.Contains(field) {
			newValue := rec.Value(FieldNewValue)
			if newValue != "" {
				Sign(node, rec, field, e.txnID)
				if e.Mirror != nil {
					e.Mirror.WriteSignature(node, e.txnID)
				}
				FreeSignedValues(node, e.txnID)
			} else {
				Unsign(node, field)
			}
		} else {
			DataChange(node, rec, plate, field, e.txnID, e.Exclusions)
			if node.TxnID == e.txnID && e.Mirror != nil {
				e.Mirror.UpdateSignatureValue(node, plate, field,
					rec.Value(FieldFieldDesc),
					decodeValue(rec, FieldNewValue, FieldNewDecode))
			}
		}
	}
}
