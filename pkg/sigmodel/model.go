package sigmodel

import (
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/google/btree"
)

// treeDegree matches the small, in-memory sets this model holds — node
// counts per study rarely exceed the tens of thousands.
const treeDegree = 32

// NodeFlags are bit flags carried on a SignatureNode.
type NodeFlags int

// FlagRecSeen marks that this node's signature-plate record has been
// observed at least once, matching NODE_FLAG_RECSEEN.
const FlagRecSeen NodeFlags = 1

// SigField tracks one individual signature field's completion state.
type SigField struct {
	Field     int
	Completed bool
	Desc      string
	Value     string
}

// FieldChange records one plate field's current unsigned change, matching
// FieldChange in esig.h.
type FieldChange struct {
	Field    int
	Status   Status
	Desc     string
	OldValue string
	NewValue string
	Who      string
	Date     string
	Time     string
	Comment  string
}

func (f *FieldChange) Less(than btree.Item) bool {
	return f.Field < than.(*FieldChange).Field
}

// FieldChangeTree is an ordered set of FieldChange keyed by field number.
type FieldChangeTree struct {
	t *btree.BTree
}

func newFieldChangeTree() *FieldChangeTree {
	return &FieldChangeTree{t: btree.New(treeDegree)}
}

// InsertOrGet inserts fc if no FieldChange exists for its field, or
// returns the existing one unchanged, matching the RB_INSERT idiom in
// esn_datachange.
func (t *FieldChangeTree) InsertOrGet(fc *FieldChange) (existing *FieldChange, inserted bool) {
	if item := t.t.Get(fc); item != nil {
		return item.(*FieldChange), false
	}
	t.t.ReplaceOrInsert(fc)
	return fc, true
}

// Clear removes every field change, matching cp_free_changes.
func (t *FieldChangeTree) Clear() {
	t.t.Clear(false)
}

// IsEmpty reports whether the tree holds no field changes.
func (t *FieldChangeTree) IsEmpty() bool {
	return t.t.Len() == 0
}

// Len returns the number of field changes.
func (t *FieldChangeTree) Len() int {
	return t.t.Len()
}

// Ascend visits every field change in field-number order.
func (t *FieldChangeTree) Ascend(fn func(*FieldChange) bool) {
	t.t.Ascend(func(item btree.Item) bool {
		return fn(item.(*FieldChange))
	})
}

// CoveredPlate tracks the state of one plate covered by a signature node
// and the field changes recorded against it, matching CoveredPlate in
// esig.h.
type CoveredPlate struct {
	Plate            int
	Status           Status
	IsFinal          bool
	FieldChangeCount int
	Changes          *FieldChangeTree
}

func newCoveredPlate(plate int) *CoveredPlate {
	return &CoveredPlate{
		Plate:   plate,
		Status:  Status{Rec: RecNormal, Change: ChangeNone, Signature: SigNone},
		Changes: newFieldChangeTree(),
	}
}

func (c *CoveredPlate) Less(than btree.Item) bool {
	return c.Plate < than.(*CoveredPlate).Plate
}

// CoveredPlateTree is an ordered set of CoveredPlate keyed by plate number.
type CoveredPlateTree struct {
	t *btree.BTree
}

func newCoveredPlateTree() *CoveredPlateTree {
	return &CoveredPlateTree{t: btree.New(treeDegree)}
}

// InsertOrGet inserts a new covered plate for the given plate number if
// none exists yet, or returns the existing one, matching the RB_INSERT
// idiom in esn_datachange.
func (t *CoveredPlateTree) InsertOrGet(plate int) *CoveredPlate {
	probe := &CoveredPlate{Plate: plate}
	if item := t.t.Get(probe); item != nil {
		return item.(*CoveredPlate)
	}
	cp := newCoveredPlate(plate)
	t.t.ReplaceOrInsert(cp)
	return cp
}

// Ascend visits every covered plate in plate-number order.
func (t *CoveredPlateTree) Ascend(fn func(*CoveredPlate) bool) {
	t.t.Ascend(func(item btree.Item) bool {
		return fn(item.(*CoveredPlate))
	})
}

// Len returns the number of covered plates.
func (t *CoveredPlateTree) Len() int {
	return t.t.Len()
}

// Node is a signature node: the unit of (patient, visit, signature
// configuration) the whole engine evaluates, matching eSigNode in esig.h.
type Node struct {
	Patient int
	Visit   int
	Config  *sigconfig.Config
	Status  Status
	Signer  string
	Date    string
	Time    string
	Plates  *CoveredPlateTree
	Fields  []SigField
	Flags   NodeFlags
	TxnID   uint64
}

func (n *Node) Less(than btree.Item) bool {
	o := than.(*Node)
	if n.Patient != o.Patient {
		return n.Patient < o.Patient
	}
	if n.Visit != o.Visit {
		return n.Visit < o.Visit
	}
	if n.Config.SigPlate != o.Config.SigPlate {
		return n.Config.SigPlate < o.Config.SigPlate
	}
	return n.Config.SigFields.Min() < o.Config.SigFields.Min()
}

// SigRecSeen marks that this node's signature-plate record has arrived,
// matching esn_sig_rec_seen.
func (n *Node) SigRecSeen() {
	n.Flags |= FlagRecSeen
}

// WasSigRecSeen reports whether the signature-plate record has arrived,
// matching esn_was_sig_rec_seen.
func (n *Node) WasSigRecSeen() bool {
	return n.Flags&FlagRecSeen != 0
}

// AllocSigFields fills in one SigField slot per field named by the
// config's SigFields range, matching esn_alloc_sigfields. A no-op if
// already allocated.
func (n *Node) AllocSigFields() {
	if n.Fields != nil {
		return
	}
	n.Fields = make([]SigField, 0, n.Config.NSigFields())
	for _, iv := range n.Config.SigFields.Intervals() {
		for v := iv.Min; v <= iv.Max; v++ {
			n.Fields = append(n.Fields, SigField{Field: v})
		}
	}
}

// Tree is an ordered set of signature nodes, keyed by (patient, visit,
// sig-plate, lowest sig-field) — the RB_TREE analogue of eSigNodeTree.
type Tree struct {
	t *btree.BTree
}

// NewTree returns an empty signature-node tree.
func NewTree() *Tree {
	return &Tree{t: btree.New(treeDegree)}
}

// InsertOrGet inserts a freshly allocated node for (patient, visit,
// config) if none exists yet, allocating its signature-field slots on
// first insert; otherwise returns the existing node. Matches the
// esn_alloc/RB_INSERT/esn_alloc_sigfields sequence in process_input.
func (t *Tree) InsertOrGet(patient, visit int, config *sigconfig.Config) *Node {
	probe := &Node{Patient: patient, Visit: visit, Config: config}
	if item := t.t.Get(probe); item != nil {
		return item.(*Node)
	}
	n := &Node{
		Patient: patient,
		Visit:   visit,
		Config:  config,
		Status:  Status{Rec: RecNormal, Change: ChangeNone, Signature: SigNone},
		Plates:  newCoveredPlateTree(),
	}
	t.t.ReplaceOrInsert(n)
	n.AllocSigFields()
	return n
}

// Ascend visits every node in tree order.
func (t *Tree) Ascend(fn func(*Node) bool) {
	t.t.Ascend(func(item btree.Item) bool {
		return fn(item.(*Node))
	})
}

// Len returns the number of signature nodes.
func (t *Tree) Len() int {
	return t.t.Len()
}
