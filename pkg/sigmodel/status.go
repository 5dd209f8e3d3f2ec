// Package sigmodel holds the in-memory signature-tracking domain model:
// configurations, signature nodes, covered plates and field changes, kept
// in ordered trees backed by github.com/google/btree.
package sigmodel

// SignatureStatus tracks whether a signature node has ever been signed.
type SignatureStatus int

const (
	SigNone        SignatureStatus = iota // never had a signature
	SigComplete                           // signature complete
	SigInvalidated                        // signature cleared or removed
)

// RecStatus tracks the health of the underlying EDC record.
type RecStatus int

const (
	RecNormal RecStatus = iota
	RecError
	RecLost
	RecDeleted
)

// ChangeStatus tracks whether post-signature data changes are acceptable.
// The numeric order matters: higher values take priority when bubbling a
// plate's or node's status up from its field changes.
type ChangeStatus int

const (
	ChangeNone ChangeStatus = iota
	ChangeAccepted
	ChangeDeclinedAtFinal
	ChangeDeclined
)

// Status is the (signatureStatus, recStatus, changeStatus) triple carried
// by nodes, covered plates and field changes alike.
type Status struct {
	Signature SignatureStatus
	Rec       RecStatus
	Change    ChangeStatus
}
