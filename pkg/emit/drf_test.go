package emit

import (
	"strings"
	"testing"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDRFIncludesInvalidatedAndDeclined(t *testing.T) {
	tree := sigmodel.NewTree()
	set, err := rangeset.Parse("20")
	require.NoError(t, err)
	cfg := &sigconfig.Config{Plate: 10, SigPlate: 11, SigFields: set}

	invalidated := tree.InsertOrGet(100, 1, cfg)
	invalidated.Status = sigmodel.Status{Signature: sigmodel.SigInvalidated}

	declined := tree.InsertOrGet(101, 1, &sigconfig.Config{Plate: 12, SigPlate: 13, SigFields: set})
	declined.Status = sigmodel.Status{Signature: sigmodel.SigComplete, Rec: sigmodel.RecNormal, Change: sigmodel.ChangeDeclined}

	ok := tree.InsertOrGet(102, 1, &sigconfig.Config{Plate: 14, SigPlate: 15, SigFields: set})
	ok.Status = sigmodel.Status{Signature: sigmodel.SigComplete, Rec: sigmodel.RecNormal, Change: sigmodel.ChangeNone}

	var buf strings.Builder
	require.NoError(t, WriteDRF(&buf, tree))

	assert.Equal(t, "100|1|11\n101|1|13\n", buf.String())
}

func TestWriteDRFExcludesDeclinedOnNonNormalRecord(t *testing.T) {
	set, err := rangeset.Parse("20")
	require.NoError(t, err)
	cfg := &sigconfig.Config{Plate: 10, SigPlate: 11, SigFields: set}
	tree := sigmodel.NewTree()
	n := tree.InsertOrGet(200, 1, cfg)
	n.Status = sigmodel.Status{Signature: sigmodel.SigComplete, Rec: sigmodel.RecError, Change: sigmodel.ChangeDeclined}

	var buf strings.Builder
	require.NoError(t, WriteDRF(&buf, tree))
	assert.Empty(t, buf.String())
}
