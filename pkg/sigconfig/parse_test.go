package sigconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicStatement(t *testing.T) {
	src := `signature "AE Signature" plate 10 visits 1-5 sigfields 20-21`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 0, res.ErrorCount)
	require.Len(t, res.Registry.All(), 1)

	cfg := res.Registry.All()[0]
	assert.Equal(t, "AE Signature", cfg.Name)
	assert.Equal(t, 10, cfg.Plate)
	assert.Equal(t, 10, cfg.SigPlate, "sigplate defaults to plate")
	assert.Equal(t, 1, cfg.Handle)
	assert.Equal(t, 2, cfg.NSigFields())
}

func TestParseWithIgnoreAndExplicitSigPlate(t *testing.T) {
	src := `signature "Lab" plate 30 visits * ignore 8-9 sigplate 31 sigfields 1`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 0, res.ErrorCount)

	cfg := res.Registry.All()[0]
	assert.Equal(t, 31, cfg.SigPlate)
	assert.True(t, cfg.IgnoreFields.Contains(8))
	assert.False(t, cfg.IgnoreFields.Contains(10))
}

func TestParseCommentsAndBlankLinesIgnored(t *testing.T) {
	src := "# a comment\n\nsignature \"X\" plate 1 visits 1 sigfields 7\n"
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ErrorCount)
	assert.Len(t, res.Registry.All(), 1)
}

func TestParseContinuationLine(t *testing.T) {
	src := "signature \"X\" plate 1 visits 1 \\\n  sigfields 7\n"
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ErrorCount)
}

func TestParseUnknownKeywordCountsAsError(t *testing.T) {
	src := `signature "X" plate 1 visits 1 bogus 7 sigfields 7`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Len(t, res.Registry.All(), 0)
}

func TestParseMissingRequiredClauseCountsAsError(t *testing.T) {
	src := `signature "X" plate 1 sigfields 7`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ErrorCount)
}

func TestRegistryMatching(t *testing.T) {
	src := "signature \"A\" plate 5 visits 1-2 sigfields 10\n" +
		"signature \"B\" plate 5 visits 3-4 sigfields 11\n"
	res, _ := Parse(strings.NewReader(src))
	matches := res.Registry.Matching(5, 1, 99)
	require.Len(t, matches, 1)
	assert.Equal(t, "A", matches[0].Name)
}
