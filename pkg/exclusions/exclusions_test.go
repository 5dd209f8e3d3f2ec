package exclusions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndMatch(t *testing.T) {
	src := "10|20|jdoe|2024/01/02\n"
	reg, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	assert.True(t, reg.IsExcluded(10, 20, "jdoe", "20240102", ""))
	assert.False(t, reg.IsExcluded(10, 20, "jdoe", "20240102", "previous"))
	assert.False(t, reg.IsExcluded(10, 21, "jdoe", "20240102", ""))
}

func TestLoadSkipsBadRows(t *testing.T) {
	src := "0|20|jdoe|20240102\n" + // zero plate
		"10|0|jdoe|20240102\n" + // zero field
		"10|20||20240102\n" + // empty user
		"10|20|jdoe|19990102\n" + // not 20xx
		"10|20|jdoe\n" // too few columns
	reg, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, reg.IsExcluded(10, 20, "jdoe", "20240102", ""))
}

func TestNilRegistryNeverExcludes(t *testing.T) {
	var reg *Registry
	assert.False(t, reg.IsExcluded(1, 2, "u", "20240102", ""))
}
