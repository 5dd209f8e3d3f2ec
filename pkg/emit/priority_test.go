package emit

import (
	"strings"
	"testing"

	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePriorityFile(t *testing.T) {
	res, err := sigconfig.Parse(strings.NewReader(`
signature "AE" plate 10 visits 1 ignore 2-3 sigplate 10 sigfields 20-21
signature "CM" plate 12 visits 1 sigplate 13 sigfields 30
`))
	require.NoError(t, err)
	require.Equal(t, 0, res.ErrorCount)

	var buf strings.Builder
	require.NoError(t, WritePriorityFile(&buf, res.Registry))

	assert.Equal(t, "10|2|1\n10|3|1\n10|20|3\n10|21|3\n", buf.String())
}
