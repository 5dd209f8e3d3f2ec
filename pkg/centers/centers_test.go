package centers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCentersAndFind(t *testing.T) {
	src := "1|Dr Smith|Hosp A|123 Main St|555-1111|555-2222|555-3333|Dr Smith|555-4444|PO Box 1|1 100\n" +
		"2|Dr Jones|Hosp B|456 Oak St|555-5555|555-6666|555-7777|Dr Jones|555-8888|PO Box 2|101 200|ERROR MONITOR\n"
	cs, err := LoadCenters(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.True(t, cs[1].IsErrorMonitor)

	assert.Equal(t, 1, FindCenter(cs, 50))
	assert.Equal(t, 2, FindCenter(cs, 150))
	// Patient not covered by any range falls back to the error monitor.
	assert.Equal(t, 2, FindCenter(cs, 9999))
}

func TestFindCenterNoErrorMonitorReturnsZero(t *testing.T) {
	src := "1|a|b|c|d|e|f|g|h|i|1 10\n"
	cs, err := LoadCenters(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 0, FindCenter(cs, 9999))
}

func TestLoadCountriesAndFind(t *testing.T) {
	src := "Canada|North America|1-5\nUSA|North America|6-10\n"
	countries, err := LoadCountries(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, countries, 2)

	assert.Equal(t, "Canada", FindCountry(countries, 3))
	assert.Equal(t, "North America", FindRegion(countries, 3))
	assert.Equal(t, "Unknown", FindCountry(countries, 999))
	assert.Equal(t, "Unknown", FindRegion(countries, 999))
}
