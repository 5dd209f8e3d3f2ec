package rangeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	s, err := Parse("")
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
}

func TestParseWildcard(t *testing.T) {
	s, err := Parse("*")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Min())
	assert.Equal(t, Wildcard, s.Max())
	assert.True(t, s.Contains(12345))
}

func TestParseSingleAndRange(t *testing.T) {
	s, err := Parse("1-10,5,100-200")
	require.NoError(t, err)
	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(150))
	assert.False(t, s.Contains(50))
	assert.Equal(t, 1, s.Min())
	assert.Equal(t, 200, s.Max())
}

func TestParseReversedRangeSwaps(t *testing.T) {
	s, err := Parse("10-1")
	require.NoError(t, err)
	assert.True(t, s.Contains(5))
	assert.Equal(t, 1, s.Min())
	assert.Equal(t, 10, s.Max())
}

func TestParseWhitespaceIgnored(t *testing.T) {
	s, err := Parse(" 1 - 10 , 20 ")
	require.NoError(t, err)
	assert.True(t, s.Contains(7))
	assert.True(t, s.Contains(20))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("-5")
	assert.Error(t, err)

	_, err = Parse("5-")
	assert.Error(t, err)

	_, err = Parse("5,")
	assert.Error(t, err)

	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	s, err := Parse("1-10,5,100-200")
	require.NoError(t, err)
	s2, err := Parse(s.String())
	require.NoError(t, err)
	assert.Equal(t, s.Intervals(), s2.Intervals())
}

func TestWidthCountsOverlapsTwice(t *testing.T) {
	s, err := Parse("1-5,3-7")
	require.NoError(t, err)
	assert.Equal(t, 5+5, s.Width())
}

func TestAddToFrontSwapsReversed(t *testing.T) {
	s, _ := Parse("1-2")
	s2 := s.AddToFront(10, 3)
	assert.Equal(t, 3, s2.Intervals()[0].Min)
	assert.Equal(t, 10, s2.Intervals()[0].Max)
}

func TestDupIsIndependent(t *testing.T) {
	s, _ := Parse("1-2")
	d := s.Dup()
	d2 := d.AddToFront(5, 6)
	assert.Len(t, s.Intervals(), 1)
	assert.Len(t, d2.Intervals(), 2)
}
