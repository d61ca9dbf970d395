package downloader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-pyle/chronam/pkg/errors"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1900-01-15")
	require.NoError(t, err)
	assert.Equal(t, 1900, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 15, d.Day())
}

func TestParseDateMalformed(t *testing.T) {
	cases := []string{"", "1900", "15-01-1900", "1900/01/15", "1900-13-40", "not a date"}
	for _, c := range cases {
		_, err := ParseDate(c)
		require.Error(t, err, "input %q", c)
		assert.True(t, errors.IsType(err, errors.ErrorTypeDateParse), "input %q", c)
	}
}

func TestInRangeInclusiveBounds(t *testing.T) {
	start, _ := ParseDate("1900-01-01")
	end, _ := ParseDate("1900-01-31")

	cases := []struct {
		date string
		want bool
	}{
		{"1900-01-01", true},  // exactly start
		{"1900-01-31", true},  // exactly end
		{"1900-01-15", true},  // inside
		{"1899-12-31", false}, // day before start
		{"1900-02-01", false}, // day after end
	}

	for _, c := range cases {
		d, err := ParseDate(c.date)
		require.NoError(t, err)
		assert.Equal(t, c.want, InRange(d, start, end), "date %s", c.date)
	}
}

func TestInRangeSingleDayRange(t *testing.T) {
	day, _ := ParseDate("1900-06-10")
	assert.True(t, InRange(day, day, day))
}
