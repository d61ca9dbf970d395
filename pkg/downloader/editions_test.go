package downloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditionsFirstIssueKeepsDate(t *testing.T) {
	e := NewEditions()
	assert.Equal(t, "1900-01-01", e.Key("1900-01-01"))
}

func TestEditionsRepeatGetsSuffix(t *testing.T) {
	e := NewEditions()
	assert.Equal(t, "1900-01-01", e.Key("1900-01-01"))
	assert.Equal(t, "1900-01-01-ed-2", e.Key("1900-01-01"))
}

func TestEditionsDistinctDatesIndependent(t *testing.T) {
	e := NewEditions()
	assert.Equal(t, "1900-01-01", e.Key("1900-01-01"))
	assert.Equal(t, "1900-01-02", e.Key("1900-01-02"))
	assert.Equal(t, "1900-01-01-ed-2", e.Key("1900-01-01"))
	assert.Equal(t, "1900-01-02-ed-2", e.Key("1900-01-02"))
}

// The scheme distinguishes exactly one repeat per date: a third issue on the
// same date collides with the "-ed-2" key. This behavior is deliberate, see
// DESIGN.md.
func TestEditionsThirdRepeatCollides(t *testing.T) {
	e := NewEditions()
	assert.Equal(t, "1900-01-01", e.Key("1900-01-01"))
	assert.Equal(t, "1900-01-01-ed-2", e.Key("1900-01-01"))
	assert.Equal(t, "1900-01-01-ed-2", e.Key("1900-01-01"))
}
