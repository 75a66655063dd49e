package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-15")
	require.NoError(t, err)
	assert.Equal(t, Date("2026-08-15"), d)

	for _, bad := range []string{"", "2026-8-15", "15/08/2026", "2026-13-01", "yesterday"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestDateBefore(t *testing.T) {
	d := Date("2026-08-15")

	assert.True(t, d.Before("2026-08-16"))
	assert.False(t, d.Before("2026-08-15"), "strictly before")
	assert.False(t, d.Before("2026-08-14"))

	// An unbounded cutoff means end of time.
	assert.True(t, d.Before(""))
}

func TestDateBetween(t *testing.T) {
	d := Date("2026-08-15")

	assert.True(t, d.Between("2026-08-01", "2026-08-31"))
	assert.True(t, d.Between("2026-08-15", "2026-08-15"), "bounds are inclusive")
	assert.False(t, d.Between("2026-08-16", "2026-08-31"))
	assert.False(t, d.Between("2026-08-01", "2026-08-14"))

	// Empty bounds are open on that side.
	assert.True(t, d.Between("", "2026-08-31"))
	assert.True(t, d.Between("2026-08-01", ""))
	assert.True(t, d.Between("", ""))
}
