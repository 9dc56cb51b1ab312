package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("10-01-2024")
	require.Error(t, err)

	_, err = parseDate("2024-02-30")
	require.Error(t, err)
}

func TestDateOnlyStripsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	stamp := time.Date(2024, 3, 15, 2, 30, 0, 0, loc)
	// 02:30 at UTC+7 is still 14 March in UTC.
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), dateOnly(stamp))
}

func TestWithinWindowInclusiveBounds(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	assert.True(t, withinWindow(from, to, from))
	assert.True(t, withinWindow(from, to, to))
	assert.True(t, withinWindow(from, to, from.AddDate(0, 0, 1)))
	assert.False(t, withinWindow(from, to, from.AddDate(0, 0, -1)))
	assert.False(t, withinWindow(from, to, to.AddDate(0, 0, 1)))
}

func TestWithinWindowSingleDay(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, withinWindow(day, day, day))
	assert.False(t, withinWindow(day, day, day.AddDate(0, 0, 1)))
}
