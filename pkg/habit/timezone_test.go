package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	_, err = LoadLocation("")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestLocalDateAcrossZones(t *testing.T) {
	tokyo, err := LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	la, err := LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 23:30 UTC on the 12th is already the 13th in Tokyo, still the 12th in LA.
	at := time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-13", LocalDate(at, tokyo))
	assert.Equal(t, "2025-03-12", LocalDate(at, la))
}

func TestSameLocalDay(t *testing.T) {
	tokyo, err := LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	a := time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC) // 13th in Tokyo
	b := time.Date(2025, 3, 13, 1, 0, 0, 0, time.UTC)   // also 13th in Tokyo

	assert.True(t, SameLocalDay(a, b, tokyo))
	assert.False(t, SameLocalDay(a, b, time.UTC))
}
