package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodSingleDayBoundaries(t *testing.T) {
	loc, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)

	period, err := ParsePeriodIn("2024-03-01", "2024-03-01", loc)
	require.NoError(t, err)

	lastSecond := time.Date(2024, 3, 1, 23, 59, 59, 0, loc)
	require.True(t, period.Contains(lastSecond))

	nextMidnight := time.Date(2024, 3, 2, 0, 0, 0, 0, loc)
	require.False(t, period.Contains(nextMidnight))

	firstInstant := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	require.True(t, period.Contains(firstInstant))
}

func TestPeriodParsesAsLocalCalendarDate(t *testing.T) {
	// A western-timezone evening timestamp still belongs to its local day.
	// Parsing the date string as UTC would push the period start to the
	// previous local evening and misclassify this.
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	period, err := ParsePeriodIn("2024-03-01", "2024-03-07", loc)
	require.NoError(t, err)

	lateEvening := time.Date(2024, 3, 7, 22, 30, 0, 0, loc)
	require.True(t, period.Contains(lateEvening))

	beforeStart := time.Date(2024, 2, 29, 23, 59, 59, 0, loc)
	require.False(t, period.Contains(beforeStart))
}

func TestPeriodRangeMembership(t *testing.T) {
	loc := time.UTC
	period, err := ParsePeriodIn("2024-03-01", "2024-03-15", loc)
	require.NoError(t, err)

	require.True(t, period.Contains(time.Date(2024, 3, 8, 12, 0, 0, 0, loc)))
	require.False(t, period.Contains(time.Date(2024, 3, 16, 0, 0, 0, 0, loc)))
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), period.Start())
	require.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, loc), period.End())
}

func TestParsePeriodRejectsBadInput(t *testing.T) {
	_, err := ParsePeriodIn("03/01/2024", "2024-03-15", time.UTC)
	require.Error(t, err)

	_, err = ParsePeriodIn("2024-03-15", "2024-03-01", time.UTC)
	require.Error(t, err)
}

func TestNewPeriodNormalisesBounds(t *testing.T) {
	loc := time.UTC
	period := NewPeriod(
		time.Date(2024, 3, 1, 14, 30, 0, 0, loc),
		time.Date(2024, 3, 2, 9, 15, 0, 0, loc),
	)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), period.Start())
	require.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, loc), period.End())
}
