package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(t *testing.T, offset int) time.Time {
	t.Helper()
	return time.Date(2026, time.March, 20, 12, 0, 0, 0, time.Local).AddDate(0, 0, offset)
}

func TestCalculateEmptyHistory(t *testing.T) {
	require.Equal(t, 0, Calculate(nil, day(t, 0)))
	require.Equal(t, 0, Calculate([]time.Time{}, day(t, 0)))
}

func TestCalculateSingleAttendanceToday(t *testing.T) {
	today := day(t, 0)
	require.Equal(t, 1, Calculate([]time.Time{today}, today))
}

func TestCalculateConsecutiveRun(t *testing.T) {
	today := day(t, 0)
	history := []time.Time{day(t, 0), day(t, -1), day(t, -2)}
	require.Equal(t, 3, Calculate(history, today))
}

func TestCalculateStreakAliveWithoutToday(t *testing.T) {
	// Attended yesterday and the two days before; today has not happened
	// yet, so the streak must not reset.
	today := day(t, 0)
	history := []time.Time{day(t, -1), day(t, -2), day(t, -3)}
	require.Equal(t, 3, Calculate(history, today))
}

func TestCalculateGapAtAnchorBreaksStreak(t *testing.T) {
	today := day(t, 0)
	require.Equal(t, 0, Calculate([]time.Time{day(t, -2)}, today))
}

func TestCalculateGapTruncatesEarlierHistory(t *testing.T) {
	today := day(t, 0)
	history := []time.Time{
		day(t, 0), day(t, -1),
		// gap at -2
		day(t, -3), day(t, -4), day(t, -5),
	}
	require.Equal(t, 2, Calculate(history, today))
}

func TestCalculateDeduplicatesAndIgnoresOrder(t *testing.T) {
	today := day(t, 0)
	history := []time.Time{
		day(t, -1).Add(9 * time.Hour),
		day(t, 0),
		day(t, -1),
		day(t, 0).Add(-3 * time.Hour),
	}
	require.Equal(t, 2, Calculate(history, today))
}

func TestCalculateDeterministic(t *testing.T) {
	today := day(t, 0)
	history := []time.Time{day(t, 0), day(t, -1), day(t, -4)}
	first := Calculate(history, today)
	require.Equal(t, first, Calculate(history, today))
}

func TestCalculateExtendingTodayNeverShrinks(t *testing.T) {
	today := day(t, 0)
	yesterday := day(t, -1)
	history := []time.Time{day(t, -1), day(t, -2)}

	before := Calculate(history, yesterday)
	after := Calculate(append(history, today), today)
	require.GreaterOrEqual(t, after, before)
}
