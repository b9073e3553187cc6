// Package streak derives consecutive-day attendance streaks from raw
// attendance history. Stored streak counters are treated as a cache; this
// package is the ground truth they are corrected against.
package streak

import "time"

// Calculate returns the current consecutive-day streak as of today, given
// the calendar days on which a student attended (present or late). The
// input may contain duplicates and arbitrary ordering; timestamps are
// normalized to calendar dates in today's location.
//
// The anchor day is today when today appears in the history, otherwise
// yesterday: a streak that simply has not been extended yet today is still
// alive. Walking backward from the anchor, the count stops at the first
// missing day.
func Calculate(attended []time.Time, today time.Time) int {
	if len(attended) == 0 {
		return 0
	}

	loc := today.Location()
	days := make(map[string]struct{}, len(attended))
	for _, t := range attended {
		days[dateOf(t.In(loc))] = struct{}{}
	}

	anchor := startOfDay(today)
	if _, attendedToday := days[dateOf(anchor)]; !attendedToday {
		anchor = anchor.AddDate(0, 0, -1)
	}

	count := 0
	for {
		if _, ok := days[dateOf(anchor)]; !ok {
			break
		}
		count++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return count
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
