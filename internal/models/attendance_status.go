package models

// AttendanceStatus is the closed set of per-student outcomes for a class day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
)

// statusCycle backs the tap-to-cycle manual override in the day detail view.
var statusCycle = map[AttendanceStatus]AttendanceStatus{
	StatusPresent: StatusAbsent,
	StatusAbsent:  StatusLate,
	StatusLate:    StatusPresent,
}

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	_, ok := statusCycle[s]
	return ok
}

// Next returns the status that follows s in the fixed override cycle.
func (s AttendanceStatus) Next() AttendanceStatus {
	if next, ok := statusCycle[s]; ok {
		return next
	}
	return StatusPresent
}

// CountsForStreak reports whether the status extends a day streak.
func (s AttendanceStatus) CountsForStreak() bool {
	return s == StatusPresent || s == StatusLate
}
