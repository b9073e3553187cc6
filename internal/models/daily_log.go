package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateKeyLayout is the natural identity of a daily log: the local calendar
// date. Keys sort lexicographically and month queries filter on the
// "YYYY-MM" prefix.
const DateKeyLayout = "2006-01-02"

// DateKey formats t as a log document key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// MonthPrefix returns the "YYYY-MM" prefix shared by every log key in t's month.
func MonthPrefix(t time.Time) string {
	return t.Format("2006-01")
}

// AttendanceMap maps student id to status and is persisted as a JSON column.
type AttendanceMap map[string]AttendanceStatus

// StatusOf returns the recorded status for studentID, defaulting to ABSENT:
// anyone not explicitly marked by finalization time was not there.
func (m AttendanceMap) StatusOf(studentID string) AttendanceStatus {
	if status, ok := m[studentID]; ok {
		return status
	}
	return StatusAbsent
}

// Value implements driver.Valuer.
func (m AttendanceMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *AttendanceMap) Scan(value interface{}) error {
	if value == nil {
		*m = AttendanceMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attendance column type %T", value)
	}
	if len(raw) == 0 {
		*m = AttendanceMap{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

// DailyLog is one class day's attendance record, keyed by local calendar
// date. Once Finalized flips to true the attendance map and focus are
// locked; the flag is never cleared.
type DailyLog struct {
	DateKey    string        `gorm:"primaryKey;size:10" json:"id"`
	Date       time.Time     `json:"date"`
	Focus      string        `gorm:"size:512" json:"focus"`
	Finalized  bool          `gorm:"default:false" json:"finalized"`
	Attendance AttendanceMap `gorm:"type:json" json:"attendance"`
}

// LateCount returns how many students were marked LATE, shown in the
// finalize confirmation summary.
func (l DailyLog) LateCount() int {
	count := 0
	for _, status := range l.Attendance {
		if status == StatusLate {
			count++
		}
	}
	return count
}
