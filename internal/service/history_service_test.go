package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

func newHistoryService(t *testing.T, roster *rosterStub, logs *logStoreStub, cache *redis.Client) (HistoryService, *noopEvents) {
	t.Helper()
	events := &noopEvents{}
	return NewHistoryService(logs, roster, events, cache, time.Minute, testLogger()), events
}

func TestHistoryDayDetailDefaultsToAbsent(t *testing.T) {
	roster := rosterOf("s1", "s2")
	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{
		DateKey:    "2026-02-10",
		Attendance: models.AttendanceMap{"s1": models.StatusLate},
	}

	svc, _ := newHistoryService(t, roster, logs, nil)
	detail, err := svc.DayDetail(context.Background(), "2026-02-10")
	require.NoError(t, err)
	require.Len(t, detail.Entries, 2)

	byID := map[string]models.AttendanceStatus{}
	for _, entry := range detail.Entries {
		byID[entry.Student.ID] = entry.Status
	}
	require.Equal(t, models.StatusLate, byID["s1"])
	require.Equal(t, models.StatusAbsent, byID["s2"], "unmarked students read back as ABSENT")
}

func TestHistoryDayDetailResolvesArchivedStudents(t *testing.T) {
	// s9 was soft-deleted after the log was written; the detail view must
	// still resolve them.
	roster := rosterOf("s1")
	roster.students = append(roster.students, models.Student{ID: "s9", Name: "Old Timer", IsActive: false})
	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{
		DateKey:    "2026-02-10",
		Attendance: models.AttendanceMap{"s9": models.StatusPresent},
	}

	svc, _ := newHistoryService(t, roster, logs, nil)
	detail, err := svc.DayDetail(context.Background(), "2026-02-10")
	require.NoError(t, err)

	var found bool
	for _, entry := range detail.Entries {
		if entry.Student.ID == "s9" {
			found = true
			require.Equal(t, models.StatusPresent, entry.Status)
		}
	}
	require.True(t, found, "archived students in the log must appear in the detail")
}

func TestHistoryDayDetailMissingLog(t *testing.T) {
	svc, _ := newHistoryService(t, rosterOf("s1"), newLogStoreStub(), nil)
	_, err := svc.DayDetail(context.Background(), "1999-01-01")
	require.ErrorIs(t, err, ErrLogNotFound)
}

func TestHistoryFinalizeIsOneWay(t *testing.T) {
	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{
		DateKey:    "2026-02-10",
		Attendance: models.AttendanceMap{"s1": models.StatusLate},
	}

	svc, events := newHistoryService(t, rosterOf("s1"), logs, nil)

	resp, err := svc.Finalize(context.Background(), "2026-02-10")
	require.NoError(t, err)
	require.True(t, resp.Finalized)
	require.Equal(t, 1, resp.LateCount)
	require.Equal(t, []string{"2026-02-10"}, events.finalized)

	// Finalizing again is a no-op success and publishes nothing new.
	resp, err = svc.Finalize(context.Background(), "2026-02-10")
	require.NoError(t, err)
	require.True(t, resp.Finalized)
	require.Len(t, events.finalized, 1)
}

func TestHistoryEditsRejectedOnFinalizedLog(t *testing.T) {
	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{DateKey: "2026-02-10", Finalized: true}

	svc, _ := newHistoryService(t, rosterOf("s1"), logs, nil)

	_, err := svc.UpdateFocus(context.Background(), "2026-02-10", "new focus")
	require.ErrorIs(t, err, ErrLogFinalized)

	_, err = svc.OverrideStatus(context.Background(), "2026-02-10", "s1", models.StatusPresent)
	require.ErrorIs(t, err, ErrLogFinalized)
}

func TestHistoryUpdateFocusSanitizesMarkup(t *testing.T) {
	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{DateKey: "2026-02-10"}

	svc, _ := newHistoryService(t, rosterOf("s1"), logs, nil)
	resp, err := svc.UpdateFocus(context.Background(), "2026-02-10", "<script>alert('x')</script>Belt testing")
	require.NoError(t, err)
	require.Equal(t, "Belt testing", resp.Focus)
}

func TestHistoryOverrideStatusFollowsCycle(t *testing.T) {
	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{
		DateKey:    "2026-02-10",
		Attendance: models.AttendanceMap{"s1": models.StatusPresent},
	}

	svc, _ := newHistoryService(t, rosterOf("s1"), logs, nil)

	next := models.StatusPresent.Next()
	resp, err := svc.OverrideStatus(context.Background(), "2026-02-10", "s1", next)
	require.NoError(t, err)
	require.Equal(t, models.StatusAbsent, resp.Attendance["s1"])
	require.Equal(t, models.StatusAbsent, logs.logs["2026-02-10"].Attendance["s1"])
}

func TestHistoryListMonthUsesCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{DateKey: "2026-02-10"}

	svc, _ := newHistoryService(t, rosterOf("s1"), logs, cache)

	first, err := svc.ListMonth(context.Background(), "2026-02")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Drop the backing store; the cached listing still serves.
	logs.logs = map[string]*models.DailyLog{}
	cached, err := svc.ListMonth(context.Background(), "2026-02")
	require.NoError(t, err)
	require.Len(t, cached, 1)
}

func TestHistoryFinalizeInvalidatesMonthCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	logs := newLogStoreStub()
	logs.logs["2026-02-10"] = &models.DailyLog{DateKey: "2026-02-10"}

	svc, _ := newHistoryService(t, rosterOf("s1"), logs, cache)

	_, err = svc.ListMonth(context.Background(), "2026-02")
	require.NoError(t, err)
	require.True(t, server.Exists("history:month:v1:2026-02"))

	_, err = svc.Finalize(context.Background(), "2026-02-10")
	require.NoError(t, err)
	require.False(t, server.Exists("history:month:v1:2026-02"))
}
