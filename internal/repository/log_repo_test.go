package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

func TestLogRepositoryGetByKeyMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)

	log, err := repo.GetByKey(context.Background(), "2026-01-15")
	require.NoError(t, err, "a date with no class is not an error")
	require.Nil(t, log)
}

func TestLogRepositoryMergeSetCreatesAndMerges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	key := "2026-02-10"
	require.NoError(t, repo.MergeSet(ctx, key, LogPatch{
		Date:       time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC),
		Focus:      "Kata drills",
		Attendance: models.AttendanceMap{"s1": models.StatusPresent},
	}))

	log, err := repo.GetByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, "Kata drills", log.Focus)
	require.Equal(t, models.StatusPresent, log.Attendance["s1"])

	// Finalize, then merge again: the latch must survive the merge write.
	require.NoError(t, repo.Finalize(ctx, key))
	require.NoError(t, repo.MergeSet(ctx, key, LogPatch{
		Date:       time.Date(2026, 2, 10, 19, 0, 0, 0, time.UTC),
		Focus:      "Sparring",
		Attendance: models.AttendanceMap{"s1": models.StatusLate, "s2": models.StatusAbsent},
	}))

	log, err = repo.GetByKey(ctx, key)
	require.NoError(t, err)
	require.True(t, log.Finalized, "merge writes must never clear the finalized latch")
	require.Equal(t, "Sparring", log.Focus)
	require.Equal(t, models.StatusLate, log.Attendance["s1"])
	require.Equal(t, models.StatusAbsent, log.Attendance["s2"])
}

func TestLogRepositorySetStatusCreatesLogOnFirstMark(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	key := "2026-02-11"
	require.NoError(t, repo.SetStatus(ctx, key, "s1", models.StatusLate))

	log, err := repo.GetByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, log, "first mark of the day must create the log")
	require.Equal(t, models.StatusLate, log.Attendance["s1"])

	// A later mark for another student must not clobber the first entry.
	require.NoError(t, repo.SetStatus(ctx, key, "s2", models.StatusPresent))
	log, err = repo.GetByKey(ctx, key)
	require.NoError(t, err)
	require.Equal(t, models.StatusLate, log.Attendance["s1"])
	require.Equal(t, models.StatusPresent, log.Attendance["s2"])

	// Re-marking the same student overwrites only their entry.
	require.NoError(t, repo.SetStatus(ctx, key, "s1", models.StatusPresent))
	log, err = repo.GetByKey(ctx, key)
	require.NoError(t, err)
	require.Equal(t, models.StatusPresent, log.Attendance["s1"])
}

func TestLogRepositoryListByMonthPrefix(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	for _, key := range []string{"2026-01-31", "2026-02-01", "2026-02-28", "2026-03-01"} {
		require.NoError(t, repo.MergeSet(ctx, key, LogPatch{Date: time.Now()}))
	}

	logs, err := repo.ListByMonth(ctx, "2026-02")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "2026-02-01", logs[0].DateKey)
	require.Equal(t, "2026-02-28", logs[1].DateKey)
}

func TestLogRepositoryGetAllSortedByKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	for _, key := range []string{"2026-02-02", "2026-01-05", "2026-02-01"} {
		require.NoError(t, repo.MergeSet(ctx, key, LogPatch{Date: time.Now()}))
	}

	logs, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Equal(t, "2026-01-05", logs[0].DateKey)
	require.Equal(t, "2026-02-02", logs[2].DateKey)
}

func TestLogRepositoryFinalizeMissingLog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)

	require.ErrorIs(t, repo.Finalize(context.Background(), "1999-01-01"), gorm.ErrRecordNotFound)
}

func TestLogRepositoryUpdateFocus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	key := "2026-02-12"
	require.NoError(t, repo.MergeSet(ctx, key, LogPatch{Date: time.Now(), Focus: "Warmups"}))
	require.NoError(t, repo.UpdateFocus(ctx, key, "Belt testing prep"))

	log, err := repo.GetByKey(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "Belt testing prep", log.Focus)

	require.ErrorIs(t, repo.UpdateFocus(ctx, "1999-01-01", "x"), gorm.ErrRecordNotFound)
}
