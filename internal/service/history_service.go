package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
)

var (
	// ErrLogNotFound indicates a lookup for a date with no recorded class.
	ErrLogNotFound = errors.New("log not found")
	// ErrLogFinalized indicates an edit against a locked log.
	ErrLogFinalized = errors.New("log is finalized")
)

// HistoryService serves the calendar and day-detail views and owns the
// finalization latch.
type HistoryService interface {
	ListAll(ctx context.Context) ([]dto.LogResponse, error)
	ListMonth(ctx context.Context, monthPrefix string) ([]dto.LogResponse, error)
	DayDetail(ctx context.Context, dateKey string) (dto.DayDetailResponse, error)
	Finalize(ctx context.Context, dateKey string) (dto.LogResponse, error)
	UpdateFocus(ctx context.Context, dateKey, focus string) (dto.LogResponse, error)
	OverrideStatus(ctx context.Context, dateKey, studentID string, status models.AttendanceStatus) (dto.LogResponse, error)
}

type historyService struct {
	logs      repository.LogRepository
	roster    repository.RosterRepository
	events    EventPublisher
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewHistoryService constructs the history service. cache may be nil; month
// listings are then always read from the store.
func NewHistoryService(logs repository.LogRepository, roster repository.RosterRepository, events EventPublisher, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) HistoryService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &historyService{
		logs:      logs,
		roster:    roster,
		events:    events,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "history_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *historyService) ListAll(ctx context.Context) ([]dto.LogResponse, error) {
	logs, err := s.logs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewLogResponseSlice(logs), nil
}

func (s *historyService) ListMonth(ctx context.Context, monthPrefix string) ([]dto.LogResponse, error) {
	cacheKey := ""
	if s.cache != nil {
		cacheKey = fmt.Sprintf("history:month:v1:%s", monthPrefix)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response []dto.LogResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	logs, err := s.logs.ListByMonth(ctx, monthPrefix)
	if err != nil {
		return nil, err
	}
	response := dto.NewLogResponseSlice(logs)

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache month listing")
			}
		}
	}
	return response, nil
}

// DayDetail joins the day's log with the roster. Students in the attendance
// map that have since been archived are resolved individually so old logs
// keep rendering; anyone without an explicit entry reads back as ABSENT.
func (s *historyService) DayDetail(ctx context.Context, dateKey string) (dto.DayDetailResponse, error) {
	log, err := s.logs.GetByKey(ctx, dateKey)
	if err != nil {
		return dto.DayDetailResponse{}, err
	}
	if log == nil {
		return dto.DayDetailResponse{}, ErrLogNotFound
	}

	active, err := s.roster.GetActive(ctx)
	if err != nil {
		return dto.DayDetailResponse{}, err
	}

	activeIDs := make(map[string]struct{}, len(active))
	for _, student := range active {
		activeIDs[student.ID] = struct{}{}
	}

	students := append([]models.Student{}, active...)
	for id := range log.Attendance {
		if _, ok := activeIDs[id]; ok {
			continue
		}
		archived, err := s.roster.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("student_id", id).Msg("failed to resolve archived student")
			continue
		}
		if archived != nil {
			students = append(students, *archived)
		}
	}

	sort.SliceStable(students, func(i, j int) bool {
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})

	entries := make([]dto.DayDetailEntry, 0, len(students))
	for _, student := range students {
		entries = append(entries, dto.DayDetailEntry{
			Student: dto.NewStudentResponse(student),
			Status:  log.Attendance.StatusOf(student.ID),
		})
	}

	return dto.DayDetailResponse{Log: dto.NewLogResponse(*log), Entries: entries}, nil
}

// Finalize flips the one-way latch. Finalizing an already-finalized day is
// a no-op success; the flag is never cleared.
func (s *historyService) Finalize(ctx context.Context, dateKey string) (dto.LogResponse, error) {
	log, err := s.logs.GetByKey(ctx, dateKey)
	if err != nil {
		return dto.LogResponse{}, err
	}
	if log == nil {
		return dto.LogResponse{}, ErrLogNotFound
	}
	if log.Finalized {
		return dto.NewLogResponse(*log), nil
	}

	if err := s.logs.Finalize(ctx, dateKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LogResponse{}, ErrLogNotFound
		}
		return dto.LogResponse{}, err
	}
	log.Finalized = true

	s.events.AttendanceFinalized(ctx, dateKey, log.LateCount())
	s.invalidateMonth(ctx, dateKey)
	s.logger.Info().Str("date", dateKey).Msg("attendance finalized")

	return dto.NewLogResponse(*log), nil
}

func (s *historyService) UpdateFocus(ctx context.Context, dateKey, focus string) (dto.LogResponse, error) {
	log, err := s.logs.GetByKey(ctx, dateKey)
	if err != nil {
		return dto.LogResponse{}, err
	}
	if log == nil {
		return dto.LogResponse{}, ErrLogNotFound
	}
	if log.Finalized {
		return dto.LogResponse{}, ErrLogFinalized
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(focus))
	if err := s.logs.UpdateFocus(ctx, dateKey, clean); err != nil {
		return dto.LogResponse{}, err
	}
	log.Focus = clean
	s.invalidateMonth(ctx, dateKey)

	return dto.NewLogResponse(*log), nil
}

// OverrideStatus sets one student's status on an unfinalized log (the
// tap-to-cycle correction in the detail view).
func (s *historyService) OverrideStatus(ctx context.Context, dateKey, studentID string, status models.AttendanceStatus) (dto.LogResponse, error) {
	if !status.Valid() {
		return dto.LogResponse{}, ErrUnknownStatus
	}

	log, err := s.logs.GetByKey(ctx, dateKey)
	if err != nil {
		return dto.LogResponse{}, err
	}
	if log == nil {
		return dto.LogResponse{}, ErrLogNotFound
	}
	if log.Finalized {
		return dto.LogResponse{}, ErrLogFinalized
	}

	if err := s.logs.SetStatus(ctx, dateKey, studentID, status); err != nil {
		return dto.LogResponse{}, err
	}
	if log.Attendance == nil {
		log.Attendance = models.AttendanceMap{}
	}
	log.Attendance[studentID] = status
	s.invalidateMonth(ctx, dateKey)

	return dto.NewLogResponse(*log), nil
}

func (s *historyService) invalidateMonth(ctx context.Context, dateKey string) {
	if s.cache == nil || len(dateKey) < 7 {
		return
	}
	key := fmt.Sprintf("history:month:v1:%s", dateKey[:7])
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate month cache")
	}
}
