package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

const (
	schoolPerformanceKey = "perf:school"
	schoolComputeTimeout = 15 * time.Second
)

// PerformanceService serves the derived academic reports. The school ranking
// is cached until marks or the roster change.
type PerformanceService struct {
	deps  Deps
	group singleflight.Group
}

// NewPerformanceService constructs a PerformanceService.
func NewPerformanceService(deps Deps) *PerformanceService {
	return &PerformanceService{deps: deps.withDefaults()}
}

// School ranks every student by academic percentage. Principal only.
// The bool reports whether the result came from the cache.
func (s *PerformanceService) School(ctx context.Context, actor models.Actor) (models.SchoolPerformance, bool, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.SchoolPerformance{}, false, err
	}

	var cached models.SchoolPerformance
	if hit, err := s.deps.Cache.Get(ctx, schoolPerformanceKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	report, err := s.loadSchool(ctx)
	if err != nil {
		return models.SchoolPerformance{}, false, err
	}
	return report, false, nil
}

// Refresh recomputes the cached school ranking. It runs on the refresh queue
// after marks or the roster change and does nothing without a cache.
func (s *PerformanceService) Refresh(ctx context.Context) error {
	if !s.deps.Cache.Enabled() {
		return nil
	}
	_, err := s.loadSchool(ctx)
	return err
}

// loadSchool computes and caches the ranking. Callers of the same cache
// generation share one computation, which keeps running when the caller that
// started it goes away.
func (s *PerformanceService) loadSchool(ctx context.Context) (models.SchoolPerformance, error) {
	generation := s.deps.Cache.Generation()
	flight := fmt.Sprintf("%s@%d", schoolPerformanceKey, generation)
	ch := s.group.DoChan(flight, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), schoolComputeTimeout)
		defer cancel()
		report, err := s.computeSchool(flightCtx)
		if err != nil {
			return nil, err
		}
		s.cacheIfCurrent(flightCtx, schoolPerformanceKey, report, generation)
		return report, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return models.SchoolPerformance{}, res.Err
		}
		return res.Val.(models.SchoolPerformance), nil
	case <-ctx.Done():
		return models.SchoolPerformance{}, appErrors.Wrap(ctx.Err(), appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "school performance unavailable")
	}
}

func (s *PerformanceService) cacheIfCurrent(ctx context.Context, key string, value interface{}, generation uint64) {
	if _, err := s.deps.Cache.SetIfCurrent(ctx, key, value, 0, generation); err != nil {
		s.deps.Logger.Debug("performance report not cached", zap.String("key", key), zap.Error(err))
	}
}

func (s *PerformanceService) computeSchool(ctx context.Context) (models.SchoolPerformance, error) {
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return models.SchoolPerformance{}, err
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return models.SchoolPerformance{}, err
	}
	return RankSchool(students, marks), nil
}

// Student builds one student's report across every subject.
func (s *PerformanceService) Student(ctx context.Context, actor models.Actor, studentID int64) (models.StudentPerformance, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return models.StudentPerformance{}, err
	}
	key := fmt.Sprintf("perf:student:%d", studentID)
	var cached models.StudentPerformance
	if hit, err := s.deps.Cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	generation := s.deps.Cache.Generation()
	student, err := getOne(ctx, s.deps.Store.Students, studentID, "student")
	if err != nil {
		return models.StudentPerformance{}, err
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return models.StudentPerformance{}, err
	}
	attendance, err := listAll(ctx, s.deps.Store.Attendance, "attendance")
	if err != nil {
		return models.StudentPerformance{}, err
	}
	subjects, err := listAll(ctx, s.deps.Store.Subjects, "subjects")
	if err != nil {
		return models.StudentPerformance{}, err
	}
	report := BuildStudentPerformance(student, MarksForStudent(marks, studentID), AttendanceForStudent(attendance, studentID), subjects)
	s.cacheIfCurrent(ctx, key, report, generation)
	return report, nil
}
