package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

const performanceCachePattern = "perf:*"

// Deps bundles what every entity service needs. Cache may be nil.
type Deps struct {
	Store     *repository.Store
	Auth      *Authorizer
	Validator *validator.Validate
	Cache     *CacheService
	Warmer    CacheWarmer
	Logger    *zap.Logger
	Now       func() time.Time
}

// CacheWarmer rebuilds derived caches in the background once they are
// invalidated.
type CacheWarmer interface {
	Schedule()
}

func (d Deps) withDefaults() Deps {
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Auth == nil && d.Store != nil {
		d.Auth = NewAuthorizer(d.Store.Students, d.Store.Timetable)
	}
	return d
}

func (d Deps) today() string {
	return d.Now().Format(models.DateLayout)
}

func (d Deps) validate(req interface{}, message string) error {
	if err := d.Validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message+": "+describeValidation(err))
	}
	return nil
}

// invalidatePerformance drops cached aggregates after marks or the roster change.
func (d Deps) invalidatePerformance(ctx context.Context) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Invalidate(ctx, performanceCachePattern); err != nil {
		d.Logger.Warn("performance cache invalidation failed", zap.Error(err))
		return
	}
	if d.Warmer != nil {
		d.Warmer.Schedule()
	}
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func invalid(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func conflict(message string) error {
	return appErrors.Clone(appErrors.ErrConflict, message)
}

func listAll[T models.Record[T]](ctx context.Context, c repository.Collection[T], entity string) ([]T, error) {
	rows, err := c.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list "+entity)
	}
	return rows, nil
}

func getOne[T models.Record[T]](ctx context.Context, c repository.Collection[T], id int64, entity string) (T, error) {
	row, err := c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
		}
		return row, appErrors.Internal(err, "failed to load "+entity)
	}
	return row, nil
}

func insertOne[T models.Record[T]](ctx context.Context, c repository.Collection[T], record T, entity string) (T, error) {
	created, err := c.Insert(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return created, conflict(entity + " id already exists")
		}
		return created, appErrors.Internal(err, "failed to create "+entity)
	}
	return created, nil
}

func updateOne[T models.Record[T]](ctx context.Context, c repository.Collection[T], record T, entity string) error {
	if err := c.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
		}
		return appErrors.Internal(err, "failed to update "+entity)
	}
	return nil
}

func deleteOne[T models.Record[T]](ctx context.Context, c repository.Collection[T], id int64, entity string) error {
	if err := c.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete "+entity)
	}
	return nil
}

// deleteWhere removes every record matching the predicate.
func deleteWhere[T models.Record[T]](ctx context.Context, c repository.Collection[T], entity string, match func(T) bool) (int, error) {
	rows, err := listAll(ctx, c, entity)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, r := range rows {
		if !match(r) {
			continue
		}
		if err := deleteOne(ctx, c, r.EntityID(), entity); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// exists reports whether a record with the id is stored.
func exists[T models.Record[T]](ctx context.Context, c repository.Collection[T], id int64, entity string) (bool, error) {
	if _, err := c.Get(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Internal(err, "failed to load "+entity)
	}
	return true, nil
}

func anyMatch[T any](rows []T, match func(T) bool) bool {
	for _, r := range rows {
		if match(r) {
			return true
		}
	}
	return false
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, appErrors.ErrNotFound)
}
