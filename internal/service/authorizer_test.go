package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func seededStore(t *testing.T) *repository.Store {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store))
	return store
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthorizerReadStudent(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	auth := NewAuthorizer(store.Students, store.Timetable)

	assert.NoError(t, auth.ReadStudent(ctx, models.PrincipalActor(1), 103))

	// Mr. Chen teaches classes 1 and 2, Ms. Garcia only class 2.
	assert.NoError(t, auth.ReadStudent(ctx, models.TeacherActor(201), 101))
	assert.NoError(t, auth.ReadStudent(ctx, models.TeacherActor(202), 103))
	assertForbidden(t, auth.ReadStudent(ctx, models.TeacherActor(202), 101))
	assertForbidden(t, auth.ReadStudent(ctx, models.TeacherActor(202), 999))

	assert.NoError(t, auth.ReadStudent(ctx, models.StudentActor(101), 101))
	assertForbidden(t, auth.ReadStudent(ctx, models.StudentActor(101), 102))

	assert.NoError(t, auth.ReadStudent(ctx, models.ParentActor(301, 101), 101))
	assertForbidden(t, auth.ReadStudent(ctx, models.ParentActor(301, 101), 102))
}

func TestAuthorizerWriteStudentRecord(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	auth := NewAuthorizer(store.Students, store.Timetable)

	assert.NoError(t, auth.WriteStudentRecord(ctx, models.TeacherActor(201), 102))
	assertForbidden(t, auth.WriteStudentRecord(ctx, models.StudentActor(101), 101))
	assertForbidden(t, auth.WriteStudentRecord(ctx, models.ParentActor(301, 101), 101))
}

func TestAuthorizerReadClass(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	auth := NewAuthorizer(store.Students, store.Timetable)

	assert.NoError(t, auth.ReadClass(ctx, models.StudentActor(103), 2))
	assertForbidden(t, auth.ReadClass(ctx, models.StudentActor(103), 1))
	assertForbidden(t, auth.ReadClass(ctx, models.TeacherActor(202), 1))
	assert.NoError(t, auth.ReadClass(ctx, models.ParentActor(302, 102), 1))
}

func TestAuthorizerRoles(t *testing.T) {
	auth := NewAuthorizer(nil, nil)
	assert.NoError(t, auth.RequirePrincipal(models.PrincipalActor(1)))
	assertForbidden(t, auth.RequirePrincipal(models.TeacherActor(201)))
	assert.NoError(t, auth.RequireRole(models.StudentActor(101), models.RoleStudent, models.RoleParent))
	assertForbidden(t, auth.ActForStudent(models.ParentActor(301, 101), 102))
	assertForbidden(t, auth.ReadTeacher(models.TeacherActor(201), 202))
}
