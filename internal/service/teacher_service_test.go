package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func TestTeacherServiceCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	svc := NewTeacherService(deps, nil)
	principal := models.PrincipalActor(1)

	teacher, err := svc.Create(ctx, principal, CreateTeacherRequest{Email: "k.lee@school.edu", Name: "Ms. Kim Lee", Department: "Arts"})
	require.NoError(t, err)
	assert.Equal(t, int64(203), teacher.ID)
	assert.Equal(t, "2024-05-20", teacher.JoiningDate)

	_, err = svc.Create(ctx, principal, CreateTeacherRequest{UserID: 4, Name: "Wrong"})
	assertCode(t, err, appErrors.ErrValidation)

	assertCode(t, svc.Delete(ctx, principal, 201), appErrors.ErrConflict)

	require.NoError(t, svc.Delete(ctx, principal, teacher.ID))
	require.NoError(t, svc.Delete(ctx, principal, teacher.ID))
	_, err = deps.Store.Users.Get(ctx, teacher.UserID)
	assert.Error(t, err)
}

func TestTeacherServiceSubjects(t *testing.T) {
	ctx := context.Background()
	svc := NewTeacherService(newTestDeps(t), nil)

	subjects, err := svc.Subjects(ctx, models.TeacherActor(201), 201)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "MATH101", subjects[0].Code)
	assert.Equal(t, "PHY101", subjects[1].Code)

	_, err = svc.Subjects(ctx, models.TeacherActor(202), 201)
	assertForbidden(t, err)
}

func TestClassServiceUniquenessAndDelete(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	svc := NewClassService(deps)
	principal := models.PrincipalActor(1)

	_, err := svc.Create(ctx, principal, CreateClassRequest{Name: "10", Section: "a"})
	assertCode(t, err, appErrors.ErrConflict)

	class, err := svc.Create(ctx, principal, CreateClassRequest{Name: "12", Section: "C"})
	require.NoError(t, err)
	assert.Equal(t, "12-C", class.Label())

	_, err = svc.AddAssignment(ctx, principal, class.ID, AssignSubjectRequest{SubjectID: 3})
	require.NoError(t, err)
	_, err = svc.AddAssignment(ctx, principal, class.ID, AssignSubjectRequest{SubjectID: 3})
	assertCode(t, err, appErrors.ErrConflict)
	_, err = svc.AddAssignment(ctx, principal, class.ID, AssignSubjectRequest{SubjectID: 42})
	assertCode(t, err, appErrors.ErrValidation)

	detail, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.StudentCount)
	assert.Len(t, detail.Subjects, 2)

	assertCode(t, svc.Delete(ctx, principal, 1), appErrors.ErrConflict)
	require.NoError(t, svc.Delete(ctx, principal, class.ID))

	remaining, err := svc.Assignments(ctx, class.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSubjectServiceCodeAndReferences(t *testing.T) {
	ctx := context.Background()
	svc := NewSubjectService(newTestDeps(t))
	principal := models.PrincipalActor(1)

	subject, err := svc.Create(ctx, principal, CreateSubjectRequest{Name: "Chemistry", Code: "chem101"})
	require.NoError(t, err)
	assert.Equal(t, "CHEM101", subject.Code)

	_, err = svc.Create(ctx, principal, CreateSubjectRequest{Name: "Maths again", Code: "Math101"})
	assertCode(t, err, appErrors.ErrConflict)

	assertCode(t, svc.Delete(ctx, principal, 1), appErrors.ErrConflict)
	require.NoError(t, svc.Delete(ctx, principal, subject.ID))

	_, err = svc.Create(ctx, models.TeacherActor(201), CreateSubjectRequest{Name: "Art", Code: "ART1"})
	assertForbidden(t, err)
}

func TestTimetableServiceScopes(t *testing.T) {
	ctx := context.Background()
	svc := NewTimetableService(newTestDeps(t))

	entries, err := svc.ForClass(ctx, models.StudentActor(103), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = svc.ForClass(ctx, models.StudentActor(103), 1)
	assertForbidden(t, err)

	mine, err := svc.ForTeacher(ctx, models.TeacherActor(202), 202)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.Create(ctx, models.PrincipalActor(1), TimetableEntryRequest{TeacherID: 999, SubjectID: 1, ClassID: 1, Day: models.Thursday, TimeSlot: "08:00 - 09:00"})
	assertCode(t, err, appErrors.ErrValidation)

	created, err := svc.Create(ctx, models.PrincipalActor(1), TimetableEntryRequest{TeacherID: 202, SubjectID: 2, ClassID: 1, Day: models.Thursday, TimeSlot: "08:00 - 09:00", Room: "202"})
	require.NoError(t, err)
	assert.Equal(t, int64(506), created.ID)
}
