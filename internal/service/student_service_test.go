package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func TestStudentServiceCreateRegistersAccount(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	svc := NewStudentService(deps, nil)

	student, err := svc.Create(ctx, models.PrincipalActor(1), CreateStudentRequest{
		Email:      "d.prince@student.edu",
		Name:       "Diana Prince",
		ClassID:    2,
		RollNumber: "11B02",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(104), student.ID)
	assert.Equal(t, "B", student.Section)
	assert.Equal(t, "2024-05-20", student.AdmissionDate)

	user, err := deps.Store.Users.Get(ctx, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "d.prince@student.edu", user.Email)
}

func TestStudentServiceCreateIntegrity(t *testing.T) {
	ctx := context.Background()
	svc := NewStudentService(newTestDeps(t), nil)
	principal := models.PrincipalActor(1)

	cases := []struct {
		name string
		req  CreateStudentRequest
		want *appErrors.Error
	}{
		{"missing identity", CreateStudentRequest{Name: "A", ClassID: 1, RollNumber: "X1"}, appErrors.ErrValidation},
		{"missing roll number", CreateStudentRequest{Email: "a@student.edu", Name: "A", ClassID: 1}, appErrors.ErrValidation},
		{"unknown class", CreateStudentRequest{Email: "a@student.edu", Name: "A", ClassID: 9, RollNumber: "X1"}, appErrors.ErrValidation},
		{"duplicate roll number", CreateStudentRequest{Email: "a@student.edu", Name: "A", ClassID: 1, RollNumber: "10A01"}, appErrors.ErrConflict},
		{"parent already linked", CreateStudentRequest{Email: "a@student.edu", Name: "A", ClassID: 1, RollNumber: "10A09", ParentID: ptrInt(301)}, appErrors.ErrConflict},
		{"unknown parent", CreateStudentRequest{Email: "a@student.edu", Name: "A", ClassID: 1, RollNumber: "10A09", ParentID: ptrInt(399)}, appErrors.ErrValidation},
		{"taken email", CreateStudentRequest{Email: "a.johnson@student.edu", Name: "A", ClassID: 1, RollNumber: "10A09"}, appErrors.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, principal, tc.req)
			assertCode(t, err, tc.want)
		})
	}

	// Roll numbers only need to be unique inside a class.
	_, err := svc.Create(ctx, principal, CreateStudentRequest{Email: "e@student.edu", Name: "E", ClassID: 2, RollNumber: "10A01"})
	assert.NoError(t, err)
}

func TestStudentServiceListIsRoleScoped(t *testing.T) {
	ctx := context.Background()
	svc := NewStudentService(newTestDeps(t), nil)

	all, err := svc.List(ctx, models.PrincipalActor(1))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	garcia, err := svc.List(ctx, models.TeacherActor(202))
	require.NoError(t, err)
	require.Len(t, garcia, 1)
	assert.Equal(t, int64(103), garcia[0].ID)

	child, err := svc.List(ctx, models.ParentActor(302, 102))
	require.NoError(t, err)
	require.Len(t, child, 1)
	assert.Equal(t, "Bob Williams", child[0].Name)

	_, err = svc.Get(ctx, models.StudentActor(103), 101)
	assertForbidden(t, err)
}

func TestStudentServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewStudentService(newTestDeps(t), nil)
	principal := models.PrincipalActor(1)

	class := int64(2)
	student, err := svc.Update(ctx, principal, 102, UpdateStudentRequest{ClassID: &class, ParentID: ptrInt(0)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), student.ClassID)
	assert.Equal(t, "B", student.Section)
	assert.Nil(t, student.ParentID)
	assert.Equal(t, "Bob Williams", student.Name)

	roll := "11B01"
	_, err = svc.Update(ctx, principal, 102, UpdateStudentRequest{RollNumber: &roll})
	assertCode(t, err, appErrors.ErrConflict)

	_, err = svc.Update(ctx, principal, 999, UpdateStudentRequest{RollNumber: &roll})
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	svc := NewStudentService(deps, nil)
	principal := models.PrincipalActor(1)

	_, err := svc.Create(ctx, models.TeacherActor(201), CreateStudentRequest{Email: "x@student.edu", Name: "X", ClassID: 1, RollNumber: "X"})
	assertForbidden(t, err)
	assertForbidden(t, svc.Delete(ctx, models.TeacherActor(201), 101))

	require.NoError(t, svc.Delete(ctx, principal, 101))
	require.NoError(t, svc.Delete(ctx, principal, 101))

	marks, err := deps.Store.Marks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, MarksForStudent(marks, 101))
	assert.Len(t, marks, 2)

	fees, err := deps.Store.Fees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fees, 1)

	comms, err := deps.Store.Communications.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, CommunicationsForStudent(comms, 101))

	_, err = deps.Store.Users.Get(ctx, 4)
	assert.Error(t, err)
}

func TestStudentServiceFullData(t *testing.T) {
	ctx := context.Background()
	svc := NewStudentService(newTestDeps(t), nil)

	records, err := svc.FullData(ctx, models.TeacherActor(202))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Marks, 1)
	assert.Len(t, records[0].Attendance, 1)

	_, err = svc.FullData(ctx, models.StudentActor(101))
	assertForbidden(t, err)
}

func ptrInt(v int64) *int64 { return &v }

type failingInsertCollection[T models.Record[T]] struct {
	repository.Collection[T]
}

func (failingInsertCollection[T]) Insert(_ context.Context, record T) (T, error) {
	return record, errors.New("disk full")
}

func TestStudentServiceCreateRollsBackAccount(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	deps.Store.Students = failingInsertCollection[models.Student]{deps.Store.Students}
	svc := NewStudentService(deps, nil)

	_, err := svc.Create(ctx, models.PrincipalActor(1), CreateStudentRequest{
		Email:      "d.prince@student.edu",
		Name:       "Diana Prince",
		ClassID:    2,
		RollNumber: "11B02",
	})
	assertCode(t, err, appErrors.ErrInternal)

	_, found, err := NewUserService(deps).FindByEmail(ctx, "d.prince@student.edu")
	require.NoError(t, err)
	assert.False(t, found)
}
