package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

func TestDashboardServicePrincipal(t *testing.T) {
	ctx := context.Background()
	svc := NewDashboardService(newTestDeps(t), nil, nil)

	resp, err := svc.Principal(ctx, models.PrincipalActor(1))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.StudentCount)
	assert.Equal(t, 2, resp.TeacherCount)
	assert.Equal(t, 2, resp.ClassCount)
	require.NotNil(t, resp.Performance)
	assert.Equal(t, "84.83", resp.Performance.SchoolAverage)
	assert.Len(t, resp.Announcements, 3)

	_, err = svc.Principal(ctx, models.StudentActor(101))
	assertForbidden(t, err)
}

func TestDashboardServiceTeacher(t *testing.T) {
	ctx := context.Background()
	svc := NewDashboardService(newTestDeps(t), nil, nil)

	resp, err := svc.Teacher(ctx, models.TeacherActor(201), 201)
	require.NoError(t, err)
	assert.Equal(t, models.Monday, resp.Day)
	require.Len(t, resp.TodaysClasses, 1)
	assert.Equal(t, int64(501), resp.TodaysClasses[0].ID)
	assert.Equal(t, 3, resp.StudentCount)
	assert.Equal(t, 1, resp.PendingLeave)
	assert.Equal(t, 0, resp.UnreadMessages)

	garcia, err := svc.Teacher(ctx, models.TeacherActor(202), 202)
	require.NoError(t, err)
	assert.Equal(t, 1, garcia.UnreadMessages)

	_, err = svc.Teacher(ctx, models.TeacherActor(202), 201)
	assertForbidden(t, err)
}

func TestDashboardServiceTeacherOnWeekend(t *testing.T) {
	deps := newTestDeps(t)
	deps.Now = func() time.Time { return time.Date(2024, 5, 25, 9, 0, 0, 0, time.UTC) }
	svc := NewDashboardService(deps, nil, nil)

	resp, err := svc.Teacher(context.Background(), models.TeacherActor(201), 201)
	require.NoError(t, err)
	assert.NotNil(t, resp.TodaysClasses)
	assert.Empty(t, resp.TodaysClasses)
}

func TestDashboardServiceStudent(t *testing.T) {
	ctx := context.Background()
	svc := NewDashboardService(newTestDeps(t), nil, nil)

	resp, err := svc.Student(ctx, models.ParentActor(301, 101), 101)
	require.NoError(t, err)
	assert.Equal(t, "10-A", resp.ClassLabel)
	assert.Equal(t, "88.50%", resp.Academic.String())
	assert.Equal(t, "50.00%", resp.Attendance.String())
	assert.Equal(t, 1, resp.UnpaidFees)
	assert.Equal(t, 5000.0, resp.AmountDue)
	assert.Equal(t, 1, resp.PendingLeave)
	assert.Len(t, resp.Announcements, 2)

	_, err = svc.Student(ctx, models.StudentActor(103), 101)
	assertForbidden(t, err)
}
