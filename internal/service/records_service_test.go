package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func TestAnnouncementServiceVisibility(t *testing.T) {
	ctx := context.Background()
	svc := NewAnnouncementService(newTestDeps(t))

	all, err := svc.List(ctx, models.PrincipalActor(1))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	parent, err := svc.List(ctx, models.ParentActor(301, 101))
	require.NoError(t, err)
	require.Len(t, parent, 2)
	assert.Equal(t, int64(3), parent[0].ID)
	assert.Equal(t, int64(1), parent[1].ID)

	teacher, err := svc.List(ctx, models.TeacherActor(201))
	require.NoError(t, err)
	require.Len(t, teacher, 1)
	assert.Equal(t, models.AudienceAll, teacher[0].RoleVisibility)
}

func TestAnnouncementServiceCreateAllocatesNextID(t *testing.T) {
	ctx := context.Background()
	svc := NewAnnouncementService(newTestDeps(t))
	principal := models.PrincipalActor(1)

	created, err := svc.Create(ctx, principal, CreateAnnouncementRequest{Title: "Sports Day", Message: "Friday", RoleVisibility: models.AudienceTeachers})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "2024-05-20", created.Date)

	_, err = svc.Create(ctx, principal, CreateAnnouncementRequest{Title: "x", Message: "y", RoleVisibility: "Everyone"})
	assertCode(t, err, appErrors.ErrValidation)

	require.NoError(t, svc.Delete(ctx, principal, created.ID))
	require.NoError(t, svc.Delete(ctx, principal, created.ID))

	_, err = svc.Update(ctx, principal, created.ID, UpdateAnnouncementRequest{})
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestMarkServiceScopes(t *testing.T) {
	ctx := context.Background()
	svc := NewMarkService(newTestDeps(t))

	_, err := svc.ForStudent(ctx, models.TeacherActor(202), 101)
	assertForbidden(t, err)

	marks, err := svc.ForStudent(ctx, models.TeacherActor(201), 101)
	require.NoError(t, err)
	assert.Len(t, marks, 2)

	entered, err := svc.ForTeacher(ctx, models.TeacherActor(202), 202)
	require.NoError(t, err)
	assert.Len(t, entered, 2)

	_, err = svc.ForTeacher(ctx, models.TeacherActor(202), 201)
	assertForbidden(t, err)
}

func TestMarkServiceRecordAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewMarkService(newTestDeps(t))

	mark, err := svc.Record(ctx, models.TeacherActor(201), RecordMarkRequest{
		StudentID: 103, SubjectID: 3, TeacherID: 202, ExamName: "Quiz", Marks: 18, Total: 20, Grade: "A",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(405), mark.ID)
	assert.Equal(t, int64(201), mark.TeacherID)

	_, err = svc.Record(ctx, models.TeacherActor(202), RecordMarkRequest{StudentID: 101, SubjectID: 1, ExamName: "Quiz", Total: 20})
	assertForbidden(t, err)

	_, err = svc.Record(ctx, models.PrincipalActor(1), RecordMarkRequest{StudentID: 101, SubjectID: 1, ExamName: "Quiz", Total: 20})
	assertCode(t, err, appErrors.ErrValidation)

	score := 19.5
	updated, err := svc.Update(ctx, models.TeacherActor(201), mark.ID, UpdateMarkRequest{Marks: &score})
	require.NoError(t, err)
	assert.Equal(t, 19.5, updated.Marks)
	assert.Equal(t, "Quiz", updated.ExamName)

	require.NoError(t, svc.Delete(ctx, models.TeacherActor(201), mark.ID))
	require.NoError(t, svc.Delete(ctx, models.TeacherActor(201), mark.ID))
}

func TestAttendanceServiceRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewAttendanceService(newTestDeps(t))

	record, err := svc.Record(ctx, models.TeacherActor(202), RecordAttendanceRequest{StudentID: 103, TeacherID: 201, Status: models.AttendanceLate})
	require.NoError(t, err)
	assert.Equal(t, int64(202), record.TeacherID)
	assert.Equal(t, "2024-05-20", record.Date)

	_, err = svc.Record(ctx, models.TeacherActor(202), RecordAttendanceRequest{StudentID: 101, Status: models.AttendancePresent})
	assertForbidden(t, err)

	_, err = svc.Record(ctx, models.StudentActor(103), RecordAttendanceRequest{StudentID: 103, Status: models.AttendancePresent})
	assertForbidden(t, err)

	_, err = svc.Record(ctx, models.TeacherActor(202), RecordAttendanceRequest{StudentID: 103, Status: "Excused"})
	assertCode(t, err, appErrors.ErrValidation)

	updated, err := svc.UpdateStatus(ctx, models.PrincipalActor(1), record.ID, UpdateAttendanceRequest{Status: models.AttendancePresent})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, updated.Status)

	history, err := svc.ForStudent(ctx, models.ParentActor(0, 103), 103)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestFeeServicePay(t *testing.T) {
	ctx := context.Background()
	svc := NewFeeService(newTestDeps(t))

	paid, err := svc.Pay(ctx, models.ParentActor(301, 101), 601)
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2024-05-20", *paid.PaymentDate)

	again, err := svc.Pay(ctx, models.StudentActor(101), 602)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", *again.PaymentDate)

	_, err = svc.Pay(ctx, models.ParentActor(301, 101), 603)
	assertForbidden(t, err)

	_, err = svc.Pay(ctx, models.TeacherActor(201), 603)
	assertForbidden(t, err)

	_, err = svc.Pay(ctx, models.StudentActor(101), 999)
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestFeeServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewFeeService(newTestDeps(t))

	fee, err := svc.Create(ctx, models.PrincipalActor(1), CreateFeeRequest{StudentID: 103, Amount: 2500, DueDate: "2024-07-01"})
	require.NoError(t, err)
	assert.Equal(t, models.FeeUnpaid, fee.Status)
	assert.Nil(t, fee.PaymentDate)

	_, err = svc.Create(ctx, models.PrincipalActor(1), CreateFeeRequest{StudentID: 999, Amount: 1, DueDate: "2024-07-01"})
	assertCode(t, err, appErrors.ErrValidation)

	fees, err := svc.ForStudent(ctx, models.StudentActor(103), 103)
	require.NoError(t, err)
	assert.Len(t, fees, 1)
}

func TestLeaveServiceCreateRoutesToClassTeacher(t *testing.T) {
	ctx := context.Background()
	svc := NewLeaveService(newTestDeps(t))

	req := CreateLeaveRequest{StudentID: 103, FromDate: "2024-06-03", ToDate: "2024-06-04", Reason: "Trip"}
	created, err := svc.Create(ctx, models.StudentActor(103), req)
	require.NoError(t, err)
	assert.Equal(t, int64(703), created.ID)
	assert.Equal(t, int64(202), created.TeacherID)
	assert.Equal(t, models.LeavePending, created.Status)

	byParent, err := svc.Create(ctx, models.ParentActor(301, 101), CreateLeaveRequest{StudentID: 101, FromDate: "2024-06-03", ToDate: "2024-06-03", Reason: "Dentist"})
	require.NoError(t, err)
	assert.Equal(t, int64(201), byParent.TeacherID)

	_, err = svc.Create(ctx, models.TeacherActor(202), req)
	assertForbidden(t, err)

	_, err = svc.Create(ctx, models.StudentActor(101), req)
	assertForbidden(t, err)

	backwards := req
	backwards.ToDate = "2024-06-01"
	_, err = svc.Create(ctx, models.StudentActor(103), backwards)
	assertCode(t, err, appErrors.ErrValidation)
}

func TestLeaveServiceDecide(t *testing.T) {
	ctx := context.Background()
	svc := NewLeaveService(newTestDeps(t))

	decided, err := svc.UpdateStatus(ctx, models.TeacherActor(201), 701, DecideLeaveRequest{Status: models.LeaveApproved})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, decided.Status)

	_, err = svc.UpdateStatus(ctx, models.TeacherActor(202), 701, DecideLeaveRequest{Status: models.LeaveRejected})
	assertForbidden(t, err)

	_, err = svc.UpdateStatus(ctx, models.TeacherActor(201), 701, DecideLeaveRequest{Status: models.LeavePending})
	assertCode(t, err, appErrors.ErrValidation)

	inbox, err := svc.ForTeacher(ctx, models.TeacherActor(202), 202)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestCommunicationServiceReplyOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewCommunicationService(newTestDeps(t))

	reply := "Sure, see you after class."
	updated, err := svc.Update(ctx, models.TeacherActor(202), 2, UpdateCommunicationRequest{Reply: &reply})
	require.NoError(t, err)
	assert.True(t, updated.Replied())
	assert.True(t, updated.IsReadByTeacher)
	assert.Equal(t, "2024-05-20", *updated.ReplyDate)

	_, err = svc.Update(ctx, models.TeacherActor(202), 2, UpdateCommunicationRequest{Reply: &reply})
	assertCode(t, err, appErrors.ErrConflict)

	read := true
	_, err = svc.Update(ctx, models.TeacherActor(201), 2, UpdateCommunicationRequest{IsReadByTeacher: &read})
	assertForbidden(t, err)

	_, err = svc.Update(ctx, models.StudentActor(102), 2, UpdateCommunicationRequest{IsReadByTeacher: &read})
	assertForbidden(t, err)
}

func TestCommunicationServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewCommunicationService(newTestDeps(t))

	msg, err := svc.Create(ctx, models.StudentActor(101), CreateCommunicationRequest{StudentID: 101, TeacherID: 202, Subject: "Essay", Message: "Deadline?"})
	require.NoError(t, err)
	assert.False(t, msg.IsReadByTeacher)
	assert.Equal(t, "2024-05-20", msg.Date)

	_, err = svc.Create(ctx, models.ParentActor(301, 101), CreateCommunicationRequest{StudentID: 101, TeacherID: 202, Subject: "x", Message: "y"})
	assertForbidden(t, err)

	_, err = svc.Create(ctx, models.StudentActor(101), CreateCommunicationRequest{StudentID: 101, TeacherID: 999, Subject: "x", Message: "y"})
	assertCode(t, err, appErrors.ErrValidation)

	inbox, err := svc.ForTeacher(ctx, models.TeacherActor(202), 202)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, msg.ID, inbox[1].ID)
}

func TestPromotionServiceAppendOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewPromotionService(newTestDeps(t))

	created, err := svc.Create(ctx, models.PrincipalActor(1), CreatePromotionRequest{
		StudentID: 103, FromClass: "10-B", ToClass: "11-B", AcademicYear: "2022-2023", Status: models.PromotionPassed, Marks: "430/500", Grade: "B+",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(803), created.ID)

	_, err = svc.Create(ctx, models.TeacherActor(202), CreatePromotionRequest{StudentID: 103, FromClass: "a", ToClass: "b", AcademicYear: "y", Status: models.PromotionFailed})
	assertForbidden(t, err)

	own, err := svc.ForStudent(ctx, models.StudentActor(101), 101)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}
