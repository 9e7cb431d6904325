package service

import (
	"context"

	"github.com/noah-isme/sma-dashboard-api/internal/dto"
	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

type schoolPerformanceProvider interface {
	School(ctx context.Context, actor models.Actor) (models.SchoolPerformance, bool, error)
}

// DashboardService composes the landing page of each role.
type DashboardService struct {
	deps          Deps
	performance   schoolPerformanceProvider
	announcements *AnnouncementService
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(deps Deps, performance schoolPerformanceProvider, announcements *AnnouncementService) *DashboardService {
	deps = deps.withDefaults()
	if performance == nil {
		performance = NewPerformanceService(deps)
	}
	if announcements == nil {
		announcements = NewAnnouncementService(deps)
	}
	return &DashboardService{deps: deps, performance: performance, announcements: announcements}
}

// Principal returns head counts, the school ranking and every announcement.
func (s *DashboardService) Principal(ctx context.Context, actor models.Actor) (*dto.PrincipalDashboardResponse, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return nil, err
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return nil, err
	}
	teachers, err := listAll(ctx, s.deps.Store.Teachers, "teachers")
	if err != nil {
		return nil, err
	}
	classes, err := listAll(ctx, s.deps.Store.Classes, "classes")
	if err != nil {
		return nil, err
	}
	performance, _, err := s.performance.School(ctx, actor)
	if err != nil {
		return nil, err
	}
	announcements, err := s.announcements.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &dto.PrincipalDashboardResponse{
		StudentCount:  len(students),
		TeacherCount:  len(teachers),
		ClassCount:    len(classes),
		Performance:   &performance,
		Announcements: announcements,
	}, nil
}

// Teacher summarises the teacher's classes for today and outstanding work.
func (s *DashboardService) Teacher(ctx context.Context, actor models.Actor, teacherID int64) (*dto.TeacherDashboardResponse, error) {
	if err := s.deps.Auth.ReadTeacher(actor, teacherID); err != nil {
		return nil, err
	}
	entries, err := listAll(ctx, s.deps.Store.Timetable, "timetable")
	if err != nil {
		return nil, err
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return nil, err
	}
	requests, err := listAll(ctx, s.deps.Store.LeaveRequests, "leave requests")
	if err != nil {
		return nil, err
	}
	comms, err := listAll(ctx, s.deps.Store.Communications, "communications")
	if err != nil {
		return nil, err
	}
	announcements, err := s.announcements.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	day, _ := models.WeekdayOf(s.deps.Now())
	today := make([]models.TimetableEntry, 0)
	for _, e := range TimetableForTeacher(entries, teacherID) {
		if e.Day == day {
			today = append(today, e)
		}
	}
	pending := 0
	for _, r := range LeaveRequestsForTeacher(requests, entries, students, teacherID) {
		if r.Status == models.LeavePending {
			pending++
		}
	}
	unread := 0
	for _, c := range CommunicationsForTeacher(comms, teacherID) {
		if !c.IsReadByTeacher {
			unread++
		}
	}

	return &dto.TeacherDashboardResponse{
		TeacherID:      teacherID,
		StudentCount:   len(StudentsForTeacher(entries, students, teacherID)),
		Day:            day,
		TodaysClasses:  today,
		PendingLeave:   pending,
		UnreadMessages: unread,
		Announcements:  announcements,
	}, nil
}

// Student summarises one student's standing. Parents see their child.
func (s *DashboardService) Student(ctx context.Context, actor models.Actor, studentID int64) (*dto.StudentDashboardResponse, error) {
	if err := s.deps.Auth.ReadStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	student, err := getOne(ctx, s.deps.Store.Students, studentID, "student")
	if err != nil {
		return nil, err
	}
	label := models.NotAvailable
	if class, err := s.deps.Store.Classes.Get(ctx, student.ClassID); err == nil {
		label = class.Label()
	}
	marks, err := listAll(ctx, s.deps.Store.Marks, "marks")
	if err != nil {
		return nil, err
	}
	attendance, err := listAll(ctx, s.deps.Store.Attendance, "attendance")
	if err != nil {
		return nil, err
	}
	fees, err := listAll(ctx, s.deps.Store.Fees, "fees")
	if err != nil {
		return nil, err
	}
	requests, err := listAll(ctx, s.deps.Store.LeaveRequests, "leave requests")
	if err != nil {
		return nil, err
	}
	announcements, err := s.announcements.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentDashboardResponse{
		Student:       student,
		ClassLabel:    label,
		Academic:      AcademicPercentage(MarksForStudent(marks, studentID)),
		Attendance:    AttendancePercentage(AttendanceForStudent(attendance, studentID)),
		Announcements: announcements,
	}
	for _, f := range FeesForStudent(fees, studentID) {
		if f.Status == models.FeeUnpaid {
			resp.UnpaidFees++
			resp.AmountDue += f.Amount
		}
	}
	for _, r := range LeaveRequestsForStudent(requests, studentID) {
		if r.Status == models.LeavePending {
			resp.PendingLeave++
		}
	}
	return resp, nil
}
