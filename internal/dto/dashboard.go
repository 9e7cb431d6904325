package dto

import "github.com/noah-isme/sma-dashboard-api/internal/models"

// PrincipalDashboardResponse captures the head-of-school overview.
type PrincipalDashboardResponse struct {
	StudentCount  int                       `json:"studentCount"`
	TeacherCount  int                       `json:"teacherCount"`
	ClassCount    int                       `json:"classCount"`
	Performance   *models.SchoolPerformance `json:"performance,omitempty"`
	Announcements []models.Announcement     `json:"announcements"`
}

// TeacherDashboardResponse summarises a teacher's day.
type TeacherDashboardResponse struct {
	TeacherID      int64                   `json:"teacherId"`
	StudentCount   int                     `json:"studentCount"`
	Day            models.Weekday          `json:"day"`
	TodaysClasses  []models.TimetableEntry `json:"todaysClasses"`
	PendingLeave   int                     `json:"pendingLeave"`
	UnreadMessages int                     `json:"unreadMessages"`
	Announcements  []models.Announcement   `json:"announcements"`
}

// StudentDashboardResponse is shared by students and parents viewing a child.
type StudentDashboardResponse struct {
	Student       models.Student        `json:"student"`
	ClassLabel    string                `json:"classLabel"`
	Academic      models.Percentage     `json:"academicPercentage"`
	Attendance    models.Percentage     `json:"attendancePercentage"`
	UnpaidFees    int                   `json:"unpaidFees"`
	AmountDue     float64               `json:"amountDue"`
	PendingLeave  int                   `json:"pendingLeave"`
	Announcements []models.Announcement `json:"announcements"`
}
